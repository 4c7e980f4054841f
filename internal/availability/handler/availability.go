package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookery/internal/availability/service"
	apperrors "bookery/pkg/errors"
	httputil "bookery/pkg/http"
	"bookery/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Check handles the query-parameter form: date range plus optional type
// narrowing and a single filter group via comma-separated lists.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, end, err := httputil.ExtractDateRange(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	opts, err := optionsFromQuery(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	results, err := h.service.CheckAllFacilityTypes(r.Context(), start, end, opts)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "operation", "WriteSuccess", "error", err)
	}
}

type searchRequest struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Options   service.Options `json:"options"`
}

// Search handles the body form used when callers need multiple filter groups.
func (h *AvailabilityHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Search", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("start_date and end_date are required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	results, err := h.service.CheckAllFacilityTypes(r.Context(), req.StartDate, req.EndDate, req.Options)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func optionsFromQuery(r *http.Request) (service.Options, error) {
	query := r.URL.Query()

	opts := service.Options{
		TypeID:   query.Get("type_id"),
		TypeName: query.Get("type_name"),
	}

	if raw := query.Get("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid min_price parameter: " + raw)
		}
		opts.MinPrice = &v
	}
	if raw := query.Get("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid max_price parameter: " + raw)
		}
		opts.MaxPrice = &v
	}

	group := service.FilterGroup{
		BedType: query.Get("bed_type"),
	}
	if raw := query.Get("amenities"); raw != "" {
		group.Amenities = strings.Split(raw, ",")
	}
	if raw := query.Get("features"); raw != "" {
		group.Features = strings.Split(raw, ",")
	}
	if raw := query.Get("max_occupancy"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, apperrors.InvalidInput("invalid max_occupancy parameter: " + raw)
		}
		group.MaxOccupancy = v
	}

	if len(group.Amenities) > 0 || len(group.Features) > 0 || group.BedType != "" || group.MaxOccupancy > 0 {
		opts.Filters = []service.FilterGroup{group}
	}

	return opts, nil
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Check)
	router.POST("/api/v1/availability/search", h.Search)
}
