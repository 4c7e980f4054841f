package handler

import (
	"encoding/json"
	"net/http"

	"bookery/internal/facilities/service"
	httputil "bookery/pkg/http"
	"bookery/pkg/logger"
	"bookery/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FacilityHandler struct {
	service service.FacilityService
	log     *logger.Logger
}

func NewFacilityHandler(service service.FacilityService, log *logger.Logger) *FacilityHandler {
	return &FacilityHandler{
		service: service,
		log:     log,
	}
}

func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var facility model.Facility
	if err := json.NewDecoder(r.Body).Decode(&facility); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &facility); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, facility); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	facility, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, facility); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FacilityHandler) CreateType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ft model.FacilityType
	if err := json.NewDecoder(r.Body).Decode(&ft); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateType", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateType(r.Context(), &ft); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateType", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, ft); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateType", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) GetTypeByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ft, err := h.service.GetTypeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetTypeByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, ft); err != nil {
		h.log.Error("failed to write success response", "handler", "GetTypeByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FacilityHandler) CreateMaintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rec model.MaintenanceRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateMaintenance", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateMaintenance(r.Context(), &rec); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateMaintenance", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rec); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateMaintenance", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) CreateRateType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rt model.RateType
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateRateType", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateRateType(r.Context(), &rt); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateRateType", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rt); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateRateType", "operation", "WriteCreated", "error", err)
	}
}

func (h *FacilityHandler) GetRateTypeByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rt, err := h.service.GetRateTypeByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetRateTypeByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rt); err != nil {
		h.log.Error("failed to write success response", "handler", "GetRateTypeByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FacilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/facilities", h.Create)
	router.GET("/api/v1/facilities/id/:id", h.GetByID)
	router.POST("/api/v1/facility-types", h.CreateType)
	router.GET("/api/v1/facility-types/id/:id", h.GetTypeByID)
	router.POST("/api/v1/maintenance", h.CreateMaintenance)
	router.POST("/api/v1/rate-types", h.CreateRateType)
	router.GET("/api/v1/rate-types/id/:id", h.GetRateTypeByID)
}
