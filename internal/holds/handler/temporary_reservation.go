package handler

import (
	"encoding/json"
	"net/http"

	"bookery/internal/holds/service"
	httputil "bookery/pkg/http"
	"bookery/pkg/logger"
	"bookery/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TemporaryReservationHandler struct {
	service service.TemporaryReservationService
	log     *logger.Logger
}

func NewTemporaryReservationHandler(service service.TemporaryReservationService, log *logger.Logger) *TemporaryReservationHandler {
	return &TemporaryReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *TemporaryReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hold model.TemporaryReservation
	if err := json.NewDecoder(r.Body).Decode(&hold); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &hold); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, hold); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *TemporaryReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hold, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, hold); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TemporaryReservationHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.Confirm(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteCreated", "error", err)
	}
}

func (h *TemporaryReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Cancel(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *TemporaryReservationHandler) CleanupExpired(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CleanupExpired", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]int64{"expired_count": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "CleanupExpired", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TemporaryReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/holds", h.Create)
	router.GET("/api/v1/holds/id/:id", h.GetByID)
	router.POST("/api/v1/holds/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/holds/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/holds/cleanup", h.CleanupExpired)
}
