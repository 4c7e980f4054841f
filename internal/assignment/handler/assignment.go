package handler

import (
	"encoding/json"
	"net/http"

	"bookery/internal/assignment/service"
	httputil "bookery/pkg/http"
	"bookery/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AssignmentHandler struct {
	service service.AssignmentService
	log     *logger.Logger
}

func NewAssignmentHandler(service service.AssignmentService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		log:     log,
	}
}

type assignRequest struct {
	Overrides *service.DateOverrides `json:"overrides,omitempty"`
}

func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req assignRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			}); writeErr != nil {
				h.log.Error("failed to write JSON response", "handler", "Assign", "operation", "WriteJSON", "error", writeErr)
			}
			return
		}
	}

	result, err := h.service.AssignRoom(r.Context(), ps.ByName("id"), req.Overrides)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Assign", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Assign", "operation", "WriteSuccess", "error", err)
	}
}

type batchAssignRequest struct {
	ReservationIDs []string               `json:"reservation_ids"`
	Overrides      *service.DateOverrides `json:"overrides,omitempty"`
}

func (h *AssignmentHandler) BatchAssign(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req batchAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "BatchAssign", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	results, err := h.service.BatchAssign(r.Context(), req.ReservationIDs, req.Overrides)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "BatchAssign", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "BatchAssign", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AssignmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations/id/:id/assign", h.Assign)
	router.POST("/api/v1/reservations/assign", h.BatchAssign)
}
