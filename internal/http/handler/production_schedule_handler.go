package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/service"
	"go.uber.org/zap"
)

type ProductionScheduleHandler struct {
	scheduleService *service.ProductionScheduleService
	logger          *zap.Logger
}

func NewProductionScheduleHandler(scheduleService *service.ProductionScheduleService, logger *zap.Logger) *ProductionScheduleHandler {
	return &ProductionScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create production schedule
// @Description Schedule a production slot for a work order
// @Tags ProductionSchedules
// @Accept json
// @Produce json
// @Param schedule body domain.CreateProductionScheduleRequest true "Schedule data"
// @Success 201 {object} domain.ProductionScheduleDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /production-schedules [post]
func (h *ProductionScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductionScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	schedule, err := h.scheduleService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkOrderNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
		case errors.Is(err, service.ErrInvalidInput):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to create production schedule", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to create production schedule",
			})
		}
		return
	}

	respondJSON(w, http.StatusCreated, schedule)
}

// Update godoc
// @Summary Update production schedule
// @Description Partially update a production schedule; only supplied fields are applied
// @Tags ProductionSchedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID" format(uuid)
// @Param schedule body domain.UpdateProductionScheduleRequest true "Fields to update"
// @Success 200 {object} domain.ProductionScheduleDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /production-schedules/{id} [put]
func (h *ProductionScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid schedule ID",
		})
		return
	}

	var req domain.UpdateProductionScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	schedule, err := h.scheduleService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Production schedule not found",
			})
		case errors.Is(err, service.ErrInvalidInput):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to update production schedule", zap.Error(err), zap.String("schedule_id", id.String()))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update production schedule",
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, schedule)
}

// ListByWorkOrder godoc
// @Summary List schedules for work order
// @Description Get all production schedule entries for a work order, earliest first
// @Tags ProductionSchedules
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.ProductionScheduleDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/schedules [get]
func (h *ProductionScheduleHandler) ListByWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	schedules, err := h.scheduleService.ListByWorkOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkOrderNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
			return
		}
		h.logger.Error("failed to list production schedules", zap.Error(err), zap.String("work_order_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list production schedules",
		})
		return
	}

	respondJSON(w, http.StatusOK, schedules)
}
