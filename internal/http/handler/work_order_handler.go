package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	orderService *service.WorkOrderService
	logger       *zap.Logger
}

func NewWorkOrderHandler(orderService *service.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// List godoc
// @Summary List work orders
// @Description Get paginated list of active work orders with optional filters
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(draft, pending, approved, in_production, production_complete, quality_check, shipped, delivered, on_hold, cancelled)
// @Param priority query string false "Filter by priority" Enums(low, normal, high, urgent)
// @Param customerId query string false "Filter by customer ID" format(uuid)
// @Param search query string false "Search by order number or product type"
// @Param sortBy query string false "Sort field" Enums(createdAt, orderDate, priority, requestedDeliveryDate)
// @Param sortOrder query string false "Sort order" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkOrderDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.WorkOrderFilters{
		Search: r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.WorkOrderStatus(status)
		if !s.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid status filter",
			})
			return
		}
		filters.Status = &s
	}

	if priority := r.URL.Query().Get("priority"); priority != "" {
		p := domain.WorkOrderPriority(priority)
		if !p.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid priority filter",
			})
			return
		}
		filters.Priority = &p
	}

	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		cid, err := uuid.Parse(customerID)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid customer ID filter",
			})
			return
		}
		filters.CustomerID = &cid
	}

	sort := repository.DefaultSortConfig()
	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		sort.Field = sortBy
	}
	if sortOrder := r.URL.Query().Get("sortOrder"); sortOrder != "" {
		sort.Order = repository.ParseSortOrder(sortOrder)
	}

	result, err := h.orderService.List(r.Context(), page, pageSize, filters, sort)
	if err != nil {
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list work orders",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create work order
// @Description Create a new work order in draft status. The order number is generated automatically.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param workOrder body domain.CreateWorkOrderRequest true "Work order data"
// @Success 201 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
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

	order, err := h.orderService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Customer not found",
			})
		case errors.Is(err, service.ErrCustomerArchived), errors.Is(err, service.ErrInvalidInput):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to create work order", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to create work order",
			})
		}
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// GetByID godoc
// @Summary Get work order by ID
// @Description Get a work order with customer, status history, production schedules and files
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDetailDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkOrderNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
			return
		}
		h.logger.Error("failed to get work order", zap.Error(err), zap.String("work_order_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get work order",
		})
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetByOrderNumber godoc
// @Summary Get work order by order number
// @Description Get a work order by its human-readable order number (e.g., WO2026-0042)
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param orderNumber path string true "Order number"
// @Success 200 {object} domain.WorkOrderDetailDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/number/{orderNumber} [get]
func (h *WorkOrderHandler) GetByOrderNumber(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := h.orderService.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, service.ErrWorkOrderNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
			return
		}
		h.logger.Error("failed to get work order", zap.Error(err), zap.String("order_number", orderNumber))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get work order",
		})
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Update godoc
// @Summary Update work order
// @Description Partially update a work order. Status changes go through the status endpoint.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param workOrder body domain.UpdateWorkOrderRequest true "Fields to update"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [put]
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	var req domain.UpdateWorkOrderRequest
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

	order, err := h.orderService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkOrderNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
		case errors.Is(err, service.ErrCustomerNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Customer not found",
			})
		case errors.Is(err, service.ErrCustomerArchived), errors.Is(err, service.ErrInvalidInput):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to update work order", zap.Error(err), zap.String("work_order_id", id.String()))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update work order",
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus godoc
// @Summary Update work order status
// @Description Transition a work order to a new status. Invalid transitions are rejected and leave the order untouched.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param status body domain.UpdateWorkOrderStatusRequest true "Target status with optional notes"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/status [patch]
func (h *WorkOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	var req domain.UpdateWorkOrderStatusRequest
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

	h.transition(w, r, id, &req)
}

// transition runs the status change and maps service errors to HTTP codes.
// Shared by the status endpoint and the convenience transition endpoints.
func (h *WorkOrderHandler) transition(w http.ResponseWriter, r *http.Request, id uuid.UUID, req *domain.UpdateWorkOrderStatusRequest) {
	order, err := h.orderService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkOrderNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
		case errors.Is(err, service.ErrInvalidTransition):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrInvalidInput):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to update work order status", zap.Error(err), zap.String("work_order_id", id.String()))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update work order status",
			})
		}
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// convenienceTransition parses an optional {"notes": "..."} body and runs
// the transition to the given target status.
func (h *WorkOrderHandler) convenienceTransition(w http.ResponseWriter, r *http.Request, target domain.WorkOrderStatus) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	h.transition(w, r, id, &domain.UpdateWorkOrderStatusRequest{
		Status: target,
		Notes:  body.Notes,
	})
}

// Approve godoc
// @Summary Approve work order
// @Description Move a pending work order to approved
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/approve [post]
func (h *WorkOrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.convenienceTransition(w, r, domain.WorkOrderStatusApproved)
}

// StartProduction godoc
// @Summary Start production
// @Description Move an approved work order into production
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/start-production [post]
func (h *WorkOrderHandler) StartProduction(w http.ResponseWriter, r *http.Request) {
	h.convenienceTransition(w, r, domain.WorkOrderStatusInProduction)
}

// CompleteProduction godoc
// @Summary Complete production
// @Description Mark an in-production work order as production complete
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/complete-production [post]
func (h *WorkOrderHandler) CompleteProduction(w http.ResponseWriter, r *http.Request) {
	h.convenienceTransition(w, r, domain.WorkOrderStatusProductionComplete)
}

// PassQualityCheck godoc
// @Summary Pass quality check
// @Description Move a quality-check work order to shipped
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/pass-quality-check [post]
func (h *WorkOrderHandler) PassQualityCheck(w http.ResponseWriter, r *http.Request) {
	h.convenienceTransition(w, r, domain.WorkOrderStatusShipped)
}

// Delete godoc
// @Summary Delete work order
// @Description Soft-delete a work order. Only draft and pending orders can be deleted.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	if err := h.orderService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkOrderNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Work order not found",
			})
		case errors.Is(err, service.ErrInvalidState):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to delete work order", zap.Error(err), zap.String("work_order_id", id.String()))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to delete work order",
			})
		}
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// GetUpdates godoc
// @Summary Get work order status history
// @Description Get the append-only status transition history for a work order, oldest first
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {array} domain.WorkOrderUpdateDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/{id}/updates [get]
func (h *WorkOrderHandler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid work order ID",
		})
		return
	}

	updates, err := h.orderService.GetUpdates(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get work order updates", zap.Error(err), zap.String("work_order_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get work order updates",
		})
		return
	}

	respondJSON(w, http.StatusOK, updates)
}

// GetStatistics godoc
// @Summary Work order statistics
// @Description Get aggregated counts and total open value across active work orders
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Success 200 {object} domain.WorkOrderStatsDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/stats [get]
func (h *WorkOrderHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderService.GetStatistics(r.Context())
	if err != nil {
		h.logger.Error("failed to get work order statistics", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get work order statistics",
		})
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetProductionQueue godoc
// @Summary Production queue
// @Description Get orders grouped into scheduled, in-progress and quality-check buckets in processing order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Success 200 {object} domain.ProductionQueueDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /work-orders/production-queue [get]
func (h *WorkOrderHandler) GetProductionQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.orderService.GetProductionQueue(r.Context())
	if err != nil {
		h.logger.Error("failed to get production queue", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get production queue",
		})
		return
	}

	respondJSON(w, http.StatusOK, queue)
}
