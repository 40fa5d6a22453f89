package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/mapper"
	"github.com/nordcup-as/production-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status transition rules: defines valid transitions between work order statuses
var validStatusTransitions = map[domain.WorkOrderStatus][]domain.WorkOrderStatus{
	domain.WorkOrderStatusDraft:              {domain.WorkOrderStatusPending, domain.WorkOrderStatusCancelled},
	domain.WorkOrderStatusPending:            {domain.WorkOrderStatusApproved, domain.WorkOrderStatusCancelled, domain.WorkOrderStatusOnHold},
	domain.WorkOrderStatusApproved:           {domain.WorkOrderStatusInProduction, domain.WorkOrderStatusCancelled, domain.WorkOrderStatusOnHold},
	domain.WorkOrderStatusInProduction:       {domain.WorkOrderStatusProductionComplete, domain.WorkOrderStatusOnHold, domain.WorkOrderStatusCancelled},
	domain.WorkOrderStatusProductionComplete: {domain.WorkOrderStatusQualityCheck, domain.WorkOrderStatusOnHold},
	domain.WorkOrderStatusQualityCheck:       {domain.WorkOrderStatusShipped, domain.WorkOrderStatusInProduction}, // failed QC goes back to production
	domain.WorkOrderStatusShipped:            {domain.WorkOrderStatusDelivered},
	domain.WorkOrderStatusOnHold:             {domain.WorkOrderStatusPending, domain.WorkOrderStatusApproved, domain.WorkOrderStatusInProduction},
	domain.WorkOrderStatusDelivered:          {}, // Terminal state
	domain.WorkOrderStatusCancelled:          {}, // Terminal state
}

type WorkOrderService struct {
	orderRepo    *repository.WorkOrderRepository
	updateRepo   *repository.WorkOrderUpdateRepository
	customerRepo *repository.CustomerRepository
	numberRepo   *repository.OrderNumberRepository
	logger       *zap.Logger
	db           *gorm.DB
}

func NewWorkOrderService(
	orderRepo *repository.WorkOrderRepository,
	updateRepo *repository.WorkOrderUpdateRepository,
	customerRepo *repository.CustomerRepository,
	numberRepo *repository.OrderNumberRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:    orderRepo,
		updateRepo:   updateRepo,
		customerRepo: customerRepo,
		numberRepo:   numberRepo,
		logger:       logger,
		db:           db,
	}
}

// Create creates a new work order in draft status. The order number is
// generated from the per-month counter inside the same transaction as the
// insert so concurrent creates cannot collide.
func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if req.UnitPrice <= 0 {
		return nil, fmt.Errorf("%w: unit price must be positive", ErrInvalidInput)
	}

	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer.Status == domain.CustomerStatusArchived {
		return nil, fmt.Errorf("%w: cannot create orders for archived customers", ErrCustomerArchived)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	totalAmount := float64(req.Quantity) * req.UnitPrice
	if req.TotalAmount != nil {
		totalAmount = *req.TotalAmount
	}

	var createdBy *uuid.UUID
	if userCtx, ok := auth.FromContext(ctx); ok {
		id := userCtx.UserID
		createdBy = &id
	}

	now := time.Now().UTC()
	order := &domain.WorkOrder{
		CustomerID:            req.CustomerID,
		ProductType:           req.ProductType,
		Quantity:              req.Quantity,
		UnitPrice:             req.UnitPrice,
		TotalAmount:           totalAmount,
		CupSize:               req.CupSize,
		CupType:               req.CupType,
		Material:              req.Material,
		Color:                 req.Color,
		DesignSpecifications:  req.DesignSpecifications,
		PrintingRequirements:  req.PrintingRequirements,
		Priority:              priority,
		Status:                domain.WorkOrderStatusDraft,
		OrderDate:             now,
		RequestedDeliveryDate: req.RequestedDeliveryDate,
		SpecialInstructions:   req.SpecialInstructions,
		IsActive:              true,
		CreatedBy:             createdBy,
		UpdatedBy:             createdBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := s.numberRepo.NextSequence(tx, now.Year(), int(now.Month()))
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("WO%d-%04d", now.Year(), seq)

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_id", order.CustomerID.String()),
		zap.Int("quantity", order.Quantity),
		zap.Float64("total_amount", order.TotalAmount))

	order.Customer = customer
	dto := mapper.ToWorkOrderDTO(order)
	return &dto, nil
}

// UpdateStatus transitions a work order to a new status. The status change,
// milestone timestamp and audit row are committed atomically; an invalid
// transition leaves the order untouched.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderStatusRequest) (*domain.WorkOrderDTO, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.Status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	if !isValidStatusTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, req.Status)
	}

	oldStatus := order.Status
	var updatedByID, updatedByName string
	var updatedBy *uuid.UUID
	if userCtx, ok := auth.FromContext(ctx); ok {
		updatedByID = userCtx.UserID.String()
		updatedByName = userCtx.DisplayName
		id := userCtx.UserID
		updatedBy = &id
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Status = req.Status
		order.UpdatedBy = updatedBy
		applyMilestoneTimestamps(order, req.Status, time.Now().UTC())

		if err := tx.Save(order).Error; err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}

		update := &domain.WorkOrderUpdate{
			WorkOrderID:   order.ID,
			OldStatus:     &oldStatus,
			NewStatus:     req.Status,
			Notes:         req.Notes,
			UpdatedByID:   updatedByID,
			UpdatedByName: updatedByName,
		}
		if err := tx.Create(update).Error; err != nil {
			return fmt.Errorf("failed to record status update: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("work order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(req.Status)))

	dto := mapper.ToWorkOrderDTO(order)
	return &dto, nil
}

// Update applies a partial update. Total amount is recomputed when quantity
// or unit price change unless the caller supplies an explicit total. Status
// is not editable through this path.
func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	if req.CustomerID != nil && *req.CustomerID != order.CustomerID {
		customer, err := s.customerRepo.GetByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("failed to get customer: %w", err)
		}
		if customer.Status == domain.CustomerStatusArchived {
			return nil, fmt.Errorf("%w: cannot assign orders to archived customers", ErrCustomerArchived)
		}
		order.CustomerID = *req.CustomerID
	}

	pricingChanged := false
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		order.Quantity = *req.Quantity
		pricingChanged = true
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice <= 0 {
			return nil, fmt.Errorf("%w: unit price must be positive", ErrInvalidInput)
		}
		order.UnitPrice = *req.UnitPrice
		pricingChanged = true
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	} else if pricingChanged {
		order.TotalAmount = float64(order.Quantity) * order.UnitPrice
	}

	if req.ProductType != nil {
		order.ProductType = *req.ProductType
	}
	if req.CupSize != nil {
		order.CupSize = *req.CupSize
	}
	if req.CupType != nil {
		order.CupType = *req.CupType
	}
	if req.Material != nil {
		order.Material = *req.Material
	}
	if req.Color != nil {
		order.Color = *req.Color
	}
	if req.DesignSpecifications != nil {
		order.DesignSpecifications = *req.DesignSpecifications
	}
	if req.PrintingRequirements != nil {
		order.PrintingRequirements = *req.PrintingRequirements
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *req.Priority)
		}
		order.Priority = *req.Priority
	}
	if req.RequestedDeliveryDate != nil {
		order.RequestedDeliveryDate = req.RequestedDeliveryDate
	}
	if req.ScheduledProductionDate != nil {
		order.ScheduledProductionDate = req.ScheduledProductionDate
	}
	if req.EstimatedShipDate != nil {
		order.EstimatedShipDate = req.EstimatedShipDate
	}
	if req.ProductionNotes != nil {
		order.ProductionNotes = *req.ProductionNotes
	}
	if req.QualityCheckNotes != nil {
		order.QualityCheckNotes = *req.QualityCheckNotes
	}
	if req.ShippingNotes != nil {
		order.ShippingNotes = *req.ShippingNotes
	}
	if req.SpecialInstructions != nil {
		order.SpecialInstructions = *req.SpecialInstructions
	}

	if userCtx, ok := auth.FromContext(ctx); ok {
		id := userCtx.UserID
		order.UpdatedBy = &id
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}

	dto := mapper.ToWorkOrderDTO(order)
	return &dto, nil
}

// Delete soft-deletes a work order. Only draft and pending orders can be
// deleted; the order is deactivated and its status forced to cancelled.
func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkOrderNotFound
		}
		return fmt.Errorf("failed to get work order: %w", err)
	}

	if order.Status != domain.WorkOrderStatusDraft && order.Status != domain.WorkOrderStatusPending {
		return fmt.Errorf("%w: only draft or pending orders can be deleted (current: %s)", ErrInvalidState, order.Status)
	}

	order.IsActive = false
	order.Status = domain.WorkOrderStatusCancelled
	if userCtx, ok := auth.FromContext(ctx); ok {
		uid := userCtx.UserID
		order.UpdatedBy = &uid
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}

	s.logger.Info("work order deleted",
		zap.String("order_number", order.OrderNumber))

	return nil
}

func (s *WorkOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDetailDTO, error) {
	order, err := s.orderRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	dto := mapper.ToWorkOrderDetailDTO(order)
	return &dto, nil
}

func (s *WorkOrderService) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.WorkOrderDetailDTO, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	dto := mapper.ToWorkOrderDetailDTO(order)
	return &dto, nil
}

func (s *WorkOrderService) List(ctx context.Context, page, pageSize int, filters *repository.WorkOrderFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	// Clamp page size
	if pageSize < 1 {
		pageSize = repository.DefaultPageSize
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	orders, total, err := s.orderRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	dtos := make([]domain.WorkOrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = mapper.ToWorkOrderDTO(&order)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetUpdates returns the audit trail for a work order, oldest first
func (s *WorkOrderService) GetUpdates(ctx context.Context, id uuid.UUID) ([]domain.WorkOrderUpdateDTO, error) {
	updates, err := s.updateRepo.GetByWorkOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order updates: %w", err)
	}

	dtos := make([]domain.WorkOrderUpdateDTO, len(updates))
	for i, u := range updates {
		dtos[i] = mapper.ToWorkOrderUpdateDTO(&u)
	}
	return dtos, nil
}

// GetStatistics aggregates counts and values over active work orders
func (s *WorkOrderService) GetStatistics(ctx context.Context) (*domain.WorkOrderStatsDTO, error) {
	stats := &domain.WorkOrderStatsDTO{
		OrdersByStatus:   make(map[string]int64),
		OrdersByPriority: make(map[string]int64),
	}

	total, err := s.orderRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count work orders: %w", err)
	}
	stats.TotalOrders = total

	byStatus, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}
	for _, row := range byStatus {
		stats.OrdersByStatus[string(row.Status)] = row.Count
	}

	byPriority, err := s.orderRepo.CountByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count by priority: %w", err)
	}
	for _, row := range byPriority {
		stats.OrdersByPriority[string(row.Priority)] = row.Count
	}

	stats.PendingOrders = stats.OrdersByStatus[string(domain.WorkOrderStatusPending)]
	stats.InProductionOrders = stats.OrdersByStatus[string(domain.WorkOrderStatusInProduction)]

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	completed, err := s.orderRepo.CountDeliveredBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count delivered orders: %w", err)
	}
	stats.CompletedThisMonth = completed

	totalValue, err := s.orderRepo.SumOpenValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum open order value: %w", err)
	}
	stats.TotalValue = totalValue

	return stats, nil
}

// GetProductionQueue returns orders grouped into the three production buckets
func (s *WorkOrderService) GetProductionQueue(ctx context.Context) (*domain.ProductionQueueDTO, error) {
	scheduled, err := s.orderRepo.ListApprovedForQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved orders: %w", err)
	}

	inProgress, err := s.orderRepo.ListInProductionForQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list in-production orders: %w", err)
	}

	qualityCheck, err := s.orderRepo.ListQualityCheckForQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quality-check orders: %w", err)
	}

	queue := &domain.ProductionQueueDTO{
		Scheduled:    make([]domain.WorkOrderDTO, len(scheduled)),
		InProgress:   make([]domain.WorkOrderDTO, len(inProgress)),
		QualityCheck: make([]domain.WorkOrderDTO, len(qualityCheck)),
	}
	for i, order := range scheduled {
		queue.Scheduled[i] = mapper.ToWorkOrderDTO(&order)
	}
	for i, order := range inProgress {
		queue.InProgress[i] = mapper.ToWorkOrderDTO(&order)
	}
	for i, order := range qualityCheck {
		queue.QualityCheck[i] = mapper.ToWorkOrderDTO(&order)
	}

	return queue, nil
}

// applyMilestoneTimestamps sets the stage timestamp on first entry into a
// milestone status. Timestamps already set are never overwritten.
func applyMilestoneTimestamps(order *domain.WorkOrder, newStatus domain.WorkOrderStatus, now time.Time) {
	switch newStatus {
	case domain.WorkOrderStatusInProduction:
		if order.ActualProductionStart == nil {
			order.ActualProductionStart = &now
		}
	case domain.WorkOrderStatusProductionComplete:
		if order.ActualProductionComplete == nil {
			order.ActualProductionComplete = &now
		}
	case domain.WorkOrderStatusShipped:
		if order.ActualShipDate == nil {
			order.ActualShipDate = &now
		}
	case domain.WorkOrderStatusDelivered:
		if order.DeliveryDate == nil {
			order.DeliveryDate = &now
		}
	}
}

// isValidStatusTransition checks if a status transition is allowed
func isValidStatusTransition(from, to domain.WorkOrderStatus) bool {
	validNextStatuses, ok := validStatusTransitions[from]
	if !ok {
		return false
	}

	for _, validStatus := range validNextStatuses {
		if validStatus == to {
			return true
		}
	}
	return false
}
