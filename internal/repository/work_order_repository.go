package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

// openStatuses are the statuses counted toward the open order value
var openStatuses = []domain.WorkOrderStatus{
	domain.WorkOrderStatusPending,
	domain.WorkOrderStatusApproved,
	domain.WorkOrderStatusInProduction,
	domain.WorkOrderStatusProductionComplete,
	domain.WorkOrderStatusQualityCheck,
}

// WorkOrderFilters holds optional filters for listing work orders
type WorkOrderFilters struct {
	Status     *domain.WorkOrderStatus
	Priority   *domain.WorkOrderPriority
	CustomerID *uuid.UUID
	Search     string
}

// workOrderSortFields maps API sort field names to database columns
var workOrderSortFields = map[string]string{
	"createdAt":             "created_at",
	"orderDate":             "order_date",
	"orderNumber":           "order_number",
	"requestedDeliveryDate": "requested_delivery_date",
	"totalAmount":           "total_amount",
}

// StatusCount is a grouped count row for statistics queries
type StatusCount struct {
	Status domain.WorkOrderStatus
	Count  int64
}

// PriorityCount is a grouped count row for statistics queries
type PriorityCount struct {
	Priority domain.WorkOrderPriority
	Count    int64
}

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDWithDetails loads a work order with its customer, update history and schedules
func (r *WorkOrderRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_start ASC")
		}).
		Preload("Files").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *WorkOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Updates", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *WorkOrderRepository) List(ctx context.Context, page, pageSize int, filters *WorkOrderFilters, sort SortConfig) ([]domain.WorkOrder, int64, error) {
	var orders []domain.WorkOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).Where("is_active = ?", true)

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.Priority != nil {
			query = query.Where("priority = ?", *filters.Priority)
		}
		if filters.CustomerID != nil {
			query = query.Where("customer_id = ?", *filters.CustomerID)
		}
		if filters.Search != "" {
			searchPattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where("LOWER(order_number) LIKE ? OR LOWER(product_type) LIKE ?", searchPattern, searchPattern)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderClause := BuildOrderClause(sort, workOrderSortFields, "created_at")
	offset := (page - 1) * pageSize
	err := query.Preload("Customer").
		Offset(offset).Limit(pageSize).
		Order(orderClause).
		Find(&orders).Error

	return orders, total, err
}

// ListApprovedForQueue returns approved orders ordered by priority then
// requested delivery date (soonest first)
func (r *WorkOrderRepository) ListApprovedForQueue(ctx context.Context) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("is_active = ? AND status = ?", true, domain.WorkOrderStatusApproved).
		Order(priorityRankExpr + " DESC").
		Order("requested_delivery_date ASC").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// ListInProductionForQueue returns in-production orders ordered by priority
// then actual production start (oldest first)
func (r *WorkOrderRepository) ListInProductionForQueue(ctx context.Context) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("is_active = ? AND status = ?", true, domain.WorkOrderStatusInProduction).
		Order(priorityRankExpr + " DESC").
		Order("actual_production_start ASC").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// ListQualityCheckForQueue returns quality-check orders ordered by production
// completion time (oldest first)
func (r *WorkOrderRepository) ListQualityCheckForQueue(ctx context.Context) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("is_active = ? AND status = ?", true, domain.WorkOrderStatusQualityCheck).
		Order("actual_production_complete ASC").
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// CountActive returns the number of active work orders
func (r *WorkOrderRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountByStatus returns active order counts grouped by status
func (r *WorkOrderRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// CountByPriority returns active order counts grouped by priority
func (r *WorkOrderRepository) CountByPriority(ctx context.Context) ([]PriorityCount, error) {
	var rows []PriorityCount
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("priority, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("priority").
		Scan(&rows).Error
	return rows, err
}

// CountWithStatus returns the number of active orders in a single status
func (r *WorkOrderRepository) CountWithStatus(ctx context.Context, status domain.WorkOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("is_active = ? AND status = ?", true, status).
		Count(&count).Error
	return count, err
}

// CountDeliveredBetween returns active delivered orders whose delivery date
// falls in [from, to)
func (r *WorkOrderRepository) CountDeliveredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("is_active = ? AND status = ? AND delivery_date >= ? AND delivery_date < ?",
			true, domain.WorkOrderStatusDelivered, from, to).
		Count(&count).Error
	return count, err
}

// SumOpenValue returns the total amount across all active orders in an open status
func (r *WorkOrderRepository) SumOpenValue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("is_active = ? AND status IN ?", true, openStatuses).
		Scan(&total).Error
	return total, err
}
