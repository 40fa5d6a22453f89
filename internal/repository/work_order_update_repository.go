package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

// WorkOrderUpdateRepository handles the append-only status audit trail.
// Audit rows are never updated or deleted once written.
type WorkOrderUpdateRepository struct {
	db *gorm.DB
}

func NewWorkOrderUpdateRepository(db *gorm.DB) *WorkOrderUpdateRepository {
	return &WorkOrderUpdateRepository{db: db}
}

// Create records a new status transition
func (r *WorkOrderUpdateRepository) Create(ctx context.Context, update *domain.WorkOrderUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

// GetByWorkOrderID returns the full audit trail for a work order, oldest first
func (r *WorkOrderUpdateRepository) GetByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]domain.WorkOrderUpdate, error) {
	var updates []domain.WorkOrderUpdate
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&updates).Error
	return updates, err
}

// GetLatestByWorkOrderID returns the most recent status transition for a work order
func (r *WorkOrderUpdateRepository) GetLatestByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) (*domain.WorkOrderUpdate, error) {
	var update domain.WorkOrderUpdate
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		First(&update).Error
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// CountByWorkOrderID returns how many transitions a work order has recorded
func (r *WorkOrderUpdateRepository) CountByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrderUpdate{}).
		Where("work_order_id = ?", workOrderID).
		Count(&count).Error
	return count, err
}

// RecordTransition is a convenience method to append an audit row
func (r *WorkOrderUpdateRepository) RecordTransition(
	ctx context.Context,
	workOrderID uuid.UUID,
	oldStatus *domain.WorkOrderStatus,
	newStatus domain.WorkOrderStatus,
	updatedByID string,
	updatedByName string,
	notes string,
) error {
	update := &domain.WorkOrderUpdate{
		WorkOrderID:   workOrderID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		UpdatedByID:   updatedByID,
		UpdatedByName: updatedByName,
		Notes:         notes,
	}
	return r.Create(ctx, update)
}
