package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

type ProductionScheduleRepository struct {
	db *gorm.DB
}

func NewProductionScheduleRepository(db *gorm.DB) *ProductionScheduleRepository {
	return &ProductionScheduleRepository{db: db}
}

func (r *ProductionScheduleRepository) Create(ctx context.Context, schedule *domain.ProductionSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *ProductionScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductionSchedule, error) {
	var schedule domain.ProductionSchedule
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ProductionScheduleRepository) Update(ctx context.Context, schedule *domain.ProductionSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

// ListByWorkOrderID returns all schedule entries for a work order, earliest first
func (r *ProductionScheduleRepository) ListByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]domain.ProductionSchedule, error) {
	var schedules []domain.ProductionSchedule
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("scheduled_start ASC").
		Find(&schedules).Error
	return schedules, err
}

// ListBetween returns schedules overlapping the [from, to) window
func (r *ProductionScheduleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.ProductionSchedule, error) {
	var schedules []domain.ProductionSchedule
	err := r.db.WithContext(ctx).
		Preload("WorkOrder").
		Where("scheduled_start < ? AND scheduled_end >= ?", to, from).
		Order("scheduled_start ASC").
		Find(&schedules).Error
	return schedules, err
}

// ListOverdue returns schedules whose scheduled end has passed without completion
func (r *ProductionScheduleRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.ProductionSchedule, error) {
	var schedules []domain.ProductionSchedule
	err := r.db.WithContext(ctx).
		Where("scheduled_end < ? AND status IN ?", now,
			[]domain.ScheduleStatus{domain.ScheduleStatusScheduled, domain.ScheduleStatusInProgress}).
		Find(&schedules).Error
	return schedules, err
}

// MarkDelayed flags a batch of schedules as delayed
func (r *ProductionScheduleRepository) MarkDelayed(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.ProductionSchedule{}).
		Where("id IN ?", ids).
		Update("status", domain.ScheduleStatusDelayed)
	return res.RowsAffected, res.Error
}
