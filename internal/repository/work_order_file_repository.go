package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

type WorkOrderFileRepository struct {
	db *gorm.DB
}

func NewWorkOrderFileRepository(db *gorm.DB) *WorkOrderFileRepository {
	return &WorkOrderFileRepository{db: db}
}

func (r *WorkOrderFileRepository) Create(ctx context.Context, file *domain.WorkOrderFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *WorkOrderFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrderFile, error) {
	var file domain.WorkOrderFile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByWorkOrderID returns all file metadata rows for a work order
func (r *WorkOrderFileRepository) ListByWorkOrderID(ctx context.Context, workOrderID uuid.UUID) ([]domain.WorkOrderFile, error) {
	var files []domain.WorkOrderFile
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *WorkOrderFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.WorkOrderFile{}, "id = ?", id).Error
}
