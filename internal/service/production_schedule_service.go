package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/mapper"
	"github.com/nordcup-as/production-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductionScheduleService struct {
	scheduleRepo *repository.ProductionScheduleRepository
	orderRepo    *repository.WorkOrderRepository
	logger       *zap.Logger
}

func NewProductionScheduleService(
	scheduleRepo *repository.ProductionScheduleRepository,
	orderRepo    *repository.WorkOrderRepository,
	logger *zap.Logger,
) *ProductionScheduleService {
	return &ProductionScheduleService{
		scheduleRepo: scheduleRepo,
		orderRepo:    orderRepo,
		logger:       logger,
	}
}

func (s *ProductionScheduleService) Create(ctx context.Context, req *domain.CreateProductionScheduleRequest) (*domain.ProductionScheduleDTO, error) {
	if !req.ScheduledEnd.After(req.ScheduledStart) {
		return nil, fmt.Errorf("%w: scheduled end must be after scheduled start", ErrInvalidInput)
	}

	if _, err := s.orderRepo.GetByID(ctx, req.WorkOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	schedule := &domain.ProductionSchedule{
		WorkOrderID:      req.WorkOrderID,
		ScheduledStart:   req.ScheduledStart,
		ScheduledEnd:     req.ScheduledEnd,
		ProductionLine:   req.ProductionLine,
		MachineAssigned:  req.MachineAssigned,
		OperatorAssigned: req.OperatorAssigned,
		Status:           domain.ScheduleStatusScheduled,
		Notes:            req.Notes,
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create production schedule: %w", err)
	}

	s.logger.Info("production schedule created",
		zap.String("schedule_id", schedule.ID.String()),
		zap.String("work_order_id", schedule.WorkOrderID.String()),
		zap.String("production_line", schedule.ProductionLine))

	dto := mapper.ToProductionScheduleDTO(schedule)
	return &dto, nil
}

func (s *ProductionScheduleService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProductionScheduleRequest) (*domain.ProductionScheduleDTO, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get production schedule: %w", err)
	}

	if req.ScheduledStart != nil {
		schedule.ScheduledStart = *req.ScheduledStart
	}
	if req.ScheduledEnd != nil {
		schedule.ScheduledEnd = *req.ScheduledEnd
	}
	if !schedule.ScheduledEnd.After(schedule.ScheduledStart) {
		return nil, fmt.Errorf("%w: scheduled end must be after scheduled start", ErrInvalidInput)
	}
	if req.ActualStart != nil {
		schedule.ActualStart = req.ActualStart
	}
	if req.ActualEnd != nil {
		schedule.ActualEnd = req.ActualEnd
	}
	if req.ProductionLine != nil {
		schedule.ProductionLine = *req.ProductionLine
	}
	if req.MachineAssigned != nil {
		schedule.MachineAssigned = *req.MachineAssigned
	}
	if req.OperatorAssigned != nil {
		schedule.OperatorAssigned = *req.OperatorAssigned
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown schedule status %q", ErrInvalidInput, *req.Status)
		}
		schedule.Status = *req.Status
	}
	if req.Notes != nil {
		schedule.Notes = *req.Notes
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update production schedule: %w", err)
	}

	dto := mapper.ToProductionScheduleDTO(schedule)
	return &dto, nil
}

// ListByWorkOrder returns all schedule entries for a work order
func (s *ProductionScheduleService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.ProductionScheduleDTO, error) {
	if _, err := s.orderRepo.GetByID(ctx, workOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	schedules, err := s.scheduleRepo.ListByWorkOrderID(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list production schedules: %w", err)
	}

	dtos := make([]domain.ProductionScheduleDTO, len(schedules))
	for i, schedule := range schedules {
		dtos[i] = mapper.ToProductionScheduleDTO(&schedule)
	}
	return dtos, nil
}

// FlagOverdue marks schedules whose scheduled end has passed without
// completion as delayed. Called by the background sweep job.
func (s *ProductionScheduleService) FlagOverdue(ctx context.Context, now time.Time) (int64, error) {
	overdue, err := s.scheduleRepo.ListOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue schedules: %w", err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(overdue))
	for i, schedule := range overdue {
		ids[i] = schedule.ID
	}

	flagged, err := s.scheduleRepo.MarkDelayed(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to flag delayed schedules: %w", err)
	}

	s.logger.Info("flagged delayed production schedules",
		zap.Int64("count", flagged))

	return flagged, nil
}
