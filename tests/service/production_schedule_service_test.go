package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"github.com/nordcup-as/production-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createScheduleService(db *gorm.DB) *service.ProductionScheduleService {
	return service.NewProductionScheduleService(
		repository.NewProductionScheduleRepository(db),
		repository.NewWorkOrderRepository(db),
		zap.NewNop(),
	)
}

func TestProductionScheduleService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Schedule AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	start := time.Now().UTC().Add(24 * time.Hour)
	schedule, err := svc.Create(ctx, &domain.CreateProductionScheduleRequest{
		WorkOrderID:    order.ID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(8 * time.Hour),
		ProductionLine: "Line 2",
	})
	require.NoError(t, err)
	assert.Equal(t, order.ID, schedule.WorkOrderID)
	assert.Equal(t, domain.ScheduleStatusScheduled, schedule.Status)
	assert.Equal(t, "Line 2", schedule.ProductionLine)
}

func TestProductionScheduleService_Create_EndBeforeStart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Schedule AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	start := time.Now().UTC()
	_, err := svc.Create(ctx, &domain.CreateProductionScheduleRequest{
		WorkOrderID:    order.ID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProductionScheduleService_Create_WorkOrderNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()

	start := time.Now().UTC()
	_, err := svc.Create(ctx, &domain.CreateProductionScheduleRequest{
		WorkOrderID:    uuid.New(),
		ScheduledStart: start,
		ScheduledEnd:   start.Add(time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrWorkOrderNotFound)
}

func TestProductionScheduleService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Schedule AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	start := time.Now().UTC().Add(24 * time.Hour)
	created, err := svc.Create(ctx, &domain.CreateProductionScheduleRequest{
		WorkOrderID:    order.ID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	inProgress := domain.ScheduleStatusInProgress
	actualStart := time.Now().UTC()
	operator := "A. Hansen"
	updated, err := svc.Update(ctx, created.ID, &domain.UpdateProductionScheduleRequest{
		Status:           &inProgress,
		ActualStart:      &actualStart,
		OperatorAssigned: &operator,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusInProgress, updated.Status)
	assert.NotNil(t, updated.ActualStart)
	assert.Equal(t, "A. Hansen", updated.OperatorAssigned)
}

func TestProductionScheduleService_Update_EndBeforeStartRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Schedule AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	start := time.Now().UTC().Add(24 * time.Hour)
	created, err := svc.Create(ctx, &domain.CreateProductionScheduleRequest{
		WorkOrderID:    order.ID,
		ScheduledStart: start,
		ScheduledEnd:   start.Add(8 * time.Hour),
	})
	require.NoError(t, err)

	badEnd := start.Add(-time.Hour)
	_, err = svc.Update(ctx, created.ID, &domain.UpdateProductionScheduleRequest{ScheduledEnd: &badEnd})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProductionScheduleService_FlagOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Overdue AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusInProduction)

	now := time.Now().UTC()
	overdue := &domain.ProductionSchedule{
		WorkOrderID:    order.ID,
		ScheduledStart: now.Add(-48 * time.Hour),
		ScheduledEnd:   now.Add(-24 * time.Hour),
		Status:         domain.ScheduleStatusInProgress,
	}
	require.NoError(t, db.Create(overdue).Error)

	future := &domain.ProductionSchedule{
		WorkOrderID:    order.ID,
		ScheduledStart: now.Add(24 * time.Hour),
		ScheduledEnd:   now.Add(48 * time.Hour),
		Status:         domain.ScheduleStatusScheduled,
	}
	require.NoError(t, db.Create(future).Error)

	completed := &domain.ProductionSchedule{
		WorkOrderID:    order.ID,
		ScheduledStart: now.Add(-72 * time.Hour),
		ScheduledEnd:   now.Add(-60 * time.Hour),
		Status:         domain.ScheduleStatusCompleted,
	}
	require.NoError(t, db.Create(completed).Error)

	flagged, err := svc.FlagOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flagged)

	var stored domain.ProductionSchedule
	require.NoError(t, db.First(&stored, "id = ?", overdue.ID).Error)
	assert.Equal(t, domain.ScheduleStatusDelayed, stored.Status)

	stored = domain.ProductionSchedule{}
	require.NoError(t, db.First(&stored, "id = ?", future.ID).Error)
	assert.Equal(t, domain.ScheduleStatusScheduled, stored.Status)

	stored = domain.ProductionSchedule{}
	require.NoError(t, db.First(&stored, "id = ?", completed.ID).Error)
	assert.Equal(t, domain.ScheduleStatusCompleted, stored.Status)
}

func TestProductionScheduleService_ListByWorkOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createScheduleService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "List AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	now := time.Now().UTC()
	later := &domain.ProductionSchedule{
		WorkOrderID:    order.ID,
		ScheduledStart: now.Add(48 * time.Hour),
		ScheduledEnd:   now.Add(56 * time.Hour),
		Status:         domain.ScheduleStatusScheduled,
	}
	require.NoError(t, db.Create(later).Error)
	earlier := &domain.ProductionSchedule{
		WorkOrderID:    order.ID,
		ScheduledStart: now.Add(24 * time.Hour),
		ScheduledEnd:   now.Add(32 * time.Hour),
		Status:         domain.ScheduleStatusScheduled,
	}
	require.NoError(t, db.Create(earlier).Error)

	schedules, err := svc.ListByWorkOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	// Earliest first
	assert.Equal(t, earlier.ID, schedules[0].ID)
	assert.Equal(t, later.ID, schedules[1].ID)
}
