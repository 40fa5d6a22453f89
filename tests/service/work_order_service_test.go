package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/repository"
	"github.com/nordcup-as/production-api/internal/service"
	"github.com/nordcup-as/production-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createWorkOrderService(db *gorm.DB) *service.WorkOrderService {
	orderRepo := repository.NewWorkOrderRepository(db)
	updateRepo := repository.NewWorkOrderUpdateRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	numberRepo := repository.NewOrderNumberRepository(db)
	logger := zap.NewNop()

	return service.NewWorkOrderService(orderRepo, updateRepo, customerRepo, numberRepo, logger, db)
}

func createTestContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      uuid.New(),
		DisplayName: "Test User",
		Email:       "test@example.com",
		Roles:       []domain.UserRoleType{domain.RoleAdmin},
	})
}

func createOrderRequest(customerID uuid.UUID) *domain.CreateWorkOrderRequest {
	return &domain.CreateWorkOrderRequest{
		CustomerID:  customerID,
		ProductType: "paper_cup",
		Quantity:    5000,
		UnitPrice:   1.25,
		CupSize:     "12oz",
		CupType:     "single_wall",
		Material:    "paperboard",
		Color:       "white",
	}
}

func TestWorkOrderService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Oslo Kaffebar")

	order, err := svc.Create(ctx, createOrderRequest(customer.ID))
	require.NoError(t, err)

	assert.Equal(t, domain.WorkOrderStatusDraft, order.Status)
	assert.Equal(t, domain.PriorityNormal, order.Priority)
	assert.Equal(t, 5000, order.Quantity)
	assert.Equal(t, 1.25, order.UnitPrice)
	assert.Equal(t, 6250.0, order.TotalAmount)
	assert.True(t, order.IsActive)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, "Oslo Kaffebar", order.CustomerName)

	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("WO%d-0001", year), order.OrderNumber)
}

func TestWorkOrderService_Create_SequentialOrderNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Bergen Catering")

	year := time.Now().UTC().Year()
	for i := 1; i <= 3; i++ {
		order, err := svc.Create(ctx, createOrderRequest(customer.ID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("WO%d-%04d", year, i), order.OrderNumber)
	}
}

func TestWorkOrderService_Create_TotalOverride(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Trondheim Events")

	req := createOrderRequest(customer.ID)
	total := 5000.0 // discounted price
	req.TotalAmount = &total

	order, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, order.TotalAmount)
}

func TestWorkOrderService_Create_CustomerNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()

	_, err := svc.Create(ctx, createOrderRequest(uuid.New()))
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestWorkOrderService_Create_ArchivedCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Nedlagt AS")

	customer.Status = domain.CustomerStatusArchived
	require.NoError(t, db.Save(customer).Error)

	_, err := svc.Create(ctx, createOrderRequest(customer.ID))
	assert.ErrorIs(t, err, service.ErrCustomerArchived)
}

func TestWorkOrderService_Create_InvalidQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Stavanger Kiosk")

	req := createOrderRequest(customer.ID)
	req.Quantity = 0

	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestWorkOrderService_UpdateStatus_ValidTransitions(t *testing.T) {
	cases := []struct {
		from domain.WorkOrderStatus
		to   domain.WorkOrderStatus
	}{
		{domain.WorkOrderStatusDraft, domain.WorkOrderStatusPending},
		{domain.WorkOrderStatusDraft, domain.WorkOrderStatusCancelled},
		{domain.WorkOrderStatusPending, domain.WorkOrderStatusApproved},
		{domain.WorkOrderStatusPending, domain.WorkOrderStatusOnHold},
		{domain.WorkOrderStatusApproved, domain.WorkOrderStatusInProduction},
		{domain.WorkOrderStatusInProduction, domain.WorkOrderStatusProductionComplete},
		{domain.WorkOrderStatusProductionComplete, domain.WorkOrderStatusQualityCheck},
		{domain.WorkOrderStatusQualityCheck, domain.WorkOrderStatusShipped},
		{domain.WorkOrderStatusQualityCheck, domain.WorkOrderStatusInProduction},
		{domain.WorkOrderStatusShipped, domain.WorkOrderStatusDelivered},
		{domain.WorkOrderStatusOnHold, domain.WorkOrderStatusPending},
		{domain.WorkOrderStatusOnHold, domain.WorkOrderStatusInProduction},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := createWorkOrderService(db)
			ctx := createTestContext()
			customer := testutil.CreateTestCustomer(t, db, "Transition AS")
			order := testutil.CreateTestWorkOrder(t, db, customer.ID, tc.from)

			updated, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: tc.to})
			require.NoError(t, err)
			assert.Equal(t, tc.to, updated.Status)
		})
	}
}

func TestWorkOrderService_UpdateStatus_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from domain.WorkOrderStatus
		to   domain.WorkOrderStatus
	}{
		{domain.WorkOrderStatusDraft, domain.WorkOrderStatusShipped},
		{domain.WorkOrderStatusDraft, domain.WorkOrderStatusApproved},
		{domain.WorkOrderStatusPending, domain.WorkOrderStatusInProduction},
		{domain.WorkOrderStatusShipped, domain.WorkOrderStatusCancelled},
		{domain.WorkOrderStatusDelivered, domain.WorkOrderStatusPending},
		{domain.WorkOrderStatusCancelled, domain.WorkOrderStatusDraft},
		{domain.WorkOrderStatusProductionComplete, domain.WorkOrderStatusShipped},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := createWorkOrderService(db)
			ctx := createTestContext()
			customer := testutil.CreateTestCustomer(t, db, "Transition AS")
			order := testutil.CreateTestWorkOrder(t, db, customer.ID, tc.from)

			_, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: tc.to})
			assert.ErrorIs(t, err, service.ErrInvalidTransition)

			// Rejected transition must leave no audit row behind
			var count int64
			require.NoError(t, db.Model(&domain.WorkOrderUpdate{}).Where("work_order_id = ?", order.ID).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestWorkOrderService_UpdateStatus_AppendsAuditRow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Audit AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	_, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{
		Status: domain.WorkOrderStatusPending,
		Notes:  "ready for review",
	})
	require.NoError(t, err)

	updates, err := svc.GetUpdates(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, domain.WorkOrderStatusDraft, *updates[0].OldStatus)
	assert.Equal(t, domain.WorkOrderStatusPending, updates[0].NewStatus)
	assert.Equal(t, "ready for review", updates[0].Notes)
	assert.Equal(t, "Test User", updates[0].UpdatedByName)
}

func TestWorkOrderService_FullLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Lifecycle AS")

	order, err := svc.Create(ctx, createOrderRequest(customer.ID))
	require.NoError(t, err)

	path := []domain.WorkOrderStatus{
		domain.WorkOrderStatusPending,
		domain.WorkOrderStatusApproved,
		domain.WorkOrderStatusInProduction,
		domain.WorkOrderStatusProductionComplete,
		domain.WorkOrderStatusQualityCheck,
		domain.WorkOrderStatusShipped,
		domain.WorkOrderStatusDelivered,
	}
	for _, status := range path {
		_, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: status})
		require.NoError(t, err, "transition to %s", status)
	}

	detail, err := svc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusDelivered, detail.Status)
	assert.Len(t, detail.Updates, 7)

	// All four milestone timestamps set along the way
	assert.NotNil(t, detail.ActualProductionStart)
	assert.NotNil(t, detail.ActualProductionComplete)
	assert.NotNil(t, detail.ActualShipDate)
	assert.NotNil(t, detail.DeliveryDate)
}

func TestWorkOrderService_MilestoneTimestampsSetOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Milestone AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	first, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: domain.WorkOrderStatusInProduction})
	require.NoError(t, err)
	require.NotNil(t, first.ActualProductionStart)

	// Put on hold and back into production; the original timestamp survives
	_, err = svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: domain.WorkOrderStatusOnHold})
	require.NoError(t, err)
	second, err := svc.UpdateStatus(ctx, order.ID, &domain.UpdateWorkOrderStatusRequest{Status: domain.WorkOrderStatusInProduction})
	require.NoError(t, err)

	require.NotNil(t, second.ActualProductionStart)
	assert.Equal(t, *first.ActualProductionStart, *second.ActualProductionStart)
}

func TestWorkOrderService_Update_RecomputesTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Pricing AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	quantity := 2000
	updated, err := svc.Update(ctx, order.ID, &domain.UpdateWorkOrderRequest{Quantity: &quantity})
	require.NoError(t, err)
	assert.Equal(t, 2000, updated.Quantity)
	assert.Equal(t, 5000.0, updated.TotalAmount) // 2000 * 2.5
}

func TestWorkOrderService_Update_ExplicitTotalWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Pricing AS")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	quantity := 2000
	total := 4000.0
	updated, err := svc.Update(ctx, order.ID, &domain.UpdateWorkOrderRequest{
		Quantity:    &quantity,
		TotalAmount: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, 4000.0, updated.TotalAmount)
}

func TestWorkOrderService_Delete_DraftAndPendingOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Delete AS")

	draft := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)
	require.NoError(t, svc.Delete(ctx, draft.ID))

	var stored domain.WorkOrder
	require.NoError(t, db.First(&stored, "id = ?", draft.ID).Error)
	assert.False(t, stored.IsActive)
	assert.Equal(t, domain.WorkOrderStatusCancelled, stored.Status)

	// Deletion is administrative, not a tracked transition
	var count int64
	require.NoError(t, db.Model(&domain.WorkOrderUpdate{}).Where("work_order_id = ?", draft.ID).Count(&count).Error)
	assert.Zero(t, count)

	approved := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)
	err := svc.Delete(ctx, approved.ID)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestWorkOrderService_GetByOrderNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Lookup AS")

	created, err := svc.Create(ctx, createOrderRequest(customer.ID))
	require.NoError(t, err)

	found, err := svc.GetByOrderNumber(ctx, created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByOrderNumber(ctx, "WO1999-9999")
	assert.ErrorIs(t, err, service.ErrWorkOrderNotFound)
}

func TestWorkOrderService_List_FilterByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Filter AS")

	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)

	status := domain.WorkOrderStatusApproved
	result, err := svc.List(ctx, 1, 20, &repository.WorkOrderFilters{Status: &status}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
}

func TestWorkOrderService_GetStatistics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Stats AS")

	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusPending)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusPending)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusInProduction)

	delivered := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDelivered)
	now := time.Now().UTC()
	require.NoError(t, db.Model(delivered).Update("delivery_date", now).Error)

	stats, err := svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.InProductionOrders)
	assert.Equal(t, int64(2), stats.OrdersByStatus[string(domain.WorkOrderStatusPending)])
	assert.Equal(t, int64(4), stats.OrdersByPriority[string(domain.PriorityNormal)])
	assert.Equal(t, int64(1), stats.CompletedThisMonth)
	// Delivered orders are excluded from open value: 3 open orders at 2500 each
	assert.Equal(t, 7500.0, stats.TotalValue)
}

func TestWorkOrderService_GetProductionQueue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createWorkOrderService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Queue AS")

	low := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)
	require.NoError(t, db.Model(low).Update("priority", domain.PriorityLow).Error)
	urgent := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusApproved)
	require.NoError(t, db.Model(urgent).Update("priority", domain.PriorityUrgent).Error)

	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusInProduction)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusQualityCheck)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDraft)

	queue, err := svc.GetProductionQueue(ctx)
	require.NoError(t, err)

	require.Len(t, queue.Scheduled, 2)
	assert.Equal(t, domain.PriorityUrgent, queue.Scheduled[0].Priority)
	assert.Equal(t, domain.PriorityLow, queue.Scheduled[1].Priority)
	assert.Len(t, queue.InProgress, 1)
	assert.Len(t, queue.QualityCheck, 1)
}
