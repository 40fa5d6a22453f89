package service_test

import (
	"testing"

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

func createCustomerService(db *gorm.DB) *service.CustomerService {
	return service.NewCustomerService(repository.NewCustomerRepository(db), zap.NewNop())
}

func TestCustomerService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()

	req := &domain.CreateCustomerRequest{
		CompanyName:   "Oslo Kaffebar AS",
		ContactPerson: "Ola Nordmann",
		Email:         "ola@oslokaffebar.no",
		Phone:         "+47 22 33 44 55",
		AddressLine1:  "Karl Johans gate 1",
		City:          "Oslo",
		PostalCode:    "0154",
	}

	customer, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, customer.ID)
	assert.Equal(t, "Oslo Kaffebar AS", customer.CompanyName)
	assert.Equal(t, "ola@oslokaffebar.no", customer.Email)
	assert.Equal(t, domain.CustomerStatusActive, customer.Status)
	assert.Equal(t, "Norway", customer.Country) // default when omitted
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()

	req := &domain.CreateCustomerRequest{
		CompanyName:   "First AS",
		ContactPerson: "Kari",
		Email:         "shared@example.com",
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	req.CompanyName = "Second AS"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestCustomerService_Update_Partial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Original AS")

	newName := "Renamed AS"
	updated, err := svc.Update(ctx, customer.ID, &domain.UpdateCustomerRequest{CompanyName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed AS", updated.CompanyName)
	// Untouched fields survive a partial update
	assert.Equal(t, customer.Email, updated.Email)
	assert.Equal(t, customer.ContactPerson, updated.ContactPerson)
}

func TestCustomerService_Update_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()
	first := testutil.CreateTestCustomer(t, db, "First AS")
	second := testutil.CreateTestCustomer(t, db, "Second AS")

	_, err := svc.Update(ctx, second.ID, &domain.UpdateCustomerRequest{Email: &first.Email})
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestCustomerService_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()

	name := "Ghost AS"
	_, err := svc.Update(ctx, uuid.New(), &domain.UpdateCustomerRequest{CompanyName: &name})
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestCustomerService_Archive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Archive AS")

	require.NoError(t, svc.Archive(ctx, customer.ID))

	stored, err := svc.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerStatusArchived, stored.Status)
}

func TestCustomerService_GetByIDWithOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()
	customer := testutil.CreateTestCustomer(t, db, "Orders AS")

	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusPending)
	testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusInProduction)
	delivered := testutil.CreateTestWorkOrder(t, db, customer.ID, domain.WorkOrderStatusDelivered)
	_ = delivered

	detail, err := svc.GetByIDWithOrders(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.TotalOrders)
	assert.Equal(t, 2, detail.ActiveOrders) // delivered orders no longer count as active work
	assert.Len(t, detail.RecentOrders, 3)
}

func TestCustomerService_List_SearchAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createCustomerService(db)
	ctx := createTestContext()

	testutil.CreateTestCustomer(t, db, "Bergen Kaffe AS")
	testutil.CreateTestCustomer(t, db, "Oslo Te AS")
	archived := testutil.CreateTestCustomer(t, db, "Bergen Sjokolade AS")
	require.NoError(t, svc.Archive(ctx, archived.ID))

	result, err := svc.List(ctx, 1, 20, &repository.CustomerFilters{Search: "bergen"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)

	active := domain.CustomerStatusActive
	result, err = svc.List(ctx, 1, 20, &repository.CustomerFilters{Search: "bergen", Status: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}
