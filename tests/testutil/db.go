package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database with the full schema.
// Each call returns an isolated database, so tests can run in parallel.
func SetupTestDB(t *testing.T) *gorm.DB {
	// A named in-memory database with shared cache so all pooled
	// connections see the same data; the name keeps tests isolated.
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared&_fk=1", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "Failed to open in-memory test database")

	err = db.AutoMigrate(
		&domain.Customer{},
		&domain.WorkOrder{},
		&domain.WorkOrderUpdate{},
		&domain.ProductionSchedule{},
		&domain.WorkOrderFile{},
		&domain.OrderNumberSequence{},
	)
	require.NoError(t, err, "Failed to migrate test database")

	t.Cleanup(func() {
		CleanupTestData(t, db)
	})

	return db
}

// CleanupTestData removes all rows so a shared database starts clean
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"work_order_files",
		"production_schedules",
		"work_order_updates",
		"work_orders",
		"order_number_sequences",
		"customers",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestCustomer inserts an active customer with a unique email
func CreateTestCustomer(t *testing.T, db *gorm.DB, companyName string) *domain.Customer {
	customer := &domain.Customer{
		CompanyName:   companyName,
		ContactPerson: "Kari Nordmann",
		Email:         fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()),
		Phone:         "12345678",
		Country:       "Norway",
		Status:        domain.CustomerStatusActive,
	}
	err := db.Create(customer).Error
	require.NoError(t, err)
	return customer
}

var orderNumberSeq atomic.Int64

// CreateTestWorkOrder inserts a work order directly, bypassing the service
// layer, for tests that need an order in a specific status.
func CreateTestWorkOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, status domain.WorkOrderStatus) *domain.WorkOrder {
	order := &domain.WorkOrder{
		OrderNumber: fmt.Sprintf("WO2026-%04d", orderNumberSeq.Add(1)),
		CustomerID:  customerID,
		ProductType: "paper_cup",
		Quantity:    1000,
		UnitPrice:   2.5,
		TotalAmount: 2500,
		Priority:    domain.PriorityNormal,
		Status:      status,
		OrderDate:   time.Now().UTC(),
		IsActive:    true,
	}
	err := db.Create(order).Error
	require.NoError(t, err)
	return order
}
