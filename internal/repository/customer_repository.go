package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

// CustomerFilters holds optional filters for listing customers
type CustomerFilters struct {
	Search string
	Status *domain.CustomerStatus
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByEmail returns the customer with the given email, or gorm.ErrRecordNotFound
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, filters *CustomerFilters) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Customer{})

	if filters != nil {
		if filters.Search != "" {
			searchPattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where(
				"LOWER(company_name) LIKE ? OR LOWER(contact_person) LIKE ? OR LOWER(email) LIKE ? OR LOWER(city) LIKE ?",
				searchPattern, searchPattern, searchPattern, searchPattern)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&customers).Error

	return customers, total, err
}

// CountOrders returns total and active work order counts for a customer
func (r *CustomerRepository) CountOrders(ctx context.Context, customerID uuid.UUID) (total int64, active int64, err error) {
	err = r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("customer_id = ? AND is_active = ? AND status NOT IN ?",
			customerID, true,
			[]domain.WorkOrderStatus{domain.WorkOrderStatusDelivered, domain.WorkOrderStatusCancelled}).
		Count(&active).Error

	return total, active, err
}

// RecentOrders returns the most recent work orders for a customer
func (r *CustomerRepository) RecentOrders(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ListMissingERPAccount returns active customers without an ERP account number
func (r *CustomerRepository) ListMissingERPAccount(ctx context.Context, limit int) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.WithContext(ctx).
		Where("status = ? AND (erp_account_number IS NULL OR erp_account_number = '')", domain.CustomerStatusActive).
		Limit(limit).
		Find(&customers).Error
	return customers, err
}
