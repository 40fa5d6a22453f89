package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nordcup-as/production-api/internal/auth"
	"github.com/nordcup-as/production-api/internal/domain"
	"github.com/nordcup-as/production-api/internal/mapper"
	"github.com/nordcup-as/production-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerRepo *repository.CustomerRepository
	logger       *zap.Logger
}

func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

func (s *CustomerService) Create(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.CustomerDTO, error) {
	// Reject duplicates up front for a clean error; the unique index on
	// email is the backstop for concurrent creates.
	if _, err := s.customerRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check customer email: %w", err)
	}

	country := req.Country
	if country == "" {
		country = "Norway"
	}

	var createdBy *uuid.UUID
	if userCtx, ok := auth.FromContext(ctx); ok {
		id := userCtx.UserID
		createdBy = &id
	}

	customer := &domain.Customer{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		StateProvince: req.StateProvince,
		PostalCode:    req.PostalCode,
		Country:       country,
		Notes:         req.Notes,
		Status:        domain.CustomerStatusActive,
		CreatedBy:     createdBy,
		UpdatedBy:     createdBy,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("company_name", customer.CompanyName))

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// GetByIDWithOrders returns a customer with order counts and recent orders
func (s *CustomerService) GetByIDWithOrders(ctx context.Context, id uuid.UUID) (*domain.CustomerWithOrdersDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	total, active, err := s.customerRepo.CountOrders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	recent, err := s.customerRepo.RecentOrders(ctx, id, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent orders: %w", err)
	}

	recentDTOs := make([]domain.WorkOrderDTO, len(recent))
	for i, order := range recent {
		recentDTOs[i] = mapper.ToWorkOrderDTO(&order)
	}

	return &domain.CustomerWithOrdersDTO{
		CustomerDTO:  mapper.ToCustomerDTO(customer),
		TotalOrders:  int(total),
		ActiveOrders: int(active),
		RecentOrders: recentDTOs,
	}, nil
}

// Update applies a partial update. Email changes are re-checked for
// uniqueness against other customers.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if req.Email != nil && *req.Email != customer.Email {
		existing, err := s.customerRepo.GetByEmail(ctx, *req.Email)
		if err == nil && existing.ID != id {
			return nil, ErrDuplicateEmail
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check customer email: %w", err)
		}
		customer.Email = *req.Email
	}

	if req.CompanyName != nil {
		customer.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		customer.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		customer.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		customer.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.StateProvince != nil {
		customer.StateProvince = *req.StateProvince
	}
	if req.PostalCode != nil {
		customer.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if userCtx, ok := auth.FromContext(ctx); ok {
		uid := userCtx.UserID
		customer.UpdatedBy = &uid
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer)
	return &dto, nil
}

// Archive soft-deletes a customer by flipping its status to archived.
// The row is retained; there is no un-archive path.
func (s *CustomerService) Archive(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Status = domain.CustomerStatusArchived
	if userCtx, ok := auth.FromContext(ctx); ok {
		uid := userCtx.UserID
		customer.UpdatedBy = &uid
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return fmt.Errorf("failed to archive customer: %w", err)
	}

	s.logger.Info("customer archived",
		zap.String("customer_id", customer.ID.String()),
		zap.String("company_name", customer.CompanyName))

	return nil
}

func (s *CustomerService) List(ctx context.Context, page, pageSize int, filters *repository.CustomerFilters) (*domain.PaginatedResponse, error) {
	// Clamp page size
	if pageSize < 1 {
		pageSize = repository.DefaultPageSize
	}
	if pageSize > repository.MaxPageSize {
		pageSize = repository.MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	customers, total, err := s.customerRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	dtos := make([]domain.CustomerDTO, len(customers))
	for i, customer := range customers {
		dtos[i] = mapper.ToCustomerDTO(&customer)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
