package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type CustomerDTO struct {
	ID               uuid.UUID      `json:"id"`
	CompanyName      string         `json:"companyName"`
	ContactPerson    string         `json:"contactPerson"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone,omitempty"`
	AddressLine1     string         `json:"addressLine1,omitempty"`
	AddressLine2     string         `json:"addressLine2,omitempty"`
	City             string         `json:"city,omitempty"`
	StateProvince    string         `json:"stateProvince,omitempty"`
	PostalCode       string         `json:"postalCode,omitempty"`
	Country          string         `json:"country"`
	Notes            string         `json:"notes,omitempty"`
	Status           CustomerStatus `json:"status"`
	ERPAccountNumber string         `json:"erpAccountNumber,omitempty"`
	CreatedAt        string         `json:"createdAt"` // ISO 8601
	UpdatedAt        string         `json:"updatedAt"` // ISO 8601
}

// CustomerWithOrdersDTO includes customer data with recent work orders
type CustomerWithOrdersDTO struct {
	CustomerDTO
	TotalOrders  int            `json:"totalOrders"`
	ActiveOrders int            `json:"activeOrders"`
	RecentOrders []WorkOrderDTO `json:"recentOrders,omitempty"`
}

type WorkOrderDTO struct {
	ID           uuid.UUID `json:"id"`
	OrderNumber  string    `json:"orderNumber"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`

	ProductType          string  `json:"productType"`
	Quantity             int     `json:"quantity"`
	UnitPrice            float64 `json:"unitPrice"`
	TotalAmount          float64 `json:"totalAmount"`
	CupSize              string  `json:"cupSize,omitempty"`
	CupType              string  `json:"cupType,omitempty"`
	Material             string  `json:"material,omitempty"`
	Color                string  `json:"color,omitempty"`
	DesignSpecifications string  `json:"designSpecifications,omitempty"`
	PrintingRequirements string  `json:"printingRequirements,omitempty"`

	Priority WorkOrderPriority `json:"priority"`
	Status   WorkOrderStatus   `json:"status"`

	OrderDate               string  `json:"orderDate"`
	RequestedDeliveryDate   *string `json:"requestedDeliveryDate,omitempty"`
	ScheduledProductionDate *string `json:"scheduledProductionDate,omitempty"`
	EstimatedShipDate       *string `json:"estimatedShipDate,omitempty"`

	ActualProductionStart    *string `json:"actualProductionStart,omitempty"`
	ActualProductionComplete *string `json:"actualProductionComplete,omitempty"`
	ActualShipDate           *string `json:"actualShipDate,omitempty"`
	DeliveryDate             *string `json:"deliveryDate,omitempty"`

	ProductionNotes     string `json:"productionNotes,omitempty"`
	QualityCheckNotes   string `json:"qualityCheckNotes,omitempty"`
	ShippingNotes       string `json:"shippingNotes,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`

	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// WorkOrderDetailDTO includes the full update history and production schedules
type WorkOrderDetailDTO struct {
	WorkOrderDTO
	Customer  *CustomerDTO            `json:"customer,omitempty"`
	Updates   []WorkOrderUpdateDTO    `json:"updates"`
	Schedules []ProductionScheduleDTO `json:"schedules,omitempty"`
	Files     []WorkOrderFileDTO      `json:"files,omitempty"`
}

type WorkOrderUpdateDTO struct {
	ID            uuid.UUID        `json:"id"`
	WorkOrderID   uuid.UUID        `json:"workOrderId"`
	OldStatus     *WorkOrderStatus `json:"oldStatus,omitempty"`
	NewStatus     WorkOrderStatus  `json:"newStatus"`
	Notes         string           `json:"notes,omitempty"`
	UpdatedByID   string           `json:"updatedById"`
	UpdatedByName string           `json:"updatedByName,omitempty"`
	CreatedAt     string           `json:"createdAt"`
}

type ProductionScheduleDTO struct {
	ID               uuid.UUID      `json:"id"`
	WorkOrderID      uuid.UUID      `json:"workOrderId"`
	ScheduledStart   string         `json:"scheduledStart"`
	ScheduledEnd     string         `json:"scheduledEnd"`
	ActualStart      *string        `json:"actualStart,omitempty"`
	ActualEnd        *string        `json:"actualEnd,omitempty"`
	ProductionLine   string         `json:"productionLine,omitempty"`
	MachineAssigned  string         `json:"machineAssigned,omitempty"`
	OperatorAssigned string         `json:"operatorAssigned,omitempty"`
	Status           ScheduleStatus `json:"status"`
	Notes            string         `json:"notes,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

type WorkOrderFileDTO struct {
	ID          uuid.UUID         `json:"id"`
	WorkOrderID uuid.UUID         `json:"workOrderId"`
	FileName    string            `json:"fileName"`
	ContentType string            `json:"contentType"`
	Size        int64             `json:"size"`
	FileType    WorkOrderFileType `json:"fileType"`
	UploadedBy  string            `json:"uploadedBy,omitempty"`
	CreatedAt   string            `json:"createdAt"`
}

// WorkOrderStatsDTO holds aggregated statistics over active work orders
type WorkOrderStatsDTO struct {
	TotalOrders        int64            `json:"totalOrders"`
	OrdersByStatus     map[string]int64 `json:"ordersByStatus"`
	OrdersByPriority   map[string]int64 `json:"ordersByPriority"`
	PendingOrders      int64            `json:"pendingOrders"`
	InProductionOrders int64            `json:"inProductionOrders"`
	CompletedThisMonth int64            `json:"completedThisMonth"`
	TotalValue         float64          `json:"totalValue"`
}

// ProductionQueueDTO groups orders by production bucket
type ProductionQueueDTO struct {
	Scheduled    []WorkOrderDTO `json:"scheduled"`
	InProgress   []WorkOrderDTO `json:"inProgress"`
	QualityCheck []WorkOrderDTO `json:"qualityCheck"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

type CreateCustomerRequest struct {
	CompanyName   string `json:"companyName" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson" validate:"required,max=200"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	AddressLine1  string `json:"addressLine1,omitempty" validate:"max=255"`
	AddressLine2  string `json:"addressLine2,omitempty" validate:"max=255"`
	City          string `json:"city,omitempty" validate:"max=100"`
	StateProvince string `json:"stateProvince,omitempty" validate:"max=100"`
	PostalCode    string `json:"postalCode,omitempty" validate:"max=20"`
	Country       string `json:"country,omitempty" validate:"max=100"`
	Notes         string `json:"notes,omitempty"`
}

// UpdateCustomerRequest uses pointers so only supplied fields are applied
type UpdateCustomerRequest struct {
	CompanyName   *string `json:"companyName,omitempty" validate:"omitempty,max=200"`
	ContactPerson *string `json:"contactPerson,omitempty" validate:"omitempty,max=200"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	AddressLine1  *string `json:"addressLine1,omitempty" validate:"omitempty,max=255"`
	AddressLine2  *string `json:"addressLine2,omitempty" validate:"omitempty,max=255"`
	City          *string `json:"city,omitempty" validate:"omitempty,max=100"`
	StateProvince *string `json:"stateProvince,omitempty" validate:"omitempty,max=100"`
	PostalCode    *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Notes         *string `json:"notes,omitempty"`
}

type CreateWorkOrderRequest struct {
	CustomerID           uuid.UUID         `json:"customerId" validate:"required"`
	ProductType          string            `json:"productType" validate:"required,max=100"`
	Quantity             int               `json:"quantity" validate:"required,gt=0"`
	UnitPrice            float64           `json:"unitPrice" validate:"required,gt=0"`
	TotalAmount          *float64          `json:"totalAmount,omitempty" validate:"omitempty,gt=0"`
	CupSize              string            `json:"cupSize,omitempty" validate:"max=50"`
	CupType              string            `json:"cupType,omitempty" validate:"max=50"`
	Material             string            `json:"material,omitempty" validate:"max=100"`
	Color                string            `json:"color,omitempty" validate:"max=100"`
	DesignSpecifications string            `json:"designSpecifications,omitempty"`
	PrintingRequirements string            `json:"printingRequirements,omitempty"`
	Priority             WorkOrderPriority `json:"priority,omitempty"`
	RequestedDeliveryDate *time.Time       `json:"requestedDeliveryDate,omitempty"`
	SpecialInstructions  string            `json:"specialInstructions,omitempty"`
}

// UpdateWorkOrderRequest uses pointers so only supplied fields are applied.
// Status is intentionally absent; transitions go through the status endpoint.
type UpdateWorkOrderRequest struct {
	CustomerID              *uuid.UUID         `json:"customerId,omitempty"`
	ProductType             *string            `json:"productType,omitempty" validate:"omitempty,max=100"`
	Quantity                *int               `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice               *float64           `json:"unitPrice,omitempty" validate:"omitempty,gt=0"`
	TotalAmount             *float64           `json:"totalAmount,omitempty" validate:"omitempty,gt=0"`
	CupSize                 *string            `json:"cupSize,omitempty" validate:"omitempty,max=50"`
	CupType                 *string            `json:"cupType,omitempty" validate:"omitempty,max=50"`
	Material                *string            `json:"material,omitempty" validate:"omitempty,max=100"`
	Color                   *string            `json:"color,omitempty" validate:"omitempty,max=100"`
	DesignSpecifications    *string            `json:"designSpecifications,omitempty"`
	PrintingRequirements    *string            `json:"printingRequirements,omitempty"`
	Priority                *WorkOrderPriority `json:"priority,omitempty"`
	RequestedDeliveryDate   *time.Time         `json:"requestedDeliveryDate,omitempty"`
	ScheduledProductionDate *time.Time         `json:"scheduledProductionDate,omitempty"`
	EstimatedShipDate       *time.Time         `json:"estimatedShipDate,omitempty"`
	ProductionNotes         *string            `json:"productionNotes,omitempty"`
	QualityCheckNotes       *string            `json:"qualityCheckNotes,omitempty"`
	ShippingNotes           *string            `json:"shippingNotes,omitempty"`
	SpecialInstructions     *string            `json:"specialInstructions,omitempty"`
}

type UpdateWorkOrderStatusRequest struct {
	Status WorkOrderStatus `json:"status" validate:"required"`
	Notes  string          `json:"notes,omitempty"`
}

type CreateProductionScheduleRequest struct {
	WorkOrderID      uuid.UUID `json:"workOrderId" validate:"required"`
	ScheduledStart   time.Time `json:"scheduledStart" validate:"required"`
	ScheduledEnd     time.Time `json:"scheduledEnd" validate:"required"`
	ProductionLine   string    `json:"productionLine,omitempty" validate:"max=100"`
	MachineAssigned  string    `json:"machineAssigned,omitempty" validate:"max=100"`
	OperatorAssigned string    `json:"operatorAssigned,omitempty" validate:"max=200"`
	Notes            string    `json:"notes,omitempty"`
}

type UpdateProductionScheduleRequest struct {
	ScheduledStart   *time.Time      `json:"scheduledStart,omitempty"`
	ScheduledEnd     *time.Time      `json:"scheduledEnd,omitempty"`
	ActualStart      *time.Time      `json:"actualStart,omitempty"`
	ActualEnd        *time.Time      `json:"actualEnd,omitempty"`
	ProductionLine   *string         `json:"productionLine,omitempty" validate:"omitempty,max=100"`
	MachineAssigned  *string         `json:"machineAssigned,omitempty" validate:"omitempty,max=100"`
	OperatorAssigned *string         `json:"operatorAssigned,omitempty" validate:"omitempty,max=200"`
	Status           *ScheduleStatus `json:"status,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}
