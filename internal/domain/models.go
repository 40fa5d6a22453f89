package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an id when the caller has not set one
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusArchived CustomerStatus = "archived"
)

// IsValid checks if the CustomerStatus is a valid enum value
func (cs CustomerStatus) IsValid() bool {
	switch cs {
	case CustomerStatusActive, CustomerStatusArchived:
		return true
	}
	return false
}

// Customer represents an organization placing work orders
type Customer struct {
	BaseModel
	CompanyName      string         `gorm:"type:varchar(200);not null;index;column:company_name"`
	ContactPerson    string         `gorm:"type:varchar(200);not null;column:contact_person"`
	Email            string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone            string         `gorm:"type:varchar(50)"`
	AddressLine1     string         `gorm:"type:varchar(255);column:address_line1"`
	AddressLine2     string         `gorm:"type:varchar(255);column:address_line2"`
	City             string         `gorm:"type:varchar(100)"`
	StateProvince    string         `gorm:"type:varchar(100);column:state_province"`
	PostalCode       string         `gorm:"type:varchar(20);column:postal_code"`
	Country          string         `gorm:"type:varchar(100);default:'Norway'"`
	Notes            string         `gorm:"type:text"`
	Status           CustomerStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	ERPAccountNumber string         `gorm:"type:varchar(50);column:erp_account_number"`
	CreatedBy        *uuid.UUID     `gorm:"type:uuid;column:created_by"`
	UpdatedBy        *uuid.UUID     `gorm:"type:uuid;column:updated_by"`
	WorkOrders       []WorkOrder    `gorm:"foreignKey:CustomerID"`
}

// WorkOrderStatus represents the production stage of a work order
type WorkOrderStatus string

const (
	WorkOrderStatusDraft              WorkOrderStatus = "draft"
	WorkOrderStatusPending            WorkOrderStatus = "pending"
	WorkOrderStatusApproved           WorkOrderStatus = "approved"
	WorkOrderStatusInProduction       WorkOrderStatus = "in_production"
	WorkOrderStatusProductionComplete WorkOrderStatus = "production_complete"
	WorkOrderStatusQualityCheck       WorkOrderStatus = "quality_check"
	WorkOrderStatusShipped            WorkOrderStatus = "shipped"
	WorkOrderStatusDelivered          WorkOrderStatus = "delivered"
	WorkOrderStatusOnHold             WorkOrderStatus = "on_hold"
	WorkOrderStatusCancelled          WorkOrderStatus = "cancelled"
)

// IsValid checks if the WorkOrderStatus is a valid enum value
func (ws WorkOrderStatus) IsValid() bool {
	switch ws {
	case WorkOrderStatusDraft, WorkOrderStatusPending, WorkOrderStatusApproved,
		WorkOrderStatusInProduction, WorkOrderStatusProductionComplete,
		WorkOrderStatusQualityCheck, WorkOrderStatusShipped,
		WorkOrderStatusDelivered, WorkOrderStatusOnHold, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from this status
func (ws WorkOrderStatus) IsTerminal() bool {
	return ws == WorkOrderStatusDelivered || ws == WorkOrderStatusCancelled
}

// WorkOrderPriority represents the urgency of a work order
type WorkOrderPriority string

const (
	PriorityLow    WorkOrderPriority = "low"
	PriorityNormal WorkOrderPriority = "normal"
	PriorityHigh   WorkOrderPriority = "high"
	PriorityUrgent WorkOrderPriority = "urgent"
)

// IsValid checks if the WorkOrderPriority is a valid enum value
func (wp WorkOrderPriority) IsValid() bool {
	switch wp {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns a numeric rank for ordering (urgent highest)
func (wp WorkOrderPriority) Rank() int {
	switch wp {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// WorkOrder represents a single manufacturing job tracked through the production pipeline
type WorkOrder struct {
	BaseModel
	OrderNumber string    `gorm:"type:varchar(20);not null;uniqueIndex;column:order_number"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer    *Customer `gorm:"foreignKey:CustomerID"`

	ProductType          string  `gorm:"type:varchar(100);not null;column:product_type"`
	Quantity             int     `gorm:"not null"`
	UnitPrice            float64 `gorm:"type:decimal(10,2);not null;column:unit_price"`
	TotalAmount          float64 `gorm:"type:decimal(12,2);not null;column:total_amount"`
	CupSize              string  `gorm:"type:varchar(50);column:cup_size"`
	CupType              string  `gorm:"type:varchar(50);column:cup_type"`
	Material             string  `gorm:"type:varchar(100)"`
	Color                string  `gorm:"type:varchar(100)"`
	DesignSpecifications string  `gorm:"type:text;column:design_specifications"`
	PrintingRequirements string  `gorm:"type:text;column:printing_requirements"`

	Priority WorkOrderPriority `gorm:"type:varchar(20);not null;default:'normal';index"`
	Status   WorkOrderStatus   `gorm:"type:varchar(50);not null;default:'draft';index"`

	OrderDate               time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:order_date"`
	RequestedDeliveryDate   *time.Time `gorm:"column:requested_delivery_date"`
	ScheduledProductionDate *time.Time `gorm:"column:scheduled_production_date"`
	EstimatedShipDate       *time.Time `gorm:"column:estimated_ship_date"`

	// Milestone timestamps, set on first entry into the stage and never overwritten
	ActualProductionStart    *time.Time `gorm:"column:actual_production_start"`
	ActualProductionComplete *time.Time `gorm:"column:actual_production_complete"`
	ActualShipDate           *time.Time `gorm:"column:actual_ship_date"`
	DeliveryDate             *time.Time `gorm:"column:delivery_date"`

	ProductionNotes     string `gorm:"type:text;column:production_notes"`
	QualityCheckNotes   string `gorm:"type:text;column:quality_check_notes"`
	ShippingNotes       string `gorm:"type:text;column:shipping_notes"`
	SpecialInstructions string `gorm:"type:text;column:special_instructions"`

	IsActive  bool       `gorm:"not null;default:true;column:is_active;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;column:created_by"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid;column:updated_by"`

	Updates   []WorkOrderUpdate    `gorm:"foreignKey:WorkOrderID"`
	Schedules []ProductionSchedule `gorm:"foreignKey:WorkOrderID"`
	Files     []WorkOrderFile      `gorm:"foreignKey:WorkOrderID"`
}

// WorkOrderUpdate records one status transition for audit purposes.
// Rows are append-only and never mutated after creation.
type WorkOrderUpdate struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key"`
	WorkOrderID   uuid.UUID        `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder     *WorkOrder       `gorm:"foreignKey:WorkOrderID"`
	OldStatus     *WorkOrderStatus `gorm:"type:varchar(50);column:old_status"`
	NewStatus     WorkOrderStatus  `gorm:"type:varchar(50);not null;column:new_status"`
	Notes         string           `gorm:"type:text"`
	UpdatedByID   string           `gorm:"type:varchar(100);not null;column:updated_by_id"`
	UpdatedByName string           `gorm:"type:varchar(200);column:updated_by_name"`
	CreatedAt     time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (WorkOrderUpdate) TableName() string {
	return "work_order_updates"
}

// BeforeCreate assigns an id when the caller has not set one
func (u *WorkOrderUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ScheduleStatus represents the status of a production schedule entry
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in_progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusDelayed    ScheduleStatus = "delayed"
)

// IsValid checks if the ScheduleStatus is a valid enum value
func (ss ScheduleStatus) IsValid() bool {
	switch ss {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted, ScheduleStatusDelayed:
		return true
	}
	return false
}

// ProductionSchedule represents a planned production slot for a work order
type ProductionSchedule struct {
	BaseModel
	WorkOrderID      uuid.UUID      `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder        *WorkOrder     `gorm:"foreignKey:WorkOrderID"`
	ScheduledStart   time.Time      `gorm:"not null;column:scheduled_start"`
	ScheduledEnd     time.Time      `gorm:"not null;column:scheduled_end"`
	ActualStart      *time.Time     `gorm:"column:actual_start"`
	ActualEnd        *time.Time     `gorm:"column:actual_end"`
	ProductionLine   string         `gorm:"type:varchar(100);column:production_line"`
	MachineAssigned  string         `gorm:"type:varchar(100);column:machine_assigned"`
	OperatorAssigned string         `gorm:"type:varchar(200);column:operator_assigned"`
	Status           ScheduleStatus `gorm:"type:varchar(50);not null;default:'scheduled';index"`
	Notes            string         `gorm:"type:text"`
}

// WorkOrderFileType classifies an uploaded attachment
type WorkOrderFileType string

const (
	FileTypeLogo     WorkOrderFileType = "logo"
	FileTypeDesign   WorkOrderFileType = "design"
	FileTypeDocument WorkOrderFileType = "document"
	FileTypeOther    WorkOrderFileType = "other"
)

// IsValid checks if the WorkOrderFileType is a valid enum value
func (ft WorkOrderFileType) IsValid() bool {
	switch ft {
	case FileTypeLogo, FileTypeDesign, FileTypeDocument, FileTypeOther:
		return true
	}
	return false
}

// WorkOrderFile represents metadata for an uploaded file attached to a work order
type WorkOrderFile struct {
	BaseModel
	WorkOrderID uuid.UUID         `gorm:"type:uuid;not null;index;column:work_order_id"`
	WorkOrder   *WorkOrder        `gorm:"foreignKey:WorkOrderID"`
	FileName    string            `gorm:"type:varchar(255);not null;column:file_name"`
	ContentType string            `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64             `gorm:"not null"`
	StoragePath string            `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	FileType    WorkOrderFileType `gorm:"type:varchar(50);not null;default:'other';column:file_type"`
	UploadedBy  string            `gorm:"type:varchar(200);column:uploaded_by"`
}

// OrderNumberSequence tracks the per-month counter used to build order numbers.
// One row per (year, month); incremented atomically inside the creating transaction.
type OrderNumberSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Year         int       `gorm:"not null;uniqueIndex:idx_order_number_period"`
	Month        int       `gorm:"not null;uniqueIndex:idx_order_number_period"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an id when the caller has not set one
func (s *OrderNumberSequence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleAdmin      UserRoleType = "admin"
	RoleManager    UserRoleType = "manager"
	RoleProduction UserRoleType = "production"
	RoleSales      UserRoleType = "sales"
	RoleViewer     UserRoleType = "viewer"
	RoleAPIService UserRoleType = "api_service"
)
