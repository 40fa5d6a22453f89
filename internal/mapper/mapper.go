package mapper

import (
	"time"

	"github.com/nordcup-as/production-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeFormat)
	return &s
}

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:               customer.ID,
		CompanyName:      customer.CompanyName,
		ContactPerson:    customer.ContactPerson,
		Email:            customer.Email,
		Phone:            customer.Phone,
		AddressLine1:     customer.AddressLine1,
		AddressLine2:     customer.AddressLine2,
		City:             customer.City,
		StateProvince:    customer.StateProvince,
		PostalCode:       customer.PostalCode,
		Country:          customer.Country,
		Notes:            customer.Notes,
		Status:           customer.Status,
		ERPAccountNumber: customer.ERPAccountNumber,
		CreatedAt:        customer.CreatedAt.Format(timeFormat),
		UpdatedAt:        customer.UpdatedAt.Format(timeFormat),
	}
}

// ToWorkOrderDTO converts WorkOrder to WorkOrderDTO. CustomerName is
// filled when the Customer association is preloaded.
func ToWorkOrderDTO(order *domain.WorkOrder) domain.WorkOrderDTO {
	dto := domain.WorkOrderDTO{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,

		ProductType:          order.ProductType,
		Quantity:             order.Quantity,
		UnitPrice:            order.UnitPrice,
		TotalAmount:          order.TotalAmount,
		CupSize:              order.CupSize,
		CupType:              order.CupType,
		Material:             order.Material,
		Color:                order.Color,
		DesignSpecifications: order.DesignSpecifications,
		PrintingRequirements: order.PrintingRequirements,

		Priority: order.Priority,
		Status:   order.Status,

		OrderDate:               order.OrderDate.Format(timeFormat),
		RequestedDeliveryDate:   formatTimePtr(order.RequestedDeliveryDate),
		ScheduledProductionDate: formatTimePtr(order.ScheduledProductionDate),
		EstimatedShipDate:       formatTimePtr(order.EstimatedShipDate),

		ActualProductionStart:    formatTimePtr(order.ActualProductionStart),
		ActualProductionComplete: formatTimePtr(order.ActualProductionComplete),
		ActualShipDate:           formatTimePtr(order.ActualShipDate),
		DeliveryDate:             formatTimePtr(order.DeliveryDate),

		ProductionNotes:     order.ProductionNotes,
		QualityCheckNotes:   order.QualityCheckNotes,
		ShippingNotes:       order.ShippingNotes,
		SpecialInstructions: order.SpecialInstructions,

		IsActive:  order.IsActive,
		CreatedAt: order.CreatedAt.Format(timeFormat),
		UpdatedAt: order.UpdatedAt.Format(timeFormat),
	}

	if order.Customer != nil {
		dto.CustomerName = order.Customer.CompanyName
	}

	return dto
}

// ToWorkOrderDetailDTO converts a fully preloaded WorkOrder into its
// detail representation with customer, history, schedules and files.
func ToWorkOrderDetailDTO(order *domain.WorkOrder) domain.WorkOrderDetailDTO {
	dto := domain.WorkOrderDetailDTO{
		WorkOrderDTO: ToWorkOrderDTO(order),
		Updates:      make([]domain.WorkOrderUpdateDTO, len(order.Updates)),
	}

	if order.Customer != nil {
		customerDTO := ToCustomerDTO(order.Customer)
		dto.Customer = &customerDTO
	}

	for i := range order.Updates {
		dto.Updates[i] = ToWorkOrderUpdateDTO(&order.Updates[i])
	}

	if len(order.Schedules) > 0 {
		dto.Schedules = make([]domain.ProductionScheduleDTO, len(order.Schedules))
		for i := range order.Schedules {
			dto.Schedules[i] = ToProductionScheduleDTO(&order.Schedules[i])
		}
	}

	if len(order.Files) > 0 {
		dto.Files = make([]domain.WorkOrderFileDTO, len(order.Files))
		for i := range order.Files {
			dto.Files[i] = ToWorkOrderFileDTO(&order.Files[i])
		}
	}

	return dto
}

// ToWorkOrderUpdateDTO converts WorkOrderUpdate to WorkOrderUpdateDTO
func ToWorkOrderUpdateDTO(update *domain.WorkOrderUpdate) domain.WorkOrderUpdateDTO {
	return domain.WorkOrderUpdateDTO{
		ID:            update.ID,
		WorkOrderID:   update.WorkOrderID,
		OldStatus:     update.OldStatus,
		NewStatus:     update.NewStatus,
		Notes:         update.Notes,
		UpdatedByID:   update.UpdatedByID,
		UpdatedByName: update.UpdatedByName,
		CreatedAt:     update.CreatedAt.Format(timeFormat),
	}
}

// ToProductionScheduleDTO converts ProductionSchedule to ProductionScheduleDTO
func ToProductionScheduleDTO(schedule *domain.ProductionSchedule) domain.ProductionScheduleDTO {
	return domain.ProductionScheduleDTO{
		ID:               schedule.ID,
		WorkOrderID:      schedule.WorkOrderID,
		ScheduledStart:   schedule.ScheduledStart.Format(timeFormat),
		ScheduledEnd:     schedule.ScheduledEnd.Format(timeFormat),
		ActualStart:      formatTimePtr(schedule.ActualStart),
		ActualEnd:        formatTimePtr(schedule.ActualEnd),
		ProductionLine:   schedule.ProductionLine,
		MachineAssigned:  schedule.MachineAssigned,
		OperatorAssigned: schedule.OperatorAssigned,
		Status:           schedule.Status,
		Notes:            schedule.Notes,
		CreatedAt:        schedule.CreatedAt.Format(timeFormat),
		UpdatedAt:        schedule.UpdatedAt.Format(timeFormat),
	}
}

// ToWorkOrderFileDTO converts WorkOrderFile to WorkOrderFileDTO
func ToWorkOrderFileDTO(file *domain.WorkOrderFile) domain.WorkOrderFileDTO {
	return domain.WorkOrderFileDTO{
		ID:          file.ID,
		WorkOrderID: file.WorkOrderID,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        file.Size,
		FileType:    file.FileType,
		UploadedBy:  file.UploadedBy,
		CreatedAt:   file.CreatedAt.Format(timeFormat),
	}
}
