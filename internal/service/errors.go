package service

import (
	"errors"
	"strings"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrCustomerNotFound is returned when a referenced customer does not exist
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrWorkOrderNotFound is returned when a referenced work order does not exist
	ErrWorkOrderNotFound = errors.New("work order not found")

	// ErrScheduleNotFound is returned when a production schedule is not found
	ErrScheduleNotFound = errors.New("production schedule not found")

	// ErrFileNotFound is returned when a work order file is not found
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCustomerArchived is returned when an operation references an archived customer
	ErrCustomerArchived = errors.New("customer is archived")

	// ErrInvalidTransition is returned when a status change is not a listed
	// edge from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState is returned when an operation is attempted while the
	// work order is in a status that forbids it
	ErrInvalidState = errors.New("operation not allowed in current status")

	// ErrDuplicateEmail is returned when a customer email is already in use
	ErrDuplicateEmail = errors.New("a customer with this email already exists")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")
)

// isUniqueViolation reports whether a database error is a uniqueness
// constraint failure. Covers the postgres and sqlite driver messages.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
