package repository

import (
	"context"
	"fmt"

	"github.com/nordcup-as/production-api/internal/domain"
	"gorm.io/gorm"
)

// OrderNumberRepository handles the per-month counter used to build work
// order numbers. The counter is scoped per (year, month) and incremented
// atomically so concurrent creates never observe the same value; the unique
// constraint on work_orders.order_number is the backstop.
type OrderNumberRepository struct {
	db *gorm.DB
}

func NewOrderNumberRepository(db *gorm.DB) *OrderNumberRepository {
	return &OrderNumberRepository{db: db}
}

// NextSequence increments and returns the counter for a year/month using the
// given handle, which may be a transaction. The increment runs as a single
// UPDATE so the row lock is held until the surrounding transaction commits.
func (r *OrderNumberRepository) NextSequence(tx *gorm.DB, year, month int) (int, error) {
	res := tx.Model(&domain.OrderNumberSequence{}).
		Where("year = ? AND month = ?", year, month).
		UpdateColumn("last_sequence", gorm.Expr("last_sequence + 1"))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to increment order number sequence: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// First order of the period; create the counter row. A concurrent
		// create may win the insert, in which case we fall back to the
		// increment path.
		seq := domain.OrderNumberSequence{
			Year:         year,
			Month:        month,
			LastSequence: 1,
		}
		if err := tx.Create(&seq).Error; err != nil {
			res = tx.Model(&domain.OrderNumberSequence{}).
				Where("year = ? AND month = ?", year, month).
				UpdateColumn("last_sequence", gorm.Expr("last_sequence + 1"))
			if res.Error != nil || res.RowsAffected == 0 {
				return 0, fmt.Errorf("failed to create order number sequence: %w", err)
			}
		} else {
			return 1, nil
		}
	}

	var seq domain.OrderNumberSequence
	if err := tx.Where("year = ? AND month = ?", year, month).First(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to read order number sequence: %w", err)
	}
	return seq.LastSequence, nil
}

// GetNextSequence increments and returns the counter in its own transaction
func (r *OrderNumberRepository) GetNextSequence(ctx context.Context, year, month int) (int, error) {
	var next int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		next, err = r.NextSequence(tx, year, month)
		return err
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// GetCurrentSequence returns the current counter value without incrementing.
// Returns 0 if no counter exists for the year/month.
func (r *OrderNumberRepository) GetCurrentSequence(ctx context.Context, year, month int) (int, error) {
	var seq domain.OrderNumberSequence
	err := r.db.WithContext(ctx).
		Where("year = ? AND month = ?", year, month).
		First(&seq).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get order number sequence: %w", err)
	}
	return seq.LastSequence, nil
}
