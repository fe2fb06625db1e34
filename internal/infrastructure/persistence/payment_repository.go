package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luxemart/storefront/internal/domain/order"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// GormPaymentRepository implements order.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create persists a new payment record
func (r *GormPaymentRepository) Create(ctx context.Context, p *order.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update saves a payment record
func (r *GormPaymentRepository) Update(ctx context.Context, p *order.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// FindByReference finds a payment by its gateway reference
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*order.Payment, error) {
	var p order.Payment
	if err := r.db.WithContext(ctx).First(&p, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByOrder lists payments for an order, newest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*order.Payment, error) {
	var payments []*order.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindStalePending returns initialized payments older than cutoff, oldest
// first, for the reconciliation sweep
func (r *GormPaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*order.Payment, error) {
	var payments []*order.Payment
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", order.PaymentInitialized, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ order.PaymentRepository = (*GormPaymentRepository)(nil)
