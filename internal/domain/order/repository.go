package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Repository defines the persistence operations for orders
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, int64, error)
}

// PaymentRepository defines the persistence operations for payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByReference(ctx context.Context, reference string) (*Payment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Payment, error)

	// FindStalePending returns initialized payments older than cutoff, for
	// the reconciliation sweep.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*Payment, error)
}
