package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// Order is created at checkout from the contents of an open cart. It starts
// pending and moves to exactly one terminal state.
type Order struct {
	shared.BaseEntity
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CartID      uuid.UUID       `gorm:"type:uuid;not null"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	AddressID   *uuid.UUID      `gorm:"type:uuid"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen copy of a cart line at checkout time
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a pending order from checkout
func NewOrder(userID, cartID uuid.UUID, total decimal.Decimal, currency string, addressID *uuid.UUID) (*Order, error) {
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total must be positive")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}

	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		CartID:      cartID,
		Status:      StatusPending,
		TotalAmount: total,
		Currency:    currency,
		AddressID:   addressID,
	}, nil
}

// MarkPaid transitions the order to paid. Only pending orders can be paid;
// marking an already paid order is a no-op so replayed confirmations are safe.
func (o *Order) MarkPaid() error {
	if o.Status == StatusPaid {
		return nil
	}
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_TRANSITION", "Order is already "+string(o.Status))
	}
	o.Status = StatusPaid
	o.UpdatedAt = time.Now()
	return nil
}

// MarkFailed transitions a pending order to failed
func (o *Order) MarkFailed() error {
	return o.transition(StatusFailed)
}

// Cancel transitions a pending order to cancelled
func (o *Order) Cancel() error {
	return o.transition(StatusCancelled)
}

// Expire transitions a pending order to expired
func (o *Order) Expire() error {
	return o.transition(StatusExpired)
}

func (o *Order) transition(to Status) error {
	if o.Status != StatusPending {
		return shared.NewDomainError("INVALID_TRANSITION", "Order is already "+string(o.Status))
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

// PaidEvent is published when an order transitions to paid
type PaidEvent struct {
	shared.BaseEvent
	OrderID   uuid.UUID
	UserID    uuid.UUID
	Reference string
}

// EventTypePaid is the bus type string for PaidEvent
const EventTypePaid = "order.paid"

// NewPaidEvent creates an order paid event
func NewPaidEvent(orderID, userID uuid.UUID, reference string) *PaidEvent {
	return &PaidEvent{
		BaseEvent: shared.NewBaseEvent(EventTypePaid),
		OrderID:   orderID,
		UserID:    userID,
		Reference: reference,
	}
}
