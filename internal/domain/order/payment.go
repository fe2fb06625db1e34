package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luxemart/storefront/internal/domain/shared"
)

// PaymentStatus mirrors the gateway's view of a transaction
type PaymentStatus string

const (
	PaymentInitialized PaymentStatus = "initialized"
	PaymentSuccess     PaymentStatus = "success"
	PaymentFailed      PaymentStatus = "failed"
	PaymentAbandoned   PaymentStatus = "abandoned"
)

// Payment records one gateway transaction attempt for an order. The
// reference is the key the gateway echoes back in webhooks and redirects.
type Payment struct {
	shared.BaseEntity
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reference        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Provider         string          `gorm:"type:varchar(50);not null"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	Status           PaymentStatus   `gorm:"type:varchar(20);not null;default:'initialized'"`
	AuthorizationURL string          `gorm:"type:varchar(500)"`
	Channel          string          `gorm:"type:varchar(50)"`
	GatewayMessage   string          `gorm:"type:varchar(500)"`
	PaidAt           *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a freshly initialized gateway transaction
func NewPayment(orderID uuid.UUID, reference, provider string, amount decimal.Decimal, currency, authorizationURL string) (*Payment, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Payment reference cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	return &Payment{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          orderID,
		Reference:        reference,
		Provider:         provider,
		Amount:           amount,
		Currency:         currency,
		Status:           PaymentInitialized,
		AuthorizationURL: authorizationURL,
	}, nil
}

// MarkSuccess records a successful charge. Idempotent for replays.
func (p *Payment) MarkSuccess(channel string, paidAt time.Time) error {
	if p.Status == PaymentSuccess {
		return nil
	}
	if p.Status != PaymentInitialized {
		return shared.NewDomainError("INVALID_TRANSITION", "Payment is already "+string(p.Status))
	}
	p.Status = PaymentSuccess
	p.Channel = channel
	p.PaidAt = &paidAt
	p.UpdatedAt = time.Now()
	return nil
}

// MarkFailed records a declined or errored charge
func (p *Payment) MarkFailed(message string) error {
	if p.Status != PaymentInitialized {
		return shared.NewDomainError("INVALID_TRANSITION", "Payment is already "+string(p.Status))
	}
	p.Status = PaymentFailed
	p.GatewayMessage = message
	p.UpdatedAt = time.Now()
	return nil
}

// MarkAbandoned records a transaction the shopper never completed
func (p *Payment) MarkAbandoned() error {
	if p.Status != PaymentInitialized {
		return shared.NewDomainError("INVALID_TRANSITION", "Payment is already "+string(p.Status))
	}
	p.Status = PaymentAbandoned
	p.UpdatedAt = time.Now()
	return nil
}
