package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the gateway's view of a transaction
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusSuccess   TransactionStatus = "success"
	StatusFailed    TransactionStatus = "failed"
	StatusAbandoned TransactionStatus = "abandoned"
)

// InitializeRequest starts a hosted-checkout transaction
type InitializeRequest struct {
	Reference string
	Email     string
	Amount    decimal.Decimal
	Currency  string
	Metadata  map[string]string
}

// InitializeResponse carries the hosted-checkout handoff
type InitializeResponse struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// VerifyResponse is the gateway's answer to a status query
type VerifyResponse struct {
	Reference  string
	Status     TransactionStatus
	Amount     decimal.Decimal
	Currency   string
	Channel    string
	GatewayMsg string
	PaidAt     *time.Time
}

// WebhookEvent is a parsed, signature-verified gateway notification
type WebhookEvent struct {
	ID        string
	Type      string
	Reference string
	Status    TransactionStatus
	Amount    decimal.Decimal
	Currency  string
	Channel   string
	PaidAt    *time.Time
}

// Webhook event types
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Gateway abstracts the payment provider
type Gateway interface {
	// Initialize starts a transaction and returns the hosted checkout URL
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)

	// Verify queries the current status of a transaction by reference
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)

	// VerifyWebhookSignature checks the signature header of a raw webhook
	// body before it is trusted
	VerifyWebhookSignature(body []byte, signature string) bool

	// ParseWebhook decodes a raw webhook body into an event
	ParseWebhook(body []byte) (*WebhookEvent, error)

	// Provider returns the gateway's short name for payment records
	Provider() string
}
