package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	paystackAPIBaseURL     = "https://api.paystack.co"
	paystackInitializePath = "/transaction/initialize"
	paystackVerifyPath     = "/transaction/verify/%s"
)

// PaystackAdapter implements the Gateway interface for Paystack
type PaystackAdapter struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(config *PaystackConfig) (*PaystackAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PaystackAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Provider returns the gateway's short name
func (a *PaystackAdapter) Provider() string {
	return "paystack"
}

// Initialize starts a transaction and returns the hosted checkout URL.
// Paystack expects amounts in the currency's minor unit.
func (a *PaystackAdapter) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = a.config.Currency()
	}

	body := paystackInitializeRequest{
		Reference:   req.Reference,
		Email:       req.Email,
		Amount:      toMinorUnit(req.Amount),
		Currency:    currency,
		CallbackURL: a.config.CallbackURL,
		Metadata:    req.Metadata,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, paystackInitializePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var resp paystackInitializeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: initialize rejected: %s", resp.Message)
	}

	return &InitializeResponse{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
	}, nil
}

// Verify queries the current status of a transaction by reference
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf(paystackVerifyPath, reference), nil)
	if err != nil {
		return nil, err
	}

	var resp paystackVerifyResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse response: %w", err)
	}
	if !resp.Status {
		return nil, fmt.Errorf("paystack: verify rejected: %s", resp.Message)
	}

	return &VerifyResponse{
		Reference:  resp.Data.Reference,
		Status:     mapPaystackStatus(resp.Data.Status),
		Amount:     fromMinorUnit(resp.Data.Amount),
		Currency:   resp.Data.Currency,
		Channel:    resp.Data.Channel,
		GatewayMsg: resp.Data.GatewayResponse,
		PaidAt:     parsePaystackTime(resp.Data.PaidAt),
	}, nil
}

// VerifyWebhookSignature checks the x-paystack-signature header: an
// HMAC-SHA512 of the raw body keyed with the secret key.
func (a *PaystackAdapter) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(a.config.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseWebhook decodes a raw webhook body into an event
func (a *PaystackAdapter) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload paystackWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("paystack: failed to parse webhook: %w", err)
	}
	if payload.Event == "" || payload.Data.Reference == "" {
		return nil, fmt.Errorf("paystack: webhook missing event or reference")
	}

	return &WebhookEvent{
		ID:        payload.Data.Reference + ":" + payload.Event,
		Type:      payload.Event,
		Reference: payload.Data.Reference,
		Status:    mapPaystackStatus(payload.Data.Status),
		Amount:    fromMinorUnit(payload.Data.Amount),
		Currency:  payload.Data.Currency,
		Channel:   payload.Data.Channel,
		PaidAt:    parsePaystackTime(payload.Data.PaidAt),
	}, nil
}

func (a *PaystackAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr paystackErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("paystack: API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("paystack: API error (%d)", resp.StatusCode)
	}
	return respBody, nil
}

func mapPaystackStatus(status string) TransactionStatus {
	switch status {
	case "success":
		return StatusSuccess
	case "failed":
		return StatusFailed
	case "abandoned":
		return StatusAbandoned
	default:
		return StatusPending
	}
}

func toMinorUnit(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func fromMinorUnit(amount int64) decimal.Decimal {
	return decimal.NewFromInt(amount).Div(decimal.NewFromInt(100))
}

func parsePaystackTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
