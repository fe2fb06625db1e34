package payment

import (
	"errors"
	"strings"
)

// PaystackConfig contains configuration for the Paystack API
type PaystackConfig struct {
	// SecretKey is the sk_ API key, also the webhook HMAC key
	SecretKey string
	// BaseURL overrides the API endpoint, mainly for tests
	BaseURL string
	// CallbackURL is where the hosted checkout redirects the shopper
	CallbackURL string
	// DefaultCurrency is used when a request carries no currency
	DefaultCurrency string
}

// Errors for configuration validation
var (
	ErrPaystackMissingSecretKey = errors.New("paystack: missing secret key")
	ErrPaystackInvalidSecretKey = errors.New("paystack: secret key must start with sk_")
	ErrPaystackMissingCallback  = errors.New("paystack: missing callback URL")
)

// Validate validates the configuration
func (c *PaystackConfig) Validate() error {
	if c.SecretKey == "" {
		return ErrPaystackMissingSecretKey
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") {
		return ErrPaystackInvalidSecretKey
	}
	if c.CallbackURL == "" {
		return ErrPaystackMissingCallback
	}
	return nil
}

// APIBaseURL returns the configured base URL or the production default
func (c *PaystackConfig) APIBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return paystackAPIBaseURL
}

// Currency returns the configured default currency or NGN
func (c *PaystackConfig) Currency() string {
	if c.DefaultCurrency != "" {
		return c.DefaultCurrency
	}
	return "NGN"
}
