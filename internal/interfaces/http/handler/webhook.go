package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/infrastructure/payment"
)

// paystackSignatureHeader carries the gateway's HMAC over the raw body
const paystackSignatureHeader = "x-paystack-signature"

// maxWebhookBody caps how much of a webhook request is read
const maxWebhookBody = 1 << 20

// GatewayEventProcessor applies a verified gateway event to the order
// and payment records
type GatewayEventProcessor interface {
	HandleGatewayEvent(ctx context.Context, evt *payment.WebhookEvent) error
}

// WebhookHandler receives asynchronous payment gateway notifications
type WebhookHandler struct {
	BaseHandler
	gateway   payment.Gateway
	processor GatewayEventProcessor
	logger    *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(gateway payment.Gateway, processor GatewayEventProcessor, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		gateway:   gateway,
		processor: processor,
		logger:    logger,
	}
}

// RegisterRoutes registers the webhook route; it is unauthenticated and
// protected by signature verification instead
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/paystack", h.Paystack)
}

// Paystack verifies and applies one gateway event. The signature is an
// HMAC over the exact raw body, so the body is read before any parsing.
// A processing failure returns 500 so the gateway redelivers.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.BadRequest(c, "Unable to read request body")
		return
	}

	signature := c.GetHeader(paystackSignatureHeader)
	if !h.gateway.VerifyWebhookSignature(body, signature) {
		h.logger.Warn("Webhook signature verification failed",
			zap.String("client_ip", c.ClientIP()))
		h.Error(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Webhook signature verification failed")
		return
	}

	evt, err := h.gateway.ParseWebhook(body)
	if err != nil {
		h.logger.Warn("Webhook payload could not be parsed", zap.Error(err))
		h.BadRequest(c, "Invalid webhook payload")
		return
	}

	if err := h.processor.HandleGatewayEvent(c.Request.Context(), evt); err != nil {
		h.logger.Error("Webhook processing failed",
			zap.String("event_id", evt.ID),
			zap.String("reference", evt.Reference),
			zap.Error(err))
		h.InternalError(c, "Webhook processing failed")
		return
	}

	c.Status(http.StatusOK)
}
