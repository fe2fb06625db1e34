package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/luxemart/storefront/internal/application/checkout"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/interfaces/http/dto"
)

// CheckoutHandler handles checkout and order history
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkout.Service
	watcher         *checkout.ConfirmationWatcher
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, watcher *checkout.ConfirmationWatcher) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		watcher:         watcher,
	}
}

// RegisterRoutes registers checkout routes on an authenticated group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)

	orders := rg.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/confirmation", h.Lookup)
	orders.GET("/:id", h.GetOrder)
	orders.GET("/:id/confirmation", h.Confirmation)
}

// Checkout freezes the open cart into an order and hands the shopper to
// the hosted payment page
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListOrders returns the caller's order history
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}
	listReq = listReq.WithDefaults()

	filter := shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
	}
	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]any{"status": status}
	}

	result, err := h.checkoutService.ListOrders(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Orders, result.Total, listReq.Page, listReq.PageSize)
}

// GetOrder returns one owned order
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Lookup is the one-shot confirmation check: it resolves the order by
// id or by payment reference and returns its current state. The hosted
// payment redirect only carries the reference.
func (h *CheckoutHandler) Lookup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var result *checkout.OrderResponse
	switch {
	case c.Query("order_id") != "":
		orderID, parseErr := uuid.Parse(c.Query("order_id"))
		if parseErr != nil {
			h.BadRequest(c, "Invalid order ID")
			return
		}
		result, err = h.checkoutService.GetOrder(c.Request.Context(), userID, orderID)
	case c.Query("reference") != "":
		result, err = h.checkoutService.GetOrderByReference(c.Request.Context(), userID, c.Query("reference"))
	default:
		h.BadRequest(c, "order_id or reference is required")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type confirmationEvent struct {
	Status   string `json:"status"`
	Terminal bool   `json:"terminal"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

// Confirmation streams the order's payment status over SSE until it
// reaches a terminal state or the watch times out. The client opens
// this right after the hosted-payment redirect instead of polling.
func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	setSSEHeaders(c)

	updates := h.watcher.Watch(c.Request.Context(), userID, orderID)
	for update := range updates {
		if update.Err != nil {
			// surfacing the error closes the stream; the client falls
			// back to fetching the order
			writeSSE(c.Writer, sseMessage{Event: "error", Data: fmt.Sprintf(`{"message":%q}`, "order status unavailable")})
			c.Writer.Flush()
			return
		}

		evt := confirmationEvent{
			Status:   string(update.Status),
			Terminal: update.Status.IsTerminal(),
			TimedOut: update.TimedOut,
		}
		data, err := json.Marshal(evt)
		if err != nil {
			continue
		}
		writeSSE(c.Writer, sseMessage{Event: "status", Data: string(data)})
		c.Writer.Flush()
	}
}
