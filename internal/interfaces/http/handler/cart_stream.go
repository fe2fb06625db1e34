package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcart "github.com/luxemart/storefront/internal/application/cart"
	"github.com/luxemart/storefront/internal/domain/cart"
	"github.com/luxemart/storefront/internal/domain/shared"
)

// resyncCoalesceWindow batches a burst of cart changes into one resync
const resyncCoalesceWindow = 200 * time.Millisecond

// cartStreamClient is one open resync stream for a user
type cartStreamClient struct {
	id     string
	userID uuid.UUID
	notify chan struct{}
}

// CartStreamHandler pushes cart snapshots over SSE whenever the cart
// changes on another connection. It subscribes to cart changed events
// on the in-process bus; a burst of changes within the coalesce window
// produces a single resync.
type CartStreamHandler struct {
	BaseHandler
	cartService *appcart.Service
	logger      *zap.Logger

	mu      sync.Mutex
	clients map[string]*cartStreamClient
}

// NewCartStreamHandler creates the resync stream handler
func NewCartStreamHandler(cartService *appcart.Service, logger *zap.Logger) *CartStreamHandler {
	return &CartStreamHandler{
		cartService: cartService,
		logger:      logger,
		clients:     make(map[string]*cartStreamClient),
	}
}

// EventTypes implements shared.EventHandler
func (h *CartStreamHandler) EventTypes() []string {
	return []string{cart.EventTypeChanged}
}

// Handle implements shared.EventHandler; it pokes every open stream
// belonging to the changed cart's owner
func (h *CartStreamHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*cart.ChangedEvent)
	if !ok {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		if client.userID != changed.UserID {
			continue
		}
		select {
		case client.notify <- struct{}{}:
		default:
			// a resync is already pending for this client
		}
	}
	return nil
}

// RegisterRoutes registers the stream route on an authenticated group
func (h *CartStreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart/stream", h.Stream)
}

// Stream opens the cart resync stream. The current cart is sent
// immediately, then again after each coalesced change burst.
func (h *CartStreamHandler) Stream(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	setSSEHeaders(c)

	client := &cartStreamClient{
		id:     uuid.New().String(),
		userID: userID,
		notify: make(chan struct{}, 1),
	}
	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, client.id)
		h.mu.Unlock()
	}()

	reqCtx := c.Request.Context()
	h.sendSnapshot(reqCtx, c, userID)

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return
		case <-heartbeat.C:
			writeSSE(c.Writer, sseMessage{Event: "heartbeat", Data: fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix())})
			c.Writer.Flush()
		case <-client.notify:
			// wait out the burst, then drain any extra pokes
			timer := time.NewTimer(resyncCoalesceWindow)
			select {
			case <-reqCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			select {
			case <-client.notify:
			default:
			}
			h.sendSnapshot(reqCtx, c, userID)
		}
	}
}

func (h *CartStreamHandler) sendSnapshot(ctx context.Context, c *gin.Context, userID uuid.UUID) {
	snapshot, err := h.cartService.GetOrCreate(ctx, userID)
	if err != nil {
		h.logger.Warn("Cart resync failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	writeSSE(c.Writer, sseMessage{Event: "cart", Data: string(data)})
	c.Writer.Flush()
}
