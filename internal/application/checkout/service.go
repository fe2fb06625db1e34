package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxemart/storefront/internal/domain/cart"
	"github.com/luxemart/storefront/internal/domain/catalog"
	"github.com/luxemart/storefront/internal/domain/identity"
	"github.com/luxemart/storefront/internal/domain/order"
	"github.com/luxemart/storefront/internal/domain/shared"
	"github.com/luxemart/storefront/internal/infrastructure/payment"
)

// webhookDedupTTL is how long a processed gateway event ID stays marked
const webhookDedupTTL = 24 * time.Hour

// pendingTimeout is how long a payment may stay initialized before the
// reconciler expires its order
const pendingTimeout = 15 * time.Minute

// Service drives checkout, webhook processing, and reconciliation
type Service struct {
	cartRepo    cart.Repository
	productRepo catalog.ProductRepository
	orderRepo   order.Repository
	paymentRepo order.PaymentRepository
	userRepo    identity.UserRepository
	addressRepo identity.AddressRepository
	gateway     payment.Gateway
	idempotency shared.IdempotencyStore
	eventBus    shared.EventBus
	currency    string
	logger      *zap.Logger
}

// NewService creates a new checkout Service
func NewService(
	cartRepo cart.Repository,
	productRepo catalog.ProductRepository,
	orderRepo order.Repository,
	paymentRepo order.PaymentRepository,
	userRepo identity.UserRepository,
	addressRepo identity.AddressRepository,
	gateway payment.Gateway,
	idempotency shared.IdempotencyStore,
	eventBus shared.EventBus,
	currency string,
	logger *zap.Logger,
) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		gateway:     gateway,
		idempotency: idempotency,
		eventBus:    eventBus,
		currency:    currency,
		logger:      logger,
	}
}

// Checkout freezes the caller's open cart into a pending order, starts a
// gateway transaction, and returns the hosted payment handoff. An empty
// cart is rejected before anything is written.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	c, err := s.cartRepo.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrCartEmpty
		}
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrCartEmpty
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	addressID, err := s.resolveAddress(ctx, userID, req.AddressID)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(userID, c.ID, c.Subtotal(), s.currency, addressID)
	if err != nil {
		return nil, err
	}
	for _, item := range c.Items {
		name := ""
		if product, perr := s.productRepo.FindByID(ctx, item.ProductID); perr == nil {
			name = product.Name
		}
		o.Items = append(o.Items, order.OrderItem{
			BaseEntity:  shared.NewBaseEntity(),
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtTime,
		})
	}
	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	reference := newReference(o.ID)
	init, err := s.gateway.Initialize(ctx, payment.InitializeRequest{
		Reference: reference,
		Email:     user.Email,
		Amount:    o.TotalAmount,
		Currency:  o.Currency,
		Metadata:  map[string]string{"order_id": o.ID.String()},
	})
	if err != nil {
		s.logger.Error("gateway initialize failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
		if ferr := o.MarkFailed(); ferr == nil {
			_ = s.orderRepo.Update(ctx, o)
		}
		return nil, shared.ErrPaymentGateway
	}

	p, err := order.NewPayment(o.ID, init.Reference, s.gateway.Provider(), o.TotalAmount, o.Currency, init.AuthorizationURL)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := c.Close(); err == nil {
		if uerr := s.cartRepo.Update(ctx, c); uerr != nil {
			s.logger.Warn("failed to close cart after checkout",
				zap.String("cart_id", c.ID.String()), zap.Error(uerr))
		}
	}

	return &CheckoutResponse{
		OrderID:          o.ID,
		Reference:        init.Reference,
		AuthorizationURL: init.AuthorizationURL,
		Total:            o.TotalAmount,
		Currency:         o.Currency,
	}, nil
}

// HandleGatewayEvent applies a verified webhook event to the payment and
// its order. Redelivered events are dropped by the idempotency store, and
// the state machines make a replayed success a no-op anyway.
func (s *Service) HandleGatewayEvent(ctx context.Context, evt *payment.WebhookEvent) error {
	claimed := false
	fresh, err := s.idempotency.MarkProcessed(ctx, evt.ID, webhookDedupTTL)
	if err != nil {
		// a dedup store outage must not drop the event
		s.logger.Warn("idempotency check failed, processing anyway", zap.String("event_id", evt.ID), zap.Error(err))
	} else if !fresh {
		s.logger.Debug("duplicate gateway event dropped", zap.String("event_id", evt.ID))
		return nil
	} else {
		claimed = true
	}

	if err := s.applyGatewayEvent(ctx, evt); err != nil {
		// release the claim so the gateway's redelivery gets processed
		if claimed {
			if uerr := s.idempotency.Unmark(ctx, evt.ID); uerr != nil {
				s.logger.Warn("failed to release gateway event claim",
					zap.String("event_id", evt.ID), zap.Error(uerr))
			}
		}
		return err
	}
	return nil
}

func (s *Service) applyGatewayEvent(ctx context.Context, evt *payment.WebhookEvent) error {
	p, err := s.paymentRepo.FindByReference(ctx, evt.Reference)
	if err != nil {
		return err
	}

	switch evt.Status {
	case payment.StatusSuccess:
		paidAt := time.Now()
		if evt.PaidAt != nil {
			paidAt = *evt.PaidAt
		}
		return s.settle(ctx, p, evt.Channel, paidAt)
	case payment.StatusFailed:
		return s.fail(ctx, p, "gateway reported failure")
	default:
		s.logger.Debug("ignoring gateway event",
			zap.String("event_id", evt.ID),
			zap.String("status", string(evt.Status)))
		return nil
	}
}

// GetOrder returns an order owned by the caller
func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// OrderStatus returns just the state of an order owned by the caller
func (s *Service) OrderStatus(ctx context.Context, userID, orderID uuid.UUID) (order.Status, error) {
	o, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

// GetOrderByReference resolves an order through its payment reference.
// The hosted-payment redirect carries only the reference, not the order
// id, so the confirmation page looks the order up this way.
func (s *Service) GetOrderByReference(ctx context.Context, userID uuid.UUID, reference string) (*OrderResponse, error) {
	p, err := s.paymentRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, userID, p.OrderID)
}

// ListOrders returns the caller's order history
func (s *Service) ListOrders(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*OrderListResponse, error) {
	orders, total, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	resp := &OrderListResponse{
		Orders:   make([]OrderResponse, 0, len(orders)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, *toOrderResponse(o))
	}
	return resp, nil
}

// ReconcileStalePayments sweeps initialized payments that have outlived
// the webhook window, queries the gateway for their real status, and
// settles, fails, or expires them. Returns how many payments were touched.
func (s *Service) ReconcileStalePayments(ctx context.Context, batchSize int) (int, error) {
	cutoff := time.Now().Add(-time.Minute)
	stale, err := s.paymentRepo.FindStalePending(ctx, cutoff, batchSize)
	if err != nil {
		return 0, err
	}

	touched := 0
	for _, p := range stale {
		verify, err := s.gateway.Verify(ctx, p.Reference)
		if err != nil {
			s.logger.Warn("reconcile verify failed", zap.String("reference", p.Reference), zap.Error(err))
			continue
		}

		switch verify.Status {
		case payment.StatusSuccess:
			paidAt := time.Now()
			if verify.PaidAt != nil {
				paidAt = *verify.PaidAt
			}
			if err := s.settle(ctx, p, verify.Channel, paidAt); err != nil {
				s.logger.Warn("reconcile settle failed", zap.String("reference", p.Reference), zap.Error(err))
				continue
			}
			touched++
		case payment.StatusFailed:
			if err := s.fail(ctx, p, verify.GatewayMsg); err != nil {
				continue
			}
			touched++
		default:
			if time.Since(p.CreatedAt) > pendingTimeout {
				if err := s.expire(ctx, p); err != nil {
					continue
				}
				touched++
			}
		}
	}
	return touched, nil
}

func (s *Service) settle(ctx context.Context, p *order.Payment, channel string, paidAt time.Time) error {
	if err := p.MarkSuccess(channel, paidAt); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if err := o.MarkPaid(); err != nil {
		return err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err := s.eventBus.Publish(ctx, order.NewPaidEvent(o.ID, o.UserID, p.Reference)); err != nil {
		s.logger.Warn("failed to publish order paid", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	return nil
}

func (s *Service) fail(ctx context.Context, p *order.Payment, message string) error {
	if err := p.MarkFailed(message); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if err := o.MarkFailed(); err != nil {
		// webhook race: another path already settled this order
		s.logger.Warn("order not pending on payment failure",
			zap.String("order_id", o.ID.String()), zap.Error(err))
		return nil
	}
	return s.orderRepo.Update(ctx, o)
}

func (s *Service) expire(ctx context.Context, p *order.Payment) error {
	if err := p.MarkAbandoned(); err != nil {
		return err
	}
	if err := s.paymentRepo.Update(ctx, p); err != nil {
		return err
	}

	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return err
	}
	if err := o.Expire(); err != nil {
		return nil
	}
	return s.orderRepo.Update(ctx, o)
}

func (s *Service) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

func (s *Service) resolveAddress(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID) (*uuid.UUID, error) {
	if addressID != nil {
		addr, err := s.addressRepo.FindByID(ctx, *addressID)
		if err != nil {
			return nil, err
		}
		if addr.UserID != userID {
			return nil, shared.ErrForbidden
		}
		return addressID, nil
	}

	addr, err := s.addressRepo.FindDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	id := addr.ID
	return &id, nil
}

func newReference(orderID uuid.UUID) string {
	return fmt.Sprintf("LX-%s", strings.ReplaceAll(orderID.String(), "-", "")[:20])
}
