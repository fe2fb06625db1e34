package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder(uuid.New(), uuid.New(), decimal.NewFromInt(10000), "NGN", nil)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		o := newPendingOrder(t)
		assert.Equal(t, StatusPending, o.Status)
	})

	t.Run("zero total", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.New(), decimal.Zero, "NGN", nil)
		assert.Error(t, err)
	})

	t.Run("bad currency", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), uuid.New(), decimal.NewFromInt(100), "NAIRA", nil)
		assert.Error(t, err)
	})
}

func TestOrderTransitions(t *testing.T) {
	t.Run("pending to paid", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.MarkPaid())
		assert.Equal(t, StatusPaid, o.Status)
	})

	t.Run("paid is idempotent", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.MarkPaid())
		assert.NoError(t, o.MarkPaid())
		assert.Equal(t, StatusPaid, o.Status)
	})

	t.Run("no transition out of terminal state", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Cancel())
		assert.Error(t, o.MarkPaid())
		assert.Error(t, o.MarkFailed())
		assert.Error(t, o.Expire())
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("failed cannot pay", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.MarkFailed())
		assert.Error(t, o.MarkPaid())
	})

	t.Run("expired", func(t *testing.T) {
		o := newPendingOrder(t)
		require.NoError(t, o.Expire())
		assert.True(t, o.Status.IsTerminal())
	})
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusPaid.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
}

func TestPaymentTransitions(t *testing.T) {
	newPayment := func(t *testing.T) *Payment {
		p, err := NewPayment(uuid.New(), "ref-abc123", "paystack", decimal.NewFromInt(10000), "NGN", "https://pay.example.com/abc")
		require.NoError(t, err)
		return p
	}

	t.Run("empty reference rejected", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), "", "paystack", decimal.NewFromInt(100), "NGN", "")
		assert.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		p := newPayment(t)
		paidAt := time.Now()
		require.NoError(t, p.MarkSuccess("card", paidAt))
		assert.Equal(t, PaymentSuccess, p.Status)
		require.NotNil(t, p.PaidAt)
		assert.WithinDuration(t, paidAt, *p.PaidAt, time.Second)
	})

	t.Run("success replay is idempotent", func(t *testing.T) {
		p := newPayment(t)
		require.NoError(t, p.MarkSuccess("card", time.Now()))
		assert.NoError(t, p.MarkSuccess("bank", time.Now()))
		assert.Equal(t, "card", p.Channel)
	})

	t.Run("failed then success rejected", func(t *testing.T) {
		p := newPayment(t)
		require.NoError(t, p.MarkFailed("insufficient funds"))
		assert.Error(t, p.MarkSuccess("card", time.Now()))
	})

	t.Run("abandoned", func(t *testing.T) {
		p := newPayment(t)
		require.NoError(t, p.MarkAbandoned())
		assert.Error(t, p.MarkFailed("late decline"))
	})
}
