package order_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("valid_statuses", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending,
			order.Processing,
			order.Shipped,
			order.Delivered,
			order.Cancelled,
		} {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("invalid_statuses", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "pending", order.Pending.String())
	assert.Equal(t, "processing", order.Processing.String())
	assert.Equal(t, "shipped", order.Shipped.String())
	assert.Equal(t, "delivered", order.Delivered.String())
	assert.Equal(t, "cancelled", order.Cancelled.String())
	assert.Equal(t, "unknown", order.Unknown.String())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round_trips_valid_statuses", func(t *testing.T) {
		for _, want := range []order.Status{
			order.Pending,
			order.Processing,
			order.Shipped,
			order.Delivered,
			order.Cancelled,
		} {
			got, err := order.StatusFromString(want.String())
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects_unrecognized_values", func(t *testing.T) {
		_, err := order.StatusFromString("returned")
		require.Error(t, err)
	})
}

func TestStatus_TransitionGraph(t *testing.T) {
	type edge struct {
		from, to order.Status
	}

	allowed := []edge{
		{order.Pending, order.Processing},
		{order.Pending, order.Cancelled},
		{order.Processing, order.Shipped},
		{order.Processing, order.Cancelled},
		{order.Shipped, order.Delivered},
	}

	allowedSet := make(map[edge]bool, len(allowed))
	for _, e := range allowed {
		allowedSet[e] = true
	}

	statuses := []order.Status{
		order.Pending, order.Processing, order.Shipped, order.Delivered, order.Cancelled,
	}

	// Every pair not in the allowed set must be rejected.
	for _, from := range statuses {
		for _, to := range statuses {
			e := edge{from, to}
			t.Run(from.String()+"_to_"+to.String(), func(t *testing.T) {
				got, err := from.TransitionTo(to)

				if allowedSet[e] {
					require.NoError(t, err)
					assert.Equal(t, to, got)
				} else {
					require.ErrorIs(t, err, order.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())

	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.Processing.IsTerminal())
	assert.False(t, order.Shipped.IsTerminal())
	assert.False(t, order.Unknown.IsTerminal())
}
