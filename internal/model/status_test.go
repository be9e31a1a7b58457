package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "inProcess", "inShipping", "delivered", "rejected"} {
		st, err := ParseOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), st)
	}

	_, err := ParseOrderStatus("shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = ParseOrderStatus("")
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to inProcess", OrderStatusPending, OrderStatusInProcess, true},
		{"pending to rejected", OrderStatusPending, OrderStatusRejected, true},
		{"confirmed to inProcess", OrderStatusConfirmed, OrderStatusInProcess, true},
		{"confirmed to rejected", OrderStatusConfirmed, OrderStatusRejected, true},
		{"inProcess to inShipping", OrderStatusInProcess, OrderStatusInShipping, true},
		{"inShipping to delivered", OrderStatusInShipping, OrderStatusDelivered, true},
		{"pending skips to delivered", OrderStatusPending, OrderStatusDelivered, false},
		{"inProcess back to pending", OrderStatusInProcess, OrderStatusPending, false},
		{"inShipping back to inProcess", OrderStatusInShipping, OrderStatusInProcess, false},
		{"inProcess to rejected", OrderStatusInProcess, OrderStatusRejected, false},
		{"same status", OrderStatusPending, OrderStatusPending, false},
		{"rejected to delivered", OrderStatusRejected, OrderStatusDelivered, false},
		{"delivered to inShipping", OrderStatusDelivered, OrderStatusInShipping, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidState))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusConfirmed.IsTerminal())
	assert.False(t, OrderStatusInProcess.IsTerminal())
	assert.False(t, OrderStatusInShipping.IsTerminal())
}
