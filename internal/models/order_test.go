package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		got, err := ParseOrderStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseOrderStatus("  Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got)

	for _, bad := range []string{"", "shipped", "Delivered", "In production"} {
		_, err := ParseOrderStatus(bad)
		assert.Error(t, err, bad)
	}
}

func TestOrderTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("34.00")},
	}}
	assert.Equal(t, "59.00", o.Total().StringFixed(2))

	o = Order{Items: []OrderItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.333")},
	}}
	assert.True(t, o.Total().Equal(decimal.RequireFromString("1.00")))

	assert.True(t, (&Order{}).Total().IsZero())
}

func TestUserIsAdmin(t *testing.T) {
	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
}
