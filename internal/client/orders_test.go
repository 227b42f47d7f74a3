package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

func demoCart() cart.Cart {
	phone := smartphone.Smartphone{ID: 1, Model: "Pixel 8", Producer: "Google", Price: 69990}
	return cart.Cart{
		ID:     1,
		UserID: 7,
		Items: []cart.CartItem{
			{ID: 1, CartID: 1, SmartphoneID: 1, Quantity: 2, Smartphone: &phone},
		},
	}
}

func TestMockOrdersCreateSnapshotsCart(t *testing.T) {
	m := NewMockOrders()
	ctx := context.Background()

	ord, err := m.CreateOrder(ctx, "", demoCart())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, ord.Status)
	assert.NotEmpty(t, ord.Reference)
	assert.Equal(t, int64(7), ord.UserID)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, 2*69990, ord.TotalAmount)

	got, err := m.GetOrderByID(ctx, "", ord.ID)
	require.NoError(t, err)
	assert.Equal(t, ord.Reference, got.Reference)
}

func TestMockOrdersRejectsEmptyCart(t *testing.T) {
	m := NewMockOrders()
	_, err := m.CreateOrder(context.Background(), "", cart.Cart{})
	require.Error(t, err)
}

func TestMockOrdersCancelFollowsLifecycle(t *testing.T) {
	m := NewMockOrders()
	ctx := context.Background()

	ord, err := m.CreateOrder(ctx, "", demoCart())
	require.NoError(t, err)

	cancelled, err := m.CancelOrder(ctx, "", ord.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, cancelled.Status)

	_, err = m.CancelOrder(ctx, "", ord.ID)
	require.Error(t, err, "cancelled is terminal")

	_, err = m.CancelOrder(ctx, "", 999)
	require.Error(t, err)
}

func TestMockOrdersSeedDemo(t *testing.T) {
	m := NewMockOrders()
	m.SeedDemo(7)

	list, err := m.GetOrders(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, ord := range list {
		assert.Equal(t, int64(7), ord.UserID)
		assert.NotEmpty(t, ord.Reference)
		assert.Positive(t, ord.TotalAmount)
	}
}
