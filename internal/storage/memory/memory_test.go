package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

func seeded(t *testing.T) *Memory {
	t.Helper()
	m := New()
	require.NoError(t, m.Seed())
	return m
}

func TestSeed(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	phones, err := m.GetSmartphones(ctx)
	require.NoError(t, err)
	assert.Len(t, phones, 4)

	admin, err := m.GetUserByEmail(ctx, "admin@smartbuy.dev")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)

	crt, err := m.GetCartByUserID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, crt.UserID)
}

func TestCreateUserMakesCartAndRejectsDuplicates(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	u, err := m.CreateUser(ctx, user.User{Name: "Eva", Email: "Eva@Example.Com", Role: user.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "eva@example.com", u.Email, "emails are stored lowercased")
	require.NotNil(t, u.Cart)
	assert.Equal(t, u.ID, u.Cart.UserID)

	_, err = m.CreateUser(ctx, user.User{Name: "Eva2", Email: "eva@example.com", Role: user.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestAddToCartMerges(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	crt, err := m.GetCartByUserID(ctx, 2)
	require.NoError(t, err)

	first, err := m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	merged, err := m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID, "same smartphone merges into the existing row")
	assert.Equal(t, 3, merged.Quantity)

	items, err := m.GetCartItems(ctx, crt.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Smartphone)
	assert.Equal(t, int64(1), items[0].Smartphone.ID)
}

func TestAddToCartUnknownSmartphone(t *testing.T) {
	m := seeded(t)
	crt, err := m.GetCartByUserID(context.Background(), 2)
	require.NoError(t, err)

	_, err = m.AddToCart(context.Background(), cart.CartItem{CartID: crt.ID, SmartphoneID: 999, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetQuantityRejectsBelowOne(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()
	crt, err := m.GetCartByUserID(ctx, 2)
	require.NoError(t, err)
	it, err := m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 2, Quantity: 1})
	require.NoError(t, err)

	it.Quantity = 0
	_, err = m.SetQuantity(ctx, it)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	it.Quantity = 7
	updated, err := m.SetQuantity(ctx, it)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)
}

func TestCreateOrderFromCart(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()
	crt, err := m.GetCartByUserID(ctx, 2)
	require.NoError(t, err)

	_, err = m.CreateOrderFromCart(ctx, 2)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest, "empty cart cannot be checked out")

	_, err = m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 3, Quantity: 1})
	require.NoError(t, err)

	phone1, err := m.GetSmartphone(ctx, 1)
	require.NoError(t, err)
	phone3, err := m.GetSmartphone(ctx, 3)
	require.NoError(t, err)

	ord, err := m.CreateOrderFromCart(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, ord.Status)
	assert.NotEmpty(t, ord.Reference)
	require.Len(t, ord.Items, 2)
	assert.Equal(t, 2*phone1.Price+phone3.Price, ord.TotalAmount)

	items, err := m.GetCartItems(ctx, crt.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "checkout empties the cart")

	mine, err := m.GetOrdersByUserID(ctx, 2)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ord.ID, mine[0].ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()
	crt, err := m.GetCartByUserID(ctx, 2)
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, cart.CartItem{CartID: crt.ID, SmartphoneID: 1, Quantity: 1})
	require.NoError(t, err)
	ord, err := m.CreateOrderFromCart(ctx, 2)
	require.NoError(t, err)

	for _, next := range []order.Status{order.StatusProcessing, order.StatusShipped, order.StatusDelivered} {
		ord, err = m.UpdateOrderStatus(ctx, ord.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, ord.Status)
	}

	_, err = m.UpdateOrderStatus(ctx, 999, order.StatusShipped)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewsMaintainRatingAggregates(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	base, err := m.GetSmartphone(ctx, 1)
	require.NoError(t, err)

	rv1, err := m.CreateReview(ctx, review.Review{SmartphoneID: 1, UserID: 1, Rating: 5})
	require.NoError(t, err)
	comment := "solid"
	_, err = m.CreateReview(ctx, review.Review{SmartphoneID: 1, UserID: 2, Rating: 3, Comment: &comment})
	require.NoError(t, err)

	phone, err := m.GetSmartphone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, base.RatingsSum+8, phone.RatingsSum)
	assert.Equal(t, base.RatingsCount+2, phone.RatingsCount)

	// one review per user per smartphone
	_, err = m.CreateReview(ctx, review.Review{SmartphoneID: 1, UserID: 1, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	rv1.Rating = 1
	_, err = m.UpdateReview(ctx, rv1)
	require.NoError(t, err)
	phone, err = m.GetSmartphone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, base.RatingsSum+4, phone.RatingsSum)
	assert.Equal(t, base.RatingsCount+2, phone.RatingsCount)

	_, err = m.DeleteReview(ctx, rv1.ID)
	require.NoError(t, err)
	phone, err = m.GetSmartphone(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, base.RatingsSum+3, phone.RatingsSum)
	assert.Equal(t, base.RatingsCount+1, phone.RatingsCount)
}

func TestTmpPasswords(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	_, err := m.CreateTmpPassword(ctx, user.TmpPassword{Email: "user@smartbuy.dev", Password: "once"})
	require.NoError(t, err)

	tp, err := m.GetTmpPassword(ctx, "user@smartbuy.dev")
	require.NoError(t, err)
	assert.Equal(t, "once", tp.Password)

	require.NoError(t, m.DeleteTmpPassword(ctx, "user@smartbuy.dev"))
	_, err = m.GetTmpPassword(ctx, "user@smartbuy.dev")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
