package storage

import (
	"context"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
)

// Store is the single persistence surface for the API. The postgres
// implementation backs production; the memory implementation backs
// development runs and tests. Implementations report failures with
// the apperrors sentinels wrapped in context.
type Store interface {
	GetSmartphone(ctx context.Context, id int64) (smartphone.Smartphone, error)
	GetSmartphones(ctx context.Context) ([]smartphone.Smartphone, error)
	GetSmartphonesByIDs(ctx context.Context, ids []int64) ([]smartphone.Smartphone, error)

	GetUser(ctx context.Context, id int64) (user.User, error)
	GetUsers(ctx context.Context) ([]user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	// CreateUser also creates the user's empty cart; every user owns
	// exactly one cart for their whole lifetime.
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	UpdateUserPassword(ctx context.Context, userID int64, hash string) error

	CreateTmpPassword(ctx context.Context, tp user.TmpPassword) (user.TmpPassword, error)
	GetTmpPassword(ctx context.Context, email string) (user.TmpPassword, error)
	DeleteTmpPassword(ctx context.Context, email string) error

	GetReview(ctx context.Context, id int64) (review.Review, error)
	GetReviews(ctx context.Context, smartphoneID int64) ([]review.Review, error)
	CreateReview(ctx context.Context, rv review.Review) (review.Review, error)
	UpdateReview(ctx context.Context, rv review.Review) (review.Review, error)
	DeleteReview(ctx context.Context, id int64) (review.Review, error)

	GetCarts(ctx context.Context) ([]cart.Cart, error)
	GetCart(ctx context.Context, id int64) (cart.Cart, error)
	GetCartByUserID(ctx context.Context, userID int64) (cart.Cart, error)

	GetCartItem(ctx context.Context, id int64) (cart.CartItem, error)
	GetCartItems(ctx context.Context, cartID int64) ([]cart.CartItem, error)
	// AddToCart merges: adding a smartphone already present in the
	// cart increments its quantity instead of creating a second row.
	AddToCart(ctx context.Context, item cart.CartItem) (cart.CartItem, error)
	SetQuantity(ctx context.Context, item cart.CartItem) (cart.CartItem, error)
	DeleteFromCart(ctx context.Context, cartID, itemID int64) (cart.CartItem, error)

	// CreateOrderFromCart snapshots the user's cart into an immutable
	// order at current prices and empties the cart.
	CreateOrderFromCart(ctx context.Context, userID int64) (order.Order, error)
	GetOrder(ctx context.Context, id int64) (order.Order, error)
	GetOrders(ctx context.Context) ([]order.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int64) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
}
