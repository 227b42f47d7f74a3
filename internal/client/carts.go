package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
)

// GetCarts lists every cart. Admin only.
func (c *Client) GetCarts(ctx context.Context, token string) ([]cart.Cart, error) {
	var out []cart.Cart
	if err := c.do(ctx, http.MethodGet, "/api/v1/carts", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCartByUserID fetches a user's cart with items. Self or admin.
func (c *Client) GetCartByUserID(ctx context.Context, token string, userID int64) (cart.Cart, error) {
	var out cart.Cart
	path := fmt.Sprintf("/api/v1/carts?user_id=%d", userID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return cart.Cart{}, err
	}
	return out, nil
}

// GetCart fetches a cart without its items.
func (c *Client) GetCart(ctx context.Context, token string, cartID int64) (cart.Cart, error) {
	var out cart.Cart
	path := fmt.Sprintf("/api/v1/carts/%d", cartID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return cart.Cart{}, err
	}
	return out, nil
}

// GetCartItems fetches the cart's items with smartphones attached.
func (c *Client) GetCartItems(ctx context.Context, token string, cartID int64) ([]cart.CartItem, error) {
	var out []cart.CartItem
	path := fmt.Sprintf("/api/v1/carts/%d/items", cartID)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart puts quantity units of a smartphone into the cart. If the
// smartphone is already there the quantities are merged server side.
// The returned item reflects the merged state.
func (c *Client) AddToCart(ctx context.Context, token string, cartID, smartphoneID int64, quantity int) (cart.CartItem, error) {
	in := map[string]any{"smartphone_id": smartphoneID, "quantity": quantity}
	var out cart.CartItem
	path := fmt.Sprintf("/api/v1/carts/%d/items", cartID)
	if err := c.do(ctx, http.MethodPost, path, token, in, &out); err != nil {
		return cart.CartItem{}, err
	}
	return out, nil
}

// SetCartItemQuantity replaces the item's quantity. Quantities below 1
// are rejected by the server; use RemoveFromCart instead.
func (c *Client) SetCartItemQuantity(ctx context.Context, token string, cartID, itemID int64, quantity int) (cart.CartItem, error) {
	in := map[string]int{"quantity": quantity}
	var out cart.CartItem
	path := fmt.Sprintf("/api/v1/carts/%d/items/%d", cartID, itemID)
	if err := c.do(ctx, http.MethodPatch, path, token, in, &out); err != nil {
		return cart.CartItem{}, err
	}
	return out, nil
}

// RemoveFromCart deletes an item and returns its last state.
func (c *Client) RemoveFromCart(ctx context.Context, token string, cartID, itemID int64) (cart.CartItem, error) {
	var out cart.CartItem
	path := fmt.Sprintf("/api/v1/carts/%d/items/%d", cartID, itemID)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, &out); err != nil {
		return cart.CartItem{}, err
	}
	return out, nil
}
