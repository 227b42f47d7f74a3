package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
)

func (m *Memory) GetCarts(ctx context.Context) ([]cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]cart.Cart, 0, len(m.carts))
	for _, c := range m.carts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetCart(ctx context.Context, id int64) (cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[id]
	if !ok {
		return cart.Cart{}, fmt.Errorf("cart %d: %w", id, apperrors.ErrNotFound)
	}
	return c, nil
}

func (m *Memory) GetCartByUserID(ctx context.Context, userID int64) (cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	return cart.Cart{}, fmt.Errorf("cart of user %d: %w", userID, apperrors.ErrNotFound)
}

func (m *Memory) GetCartItem(ctx context.Context, id int64) (cart.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.cartItems[id]
	if !ok {
		return cart.CartItem{}, fmt.Errorf("cart item %d: %w", id, apperrors.ErrNotFound)
	}
	return m.withSmartphone(it), nil
}

// GetCartItems returns items with smartphone details attached so
// clients can render a cart without a second round trip.
func (m *Memory) GetCartItems(ctx context.Context, cartID int64) ([]cart.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.carts[cartID]; !ok {
		return nil, fmt.Errorf("cart %d: %w", cartID, apperrors.ErrNotFound)
	}
	out := []cart.CartItem{}
	for _, it := range m.cartItems {
		if it.CartID == cartID {
			out = append(out, m.withSmartphone(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) AddToCart(ctx context.Context, item cart.CartItem) (cart.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[item.CartID]; !ok {
		return cart.CartItem{}, fmt.Errorf("cart %d: %w", item.CartID, apperrors.ErrNotFound)
	}
	if _, ok := m.smartphones[item.SmartphoneID]; !ok {
		return cart.CartItem{}, fmt.Errorf("smartphone %d: %w", item.SmartphoneID, apperrors.ErrNotFound)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	// merge policy: one row per smartphone, quantities accumulate
	for id, existing := range m.cartItems {
		if existing.CartID == item.CartID && existing.SmartphoneID == item.SmartphoneID {
			existing.Quantity += item.Quantity
			m.cartItems[id] = existing
			m.touchCart(item.CartID)
			return m.withSmartphone(existing), nil
		}
	}
	m.itemSeq++
	item.ID = m.itemSeq
	item.Smartphone = nil
	m.cartItems[item.ID] = item
	m.touchCart(item.CartID)
	return m.withSmartphone(item), nil
}

func (m *Memory) SetQuantity(ctx context.Context, item cart.CartItem) (cart.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cartItems[item.ID]
	if !ok || existing.CartID != item.CartID {
		return cart.CartItem{}, fmt.Errorf("cart item %d: %w", item.ID, apperrors.ErrNotFound)
	}
	if item.Quantity < 1 {
		return cart.CartItem{}, fmt.Errorf("quantity must be positive: %w", apperrors.ErrBadRequest)
	}
	existing.Quantity = item.Quantity
	m.cartItems[existing.ID] = existing
	m.touchCart(existing.CartID)
	return m.withSmartphone(existing), nil
}

func (m *Memory) DeleteFromCart(ctx context.Context, cartID, itemID int64) (cart.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cartItems[itemID]
	if !ok || existing.CartID != cartID {
		return cart.CartItem{}, fmt.Errorf("cart item %d: %w", itemID, apperrors.ErrNotFound)
	}
	delete(m.cartItems, itemID)
	m.touchCart(cartID)
	return existing, nil
}

func (m *Memory) withSmartphone(it cart.CartItem) cart.CartItem {
	if s, ok := m.smartphones[it.SmartphoneID]; ok {
		it.Smartphone = &s
	}
	return it
}

func (m *Memory) touchCart(cartID int64) {
	if c, ok := m.carts[cartID]; ok {
		c.UpdatedAt = now()
		m.carts[cartID] = c
	}
}
