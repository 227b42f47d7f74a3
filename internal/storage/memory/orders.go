package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
)

func (m *Memory) CreateOrderFromCart(ctx context.Context, userID int64) (order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var cartID int64
	found := false
	for _, c := range m.carts {
		if c.UserID == userID {
			cartID = c.ID
			found = true
			break
		}
	}
	if !found {
		return order.Order{}, fmt.Errorf("cart of user %d: %w", userID, apperrors.ErrNotFound)
	}

	var itemIDs []int64
	for id, it := range m.cartItems {
		if it.CartID == cartID {
			itemIDs = append(itemIDs, id)
		}
	}
	if len(itemIDs) == 0 {
		return order.Order{}, fmt.Errorf("cart %d is empty: %w", cartID, apperrors.ErrBadRequest)
	}
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	m.orderSeq++
	ord := order.Order{
		ID:        m.orderSeq,
		Reference: uuid.NewString(),
		UserID:    userID,
		Status:    order.StatusPending,
		CreatedAt: now(),
	}
	ord.UpdatedAt = ord.CreatedAt
	for _, id := range itemIDs {
		it := m.cartItems[id]
		s, ok := m.smartphones[it.SmartphoneID]
		if !ok {
			continue
		}
		m.orderItemSeq++
		ord.Items = append(ord.Items, order.OrderItem{
			ID:           m.orderItemSeq,
			OrderID:      ord.ID,
			SmartphoneID: it.SmartphoneID,
			Quantity:     it.Quantity,
			Price:        s.Price,
			Smartphone:   &s,
		})
		ord.TotalAmount += s.Price * it.Quantity
		delete(m.cartItems, id)
	}
	m.touchCart(cartID)
	m.orders[ord.ID] = ord
	return ord, nil
}

func (m *Memory) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ord, ok := m.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
	}
	return ord, nil
}

func (m *Memory) GetOrders(ctx context.Context) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]order.Order, 0, len(m.orders))
	for _, ord := range m.orders {
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetOrdersByUserID(ctx context.Context, userID int64) ([]order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []order.Order{}
	for _, ord := range m.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ord, ok := m.orders[id]
	if !ok {
		return order.Order{}, fmt.Errorf("order %d: %w", id, apperrors.ErrNotFound)
	}
	ord.Status = status
	ord.UpdatedAt = now()
	m.orders[id] = ord
	return ord, nil
}
