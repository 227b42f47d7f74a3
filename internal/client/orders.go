package client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
)

// OrderService covers order placement and history. Two implementations
// exist: LiveOrders talks to the API, MockOrders keeps everything in
// memory so the storefront works while the fulfilment backend is down
// or not deployed.
type OrderService interface {
	CreateOrder(ctx context.Context, token string, from cart.Cart) (order.Order, error)
	GetOrders(ctx context.Context, token string) ([]order.Order, error)
	GetOrderByID(ctx context.Context, token string, id int64) (order.Order, error)
	CancelOrder(ctx context.Context, token string, id int64) (order.Order, error)
}

// LiveOrders implements OrderService against the REST API.
type LiveOrders struct {
	Client *Client
}

func NewLiveOrders(c *Client) *LiveOrders {
	return &LiveOrders{Client: c}
}

// CreateOrder checks out the caller's server-side cart. The cart
// argument is ignored here, the server snapshots its own copy.
func (o *LiveOrders) CreateOrder(ctx context.Context, token string, _ cart.Cart) (order.Order, error) {
	var out order.Order
	if err := o.Client.do(ctx, http.MethodPost, "/api/v1/orders", token, nil, &out); err != nil {
		return order.Order{}, err
	}
	return out, nil
}

func (o *LiveOrders) GetOrders(ctx context.Context, token string) ([]order.Order, error) {
	var out []order.Order
	if err := o.Client.do(ctx, http.MethodGet, "/api/v1/orders", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *LiveOrders) GetOrderByID(ctx context.Context, token string, id int64) (order.Order, error) {
	var out order.Order
	path := fmt.Sprintf("/api/v1/orders/%d", id)
	if err := o.Client.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return order.Order{}, err
	}
	return out, nil
}

func (o *LiveOrders) CancelOrder(ctx context.Context, token string, id int64) (order.Order, error) {
	var out order.Order
	path := fmt.Sprintf("/api/v1/orders/%d/cancel", id)
	if err := o.Client.do(ctx, http.MethodPost, path, token, nil, &out); err != nil {
		return order.Order{}, err
	}
	return out, nil
}

// MockOrders is an in-memory OrderService. Orders are built from the
// cart snapshot the caller passes in and survive only for the process
// lifetime.
type MockOrders struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]order.Order
}

func NewMockOrders() *MockOrders {
	return &MockOrders{byID: make(map[int64]order.Order)}
}

// SeedDemo loads a small believable history for userID so the order
// screens have something to show before the first checkout.
func (o *MockOrders) SeedDemo(userID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fixtures := []struct {
		status     order.Status
		daysAgo    int
		smartphone int64
		quantity   int
		price      int
	}{
		{order.StatusDelivered, 21, 3, 1, 24990},
		{order.StatusProcessing, 2, 2, 1, 79990},
	}
	for _, f := range fixtures {
		o.seq++
		placed := time.Now().AddDate(0, 0, -f.daysAgo)
		o.byID[o.seq] = order.Order{
			ID:        o.seq,
			Reference: uuid.NewString(),
			UserID:    userID,
			Status:    f.status,
			Items: []order.OrderItem{{
				ID: 1, OrderID: o.seq, SmartphoneID: f.smartphone,
				Quantity: f.quantity, Price: f.price,
			}},
			TotalAmount: f.price * f.quantity,
			CreatedAt:   placed,
			UpdatedAt:   placed,
		}
	}
}

func (o *MockOrders) CreateOrder(_ context.Context, _ string, from cart.Cart) (order.Order, error) {
	if len(from.Items) == 0 {
		return order.Order{}, fmt.Errorf("%w: cart is empty", apperrors.ErrBadRequest)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	now := time.Now()
	ord := order.Order{
		ID:        o.seq,
		Reference: uuid.NewString(),
		UserID:    from.UserID,
		Status:    order.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range from.Items {
		price := 0
		if it.Smartphone != nil {
			price = it.Smartphone.Price
		}
		ord.Items = append(ord.Items, order.OrderItem{
			ID:           int64(len(ord.Items) + 1),
			OrderID:      ord.ID,
			SmartphoneID: it.SmartphoneID,
			Quantity:     it.Quantity,
			Price:        price,
			Smartphone:   it.Smartphone,
		})
		ord.TotalAmount += price * it.Quantity
	}
	o.byID[ord.ID] = ord
	return ord, nil
}

func (o *MockOrders) GetOrders(_ context.Context, _ string) ([]order.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]order.Order, 0, len(o.byID))
	for _, ord := range o.byID {
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (o *MockOrders) GetOrderByID(_ context.Context, _ string, id int64) (order.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ord, ok := o.byID[id]
	if !ok {
		return order.Order{}, fmt.Errorf("%w: order %d", apperrors.ErrNotFound, id)
	}
	return ord, nil
}

func (o *MockOrders) CancelOrder(_ context.Context, _ string, id int64) (order.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	ord, ok := o.byID[id]
	if !ok {
		return order.Order{}, fmt.Errorf("%w: order %d", apperrors.ErrNotFound, id)
	}
	if !ord.Status.CanTransitionTo(order.StatusCancelled) {
		return order.Order{}, fmt.Errorf("%w: cannot cancel order in status %s", apperrors.ErrBadRequest, ord.Status)
	}
	ord.Status = order.StatusCancelled
	ord.UpdatedAt = time.Now()
	o.byID[id] = ord
	return ord, nil
}
