package orders

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/order"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
)

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

// Create checks out the caller's cart into a new pending order.
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.Identity(c)
	ord, err := h.store.CreateOrderFromCart(c.Request.Context(), userID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error creating order for user %d: %w", userID, err))
		return
	}
	c.JSON(http.StatusCreated, ord)
}

// List returns the caller's orders; admins see all orders.
func (h *Handler) List(c *gin.Context) {
	userID, role := auth.Identity(c)
	var (
		out []order.Order
		err error
	)
	if role == user.RoleAdmin {
		out, err = h.store.GetOrders(c.Request.Context())
	} else {
		out, err = h.store.GetOrdersByUserID(c.Request.Context(), userID)
	}
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting orders: %w", err))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	ord, ok := h.authorizeOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ord)
}

// Cancel moves an order to cancelled if its current status allows it.
func (h *Handler) Cancel(c *gin.Context) {
	ord, ok := h.authorizeOrder(c)
	if !ok {
		return
	}
	if !ord.Status.CanTransitionTo(order.StatusCancelled) {
		apperrors.JSON(c, fmt.Errorf("%w: cannot cancel order in status %s",
			apperrors.ErrBadRequest, ord.Status))
		return
	}
	updated, err := h.store.UpdateOrderStatus(c.Request.Context(), ord.ID, order.StatusCancelled)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error cancelling order %d: %w", ord.ID, err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

type setStatusReq struct {
	Status order.Status `json:"status" binding:"required"`
}

// SetStatus is the admin fulfilment endpoint; transitions follow the
// order lifecycle strictly.
func (h *Handler) SetStatus(c *gin.Context) {
	ord, ok := h.authorizeOrder(c)
	if !ok {
		return
	}
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding status: %w", apperrors.ErrBadRequest, err))
		return
	}
	if !req.Status.Valid() {
		apperrors.JSON(c, fmt.Errorf("%w: unknown status %q", apperrors.ErrBadRequest, req.Status))
		return
	}
	if !ord.Status.CanTransitionTo(req.Status) {
		apperrors.JSON(c, fmt.Errorf("%w: cannot move order from %s to %s",
			apperrors.ErrBadRequest, ord.Status, req.Status))
		return
	}
	updated, err := h.store.UpdateOrderStatus(c.Request.Context(), ord.ID, req.Status)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error updating order %d: %w", ord.ID, err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) authorizeOrder(c *gin.Context) (order.Order, bool) {
	orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad order id: %w", apperrors.ErrBadRequest, err))
		return order.Order{}, false
	}
	ord, err := h.store.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting order %d: %w", orderID, err))
		return order.Order{}, false
	}
	userID, role := auth.Identity(c)
	if ord.UserID != userID && role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return order.Order{}, false
	}
	return ord, true
}
