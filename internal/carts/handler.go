package carts

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/cart"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
)

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

type addItemReq struct {
	SmartphoneID int64 `json:"smartphone_id" binding:"required"`
	Quantity     int   `json:"quantity"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity" binding:"required"`
}

// List serves GET /carts. With ?user_id= it returns that user's cart
// (self or admin); without it, the full listing for admins.
func (h *Handler) List(c *gin.Context) {
	if c.Query("user_id") != "" {
		h.getByUserID(c)
		return
	}
	_, role := auth.Identity(c)
	if role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return
	}
	carts, err := h.store.GetCarts(c.Request.Context())
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting carts: %w", err))
		return
	}
	c.JSON(http.StatusOK, carts)
}

func (h *Handler) getByUserID(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad user id: %w", apperrors.ErrBadRequest, err))
		return
	}
	requesterID, role := auth.Identity(c)
	if targetID != requesterID && role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return
	}
	ctx := c.Request.Context()
	crt, err := h.store.GetCartByUserID(ctx, targetID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart of user %d: %w", targetID, err))
		return
	}
	items, err := h.store.GetCartItems(ctx, crt.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting items for cart %d: %w", crt.ID, err))
		return
	}
	crt.Items = items
	c.JSON(http.StatusOK, crt)
}

func (h *Handler) Get(c *gin.Context) {
	crt, ok := h.authorizeCart(c)
	if !ok {
		return
	}
	items, err := h.store.GetCartItems(c.Request.Context(), crt.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting items for cart %d: %w", crt.ID, err))
		return
	}
	crt.Items = items
	c.JSON(http.StatusOK, crt)
}

func (h *Handler) GetItems(c *gin.Context) {
	crt, ok := h.authorizeCart(c)
	if !ok {
		return
	}
	items, err := h.store.GetCartItems(c.Request.Context(), crt.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting items for cart %d: %w", crt.ID, err))
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddItem(c *gin.Context) {
	crt, ok := h.authorizeCart(c)
	if !ok {
		return
	}
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding cart item: %w", apperrors.ErrBadRequest, err))
		return
	}
	item := cart.CartItem{CartID: crt.ID, SmartphoneID: req.SmartphoneID, Quantity: req.Quantity}
	added, err := h.store.AddToCart(c.Request.Context(), item)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error adding item to cart %d: %w", crt.ID, err))
		return
	}
	c.JSON(http.StatusCreated, added)
}

func (h *Handler) SetQuantity(c *gin.Context) {
	crt, ok := h.authorizeCart(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad item id: %w", apperrors.ErrBadRequest, err))
		return
	}
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding quantity: %w", apperrors.ErrBadRequest, err))
		return
	}
	if req.Quantity < 1 {
		apperrors.JSON(c, fmt.Errorf("%w: quantity must be a positive integer", apperrors.ErrBadRequest))
		return
	}
	item := cart.CartItem{ID: itemID, CartID: crt.ID, Quantity: req.Quantity}
	updated, err := h.store.SetQuantity(c.Request.Context(), item)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error updating cart item %d: %w", itemID, err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	crt, ok := h.authorizeCart(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad item id: %w", apperrors.ErrBadRequest, err))
		return
	}
	deleted, err := h.store.DeleteFromCart(c.Request.Context(), crt.ID, itemID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error deleting cart item %d: %w", itemID, err))
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// authorizeCart loads the cart from the path and enforces owner-or-
// admin access. It writes the error response itself on failure.
func (h *Handler) authorizeCart(c *gin.Context) (cart.Cart, bool) {
	cartID, err := strconv.ParseInt(c.Param("cart_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad cart id: %w", apperrors.ErrBadRequest, err))
		return cart.Cart{}, false
	}
	crt, err := h.store.GetCart(c.Request.Context(), cartID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting cart %d: %w", cartID, err))
		return cart.Cart{}, false
	}
	userID, role := auth.Identity(c)
	if crt.UserID != userID && role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return cart.Cart{}, false
	}
	return crt, true
}
