package smartphones

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
)

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

// List serves the catalog. With ?ids=1,2,3 only the named smartphones
// are returned, preserving request order.
func (h *Handler) List(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		phones, err := h.store.GetSmartphones(c.Request.Context())
		if err != nil {
			apperrors.JSON(c, fmt.Errorf("error getting smartphones: %w", err))
			return
		}
		c.JSON(http.StatusOK, phones)
		return
	}

	var ids []int64
	for _, part := range strings.Split(idsParam, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			apperrors.JSON(c, fmt.Errorf("%w: bad id %q: %w", apperrors.ErrBadRequest, part, err))
			return
		}
		ids = append(ids, id)
	}
	phones, err := h.store.GetSmartphonesByIDs(c.Request.Context(), ids)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting smartphones by ids: %w", err))
		return
	}
	c.JSON(http.StatusOK, phones)
}

// Get returns one smartphone with its reviews embedded.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("smartphone_id"), 10, 64)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: bad smartphone id: %w", apperrors.ErrBadRequest, err))
		return
	}
	phone, err := h.store.GetSmartphone(c.Request.Context(), id)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting smartphone %d: %w", id, err))
		return
	}
	reviews, err := h.store.GetReviews(c.Request.Context(), id)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting reviews for smartphone %d: %w", id, err))
		return
	}
	phone.Reviews = reviews
	c.JSON(http.StatusOK, phone)
}
