package reviews

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SFU-teamproject/Smartbuy/internal/apperrors"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
	"github.com/SFU-teamproject/Smartbuy/internal/domain/user"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
)

type Handler struct {
	store storage.Store
}

func NewHandler(store storage.Store) *Handler {
	return &Handler{store: store}
}

type reviewReq struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

func (h *Handler) List(c *gin.Context) {
	smartphoneID, err := pathID(c, "smartphone_id")
	if err != nil {
		apperrors.JSON(c, err)
		return
	}
	reviews, err := h.store.GetReviews(c.Request.Context(), smartphoneID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting reviews: %w", err))
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) Get(c *gin.Context) {
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		apperrors.JSON(c, err)
		return
	}
	rv, err := h.store.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting review %d: %w", reviewID, err))
		return
	}
	c.JSON(http.StatusOK, rv)
}

func (h *Handler) Create(c *gin.Context) {
	smartphoneID, err := pathID(c, "smartphone_id")
	if err != nil {
		apperrors.JSON(c, err)
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding review: %w", apperrors.ErrBadRequest, err))
		return
	}
	if !review.ValidRating(req.Rating) {
		apperrors.JSON(c, fmt.Errorf("%w: rating must be between %d and %d",
			apperrors.ErrBadRequest, review.MinRating, review.MaxRating))
		return
	}
	userID, _ := auth.Identity(c)
	created, err := h.store.CreateReview(c.Request.Context(), review.Review{
		SmartphoneID: smartphoneID,
		UserID:       userID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error creating review: %w", err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c *gin.Context) {
	rv, ok := h.authorizeReview(c)
	if !ok {
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.JSON(c, fmt.Errorf("%w: error decoding review: %w", apperrors.ErrBadRequest, err))
		return
	}
	if !review.ValidRating(req.Rating) {
		apperrors.JSON(c, fmt.Errorf("%w: rating must be between %d and %d",
			apperrors.ErrBadRequest, review.MinRating, review.MaxRating))
		return
	}
	rv.Rating = req.Rating
	rv.Comment = req.Comment
	updated, err := h.store.UpdateReview(c.Request.Context(), rv)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error updating review %d: %w", rv.ID, err))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) Delete(c *gin.Context) {
	rv, ok := h.authorizeReview(c)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteReview(c.Request.Context(), rv.ID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error deleting review %d: %w", rv.ID, err))
		return
	}
	c.JSON(http.StatusOK, deleted)
}

// authorizeReview loads the review and enforces author-or-admin.
func (h *Handler) authorizeReview(c *gin.Context) (review.Review, bool) {
	reviewID, err := pathID(c, "review_id")
	if err != nil {
		apperrors.JSON(c, err)
		return review.Review{}, false
	}
	rv, err := h.store.GetReview(c.Request.Context(), reviewID)
	if err != nil {
		apperrors.JSON(c, fmt.Errorf("error getting review %d: %w", reviewID, err))
		return review.Review{}, false
	}
	userID, role := auth.Identity(c)
	if rv.UserID != userID && role != user.RoleAdmin {
		apperrors.JSON(c, apperrors.ErrForbidden)
		return review.Review{}, false
	}
	return rv, true
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s: %w", apperrors.ErrBadRequest, name, err)
	}
	return id, nil
}
