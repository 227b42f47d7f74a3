package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
)

// GetReviews lists a smartphone's reviews.
func (c *Client) GetReviews(ctx context.Context, smartphoneID int64) ([]review.Review, error) {
	var out []review.Review
	path := fmt.Sprintf("/api/v1/smartphones/%d/reviews", smartphoneID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReview posts a review. One review per user per smartphone, a
// second attempt fails with 409.
func (c *Client) CreateReview(ctx context.Context, token string, smartphoneID int64, rating int, comment *string) (review.Review, error) {
	in := map[string]any{"rating": rating, "comment": comment}
	var out review.Review
	path := fmt.Sprintf("/api/v1/smartphones/%d/reviews", smartphoneID)
	if err := c.do(ctx, http.MethodPost, path, token, in, &out); err != nil {
		return review.Review{}, err
	}
	return out, nil
}

// UpdateReview replaces an existing review's rating and comment.
func (c *Client) UpdateReview(ctx context.Context, token string, smartphoneID, reviewID int64, rating int, comment *string) (review.Review, error) {
	in := map[string]any{"rating": rating, "comment": comment}
	var out review.Review
	path := fmt.Sprintf("/api/v1/smartphones/%d/reviews/%d", smartphoneID, reviewID)
	if err := c.do(ctx, http.MethodPatch, path, token, in, &out); err != nil {
		return review.Review{}, err
	}
	return out, nil
}

// DeleteReview removes a review. Author or admin only.
func (c *Client) DeleteReview(ctx context.Context, token string, smartphoneID, reviewID int64) (review.Review, error) {
	var out review.Review
	path := fmt.Sprintf("/api/v1/smartphones/%d/reviews/%d", smartphoneID, reviewID)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, &out); err != nil {
		return review.Review{}, err
	}
	return out, nil
}
