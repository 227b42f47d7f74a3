package smartphone

import (
	"github.com/SFU-teamproject/Smartbuy/internal/domain/review"
)

type Smartphone struct {
	ID           int64           `json:"id"`
	Model        string          `json:"model"`
	Producer     string          `json:"producer"`
	Memory       int             `json:"memory"`
	Ram          int             `json:"ram"`
	DisplaySize  float64         `json:"display_size"`
	Price        int             `json:"price"`
	RatingsSum   int             `json:"ratings_sum"`
	RatingsCount int             `json:"ratings_count"`
	ImagePath    string          `json:"image_path,omitempty"`
	Description  string          `json:"description,omitempty"`
	Reviews      []review.Review `json:"reviews,omitempty"`
}

// AverageRating returns 0 when the smartphone has no ratings yet.
func (s Smartphone) AverageRating() float64 {
	if s.RatingsCount == 0 {
		return 0
	}
	return float64(s.RatingsSum) / float64(s.RatingsCount)
}
