package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           int64     `json:"id"`
	SmartphoneID int64     `json:"smartphone_id"`
	UserID       int64     `json:"user_id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
