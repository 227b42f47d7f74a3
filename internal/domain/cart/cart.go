package cart

import (
	"time"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `json:"items,omitempty"`
}

type CartItem struct {
	ID           int64                  `json:"id"`
	CartID       int64                  `json:"cart_id"`
	SmartphoneID int64                  `json:"smartphone_id"`
	Quantity     int                    `json:"quantity"`
	Smartphone   *smartphone.Smartphone `json:"smartphone,omitempty"`
}

// Total sums price*quantity over items whose smartphone details are loaded.
func (c Cart) Total() int {
	total := 0
	for _, it := range c.Items {
		if it.Smartphone != nil {
			total += it.Smartphone.Price * it.Quantity
		}
	}
	return total
}
