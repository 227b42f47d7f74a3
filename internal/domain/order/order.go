package order

import (
	"time"

	"github.com/SFU-teamproject/Smartbuy/internal/domain/smartphone"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo implements the order lifecycle:
// pending -> processing -> shipped -> delivered, with cancellation
// allowed from pending and processing only. Delivered and cancelled
// are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

type Order struct {
	ID          int64       `json:"id"`
	Reference   string      `json:"reference"`
	UserID      int64       `json:"user_id"`
	Status      Status      `json:"status"`
	TotalAmount int         `json:"total_amount"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID           int64                  `json:"id"`
	OrderID      int64                  `json:"order_id"`
	SmartphoneID int64                  `json:"smartphone_id"`
	Quantity     int                    `json:"quantity"`
	Price        int                    `json:"price"`
	Smartphone   *smartphone.Smartphone `json:"smartphone,omitempty"`
}
