package model

import "time"

// OrderStatusValues lists the states an order moves through, in the order the
// admin dashboard presents them.
var OrderStatusValues = []string{
	"Not processed",
	"Processing",
	"Shipped",
	"Delivered",
	"Cancelled",
}

type OrderItem struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Count     int     `json:"count"`
}

type Order struct {
	ID            string      `json:"_id"`
	UserID        string      `json:"user"`
	Products      []OrderItem `json:"products"`
	TransactionID string      `json:"transaction_id"`
	Amount        float64     `json:"amount"`
	Address       string      `json:"address"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatusValues {
		if v == s {
			return true
		}
	}
	return false
}
