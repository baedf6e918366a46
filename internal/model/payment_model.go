package model

import "time"

const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
	PaymentFailed  = "Failed"
)

type Payment struct {
	ID          string    `json:"_id"`
	OrderID     string    `json:"order"`
	Amount      float64   `json:"amount"`
	Provider    string    `json:"provider"`
	ExternalRef string    `json:"external_ref"`
	Status      string    `json:"status"`
	Payload     []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
