package model

import "time"

type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"-"`
	Quantity    int     `json:"quantity"`
	Sold        int     `json:"sold"`
	Shipping    bool    `json:"shipping"`

	// Photo bytes are only loaded by the photo endpoint; list and read
	// queries leave them nil.
	Photo     []byte `json:"-"`
	PhotoType string `json:"-"`

	Category *Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
