package model

import "time"

type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"product"`
	UserID    string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
