package model

import "time"

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxEmail is a persisted send intent. Mail is written here before any
// delivery attempt so a failed send never loses the message.
type OutboxEmail struct {
	ID        string
	Recipient string
	Subject   string
	Body      string
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}
