package domain

import (
	"errors"
	"time"
)

var ErrDeliveryFailed = errors.New("order message delivery failed")

// Delivery is what the messaging collaborator receives.
type Delivery struct {
	Destination string
	Message     string
}

// Receipt describes how a delivery was handed off.
type Receipt struct {
	Channel   string
	Reference string
	// URL is set when the customer completes the hand-off themselves, e.g. a chat deep link.
	URL string
}

// Lead records a submitted order for the operator dashboard.
type Lead struct {
	ID          string
	OperatorID  string
	SessionID   string
	Destination string
	Message     string
	TotalMinor  int64
	ItemCount   int
	Channel     string
	Reference   string
	SubmittedAt time.Time
}
