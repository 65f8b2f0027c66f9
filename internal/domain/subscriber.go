package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a newsletter recipient. Email is unique; only subscribers
// with IsSubscribed = true are eligible recipients at the moment a dispatch
// builds its batches (a mid-batch unsubscribe does not recall an in-flight
// send).
type Subscriber struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	IsSubscribed bool      `json:"is_subscribed"`
	SubscribedAt time.Time `json:"subscribed_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
