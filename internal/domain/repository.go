package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// PostStore is the port for the posts table.
// Implementations live in infrastructure/postgres.
type PostStore interface {
	// GetByID fetches a post with its resolved author and category names.
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// MarkNotified flips notification_sent to true, conditionally: the
	// update only applies while the flag is still false, so two racing
	// dispatches cannot both claim the write. Returns whether this call
	// changed the row.
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// SubscriberStore is the port for the subscribers table.
type SubscriberStore interface {
	// ListSubscribed returns all subscribers with is_subscribed = true.
	ListSubscribed(ctx context.Context) ([]Subscriber, error)

	// CountSubscribed returns the number of active subscribers.
	CountSubscribed(ctx context.Context) (int64, error)

	// Subscribe creates a subscriber, or reactivates an existing one with
	// the same email. The bool reports whether a new row was created.
	Subscribe(ctx context.Context, email string) (*Subscriber, bool, error)

	// Unsubscribe deactivates the subscriber identified by both id and
	// email, as encoded in the unsubscribe link.
	Unsubscribe(ctx context.Context, id uuid.UUID, email string) error
}

// SettingStore is the port for the generic key-value settings table.
type SettingStore interface {
	// Get returns the raw string value for key, and whether the row exists.
	Get(ctx context.Context, key string) (string, bool, error)
}
