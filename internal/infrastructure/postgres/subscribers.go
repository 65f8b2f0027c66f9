package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpress/notifier/internal/domain"
)

// SubscriberStore is the PostgreSQL implementation of domain.SubscriberStore.
type SubscriberStore struct {
	pool *pgxpool.Pool
}

// NewSubscriberStore creates a postgres SubscriberStore.
func NewSubscriberStore(pool *pgxpool.Pool) *SubscriberStore {
	return &SubscriberStore{pool: pool}
}

// ListSubscribed returns every active subscriber, oldest first.
func (s *SubscriberStore) ListSubscribed(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, is_subscribed, subscribed_at, updated_at
		FROM subscribers
		WHERE is_subscribed = TRUE
		ORDER BY subscribed_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.IsSubscribed, &sub.SubscribedAt, &sub.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// CountSubscribed returns the number of active subscribers.
func (s *SubscriberStore) CountSubscribed(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscribers WHERE is_subscribed = TRUE`,
	).Scan(&count)
	return count, err
}

// Subscribe inserts a subscriber, reactivating an existing row with the
// same email (resubscribe after unsubscribe). The xmax = 0 check tells an
// insert apart from a conflict update.
func (s *SubscriberStore) Subscribe(ctx context.Context, email string) (*domain.Subscriber, bool, error) {
	var (
		sub     domain.Subscriber
		created bool
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO subscribers (email, is_subscribed)
		VALUES ($1, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_subscribed = TRUE, updated_at = NOW()
		RETURNING id, email, is_subscribed, subscribed_at, updated_at, (xmax = 0)
	`, email).Scan(&sub.ID, &sub.Email, &sub.IsSubscribed, &sub.SubscribedAt, &sub.UpdatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("upsert subscriber: %w", err)
	}
	return &sub, created, nil
}

// Unsubscribe deactivates the subscriber matching both id and email, the
// pair encoded in every unsubscribe link.
func (s *SubscriberStore) Unsubscribe(ctx context.Context, id uuid.UUID, email string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscribers SET is_subscribed = FALSE, updated_at = NOW()
		WHERE id = $1 AND email = $2
	`, id, email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
