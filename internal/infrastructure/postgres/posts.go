// Package postgres implements the domain store ports on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerpress/notifier/internal/domain"
)

// PostStore is the PostgreSQL implementation of domain.PostStore.
type PostStore struct {
	pool *pgxpool.Pool
}

// NewPostStore creates a postgres PostStore.
func NewPostStore(pool *pgxpool.Pool) *PostStore {
	return &PostStore{pool: pool}
}

// GetByID fetches a post with its author and category names resolved.
func (s *PostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	var (
		p            domain.Post
		excerpt      *string
		authorName   *string
		categoryName *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT p.id, p.title, p.slug, p.excerpt, p.status,
		       a.name, c.name,
		       p.published_at, p.notification_sent, p.notification_sent_at
		FROM posts p
		LEFT JOIN authors a ON a.id = p.author_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id).Scan(
		&p.ID, &p.Title, &p.Slug, &excerpt, &p.Status,
		&authorName, &categoryName,
		&p.PublishedAt, &p.NotificationSent, &p.NotificationSentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if excerpt != nil {
		p.Excerpt = *excerpt
	}
	if authorName != nil {
		p.AuthorName = *authorName
	}
	if categoryName != nil {
		p.CategoryName = *categoryName
	}
	return &p, nil
}

// MarkNotified sets the idempotency flag with a compare-and-swap on its
// current value, so a concurrent duplicate dispatch cannot flip it twice.
func (s *PostStore) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE posts SET notification_sent = TRUE, notification_sent_at = $1
		WHERE id = $2 AND notification_sent = FALSE
	`, at, id)
	if err != nil {
		return false, fmt.Errorf("mark post notified: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
