package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the lifecycle state of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusArchived  PostStatus = "archived"
)

// Post is the subset of the CMS post record this service reads and writes.
// AuthorName and CategoryName are resolved names (empty when unset); the
// notification fields are mutated exclusively through PostStore.MarkNotified.
type Post struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Slug               string     `json:"slug"`
	Excerpt            string     `json:"excerpt,omitempty"`
	Status             PostStatus `json:"status"`
	AuthorName         string     `json:"author_name,omitempty"`
	CategoryName       string     `json:"category_name,omitempty"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	NotificationSent   bool       `json:"notification_sent"`
	NotificationSentAt *time.Time `json:"notification_sent_at,omitempty"`
}

// ShouldNotify is the eligibility gate for subscriber notification.
// It returns true only for a genuine transition into "published" on a post
// that has never been notified. Once NotificationSent is true the gate is
// permanently closed: editing or republishing never re-sends.
//
// Note that an edit save where the status stays "published" yields false,
// because previousStatus != published fails.
func ShouldNotify(previousStatus, newStatus PostStatus, isNewlyCreated, alreadyNotified bool) bool {
	if alreadyNotified {
		return false
	}
	if newStatus != StatusPublished {
		return false
	}
	return isNewlyCreated || previousStatus != StatusPublished
}
