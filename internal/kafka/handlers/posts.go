// Package handlers holds the per-topic Kafka event handlers. Each file
// registers its handlers in init(); the consumer imports this package blank.
package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ledgerpress/notifier/internal/domain"
	"github.com/ledgerpress/notifier/internal/kafka/registry"
)

func init() {
	registry.Register("post-events", "POST_PUBLISHED", handlePostPublished)
}

// postEnv is the CMS event envelope for post lifecycle events.
type postEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		ID               string `json:"id"`
		Title            string `json:"title"`
		Slug             string `json:"slug"`
		Excerpt          string `json:"excerpt"`
		AuthorName       string `json:"authorName"`
		CategoryName     string `json:"categoryName"`
		PreviousStatus   string `json:"previousStatus"`
		IsNew            bool   `json:"isNew"`
		NotificationSent bool   `json:"notificationSent"`
	} `json:"payload"`
}

// handlePostPublished turns a POST_PUBLISHED event into a DispatchRequest.
// The consumer still runs the eligibility gate; this handler only validates
// shape.
func handlePostPublished(data []byte) *domain.DispatchRequest {
	var env postEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	id, err := uuid.Parse(env.Payload.ID)
	if err != nil || env.Payload.Title == "" || env.Payload.Slug == "" {
		return nil
	}

	return &domain.DispatchRequest{
		Post: domain.Post{
			ID:               id,
			Title:            env.Payload.Title,
			Slug:             env.Payload.Slug,
			Excerpt:          env.Payload.Excerpt,
			Status:           domain.StatusPublished,
			AuthorName:       env.Payload.AuthorName,
			CategoryName:     env.Payload.CategoryName,
			NotificationSent: env.Payload.NotificationSent,
		},
		PreviousStatus: domain.PostStatus(env.Payload.PreviousStatus),
		IsNew:          env.Payload.IsNew,
		SourceEventID:  env.EventID,
	}
}
