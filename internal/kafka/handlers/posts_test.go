package handlers

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ledgerpress/notifier/internal/domain"
)

func TestHandlePostPublished(t *testing.T) {
	id := uuid.NewString()
	payload := []byte(`{
		"eventType": "POST_PUBLISHED",
		"eventId": "evt-42",
		"payload": {
			"id": "` + id + `",
			"title": "Q3 Market Recap",
			"slug": "q3-recap",
			"excerpt": "Rates and earnings.",
			"authorName": "Dana Cole",
			"categoryName": "Markets",
			"previousStatus": "draft",
			"isNew": false,
			"notificationSent": false
		}
	}`)

	req := handlePostPublished(payload)
	if req == nil {
		t.Fatal("expected a dispatch request")
	}
	if req.Post.ID.String() != id || req.Post.Slug != "q3-recap" {
		t.Fatalf("post = %+v", req.Post)
	}
	if req.Post.Status != domain.StatusPublished {
		t.Fatal("event posts are always published")
	}
	if req.PreviousStatus != domain.StatusDraft || req.IsNew {
		t.Fatalf("transition = prev %q isNew %v", req.PreviousStatus, req.IsNew)
	}
	if req.SourceEventID != "evt-42" {
		t.Fatalf("source event id = %q", req.SourceEventID)
	}
	if !domain.ShouldNotify(req.PreviousStatus, req.Post.Status, req.IsNew, req.Post.NotificationSent) {
		t.Fatal("a draft -> published event must pass the gate")
	}
}

func TestHandlePostPublished_RejectsMalformedPayloads(t *testing.T) {
	cases := map[string][]byte{
		"invalid json": []byte("not json"),
		"bad uuid":     []byte(`{"payload":{"id":"nope","title":"t","slug":"s"}}`),
		"missing slug": []byte(`{"payload":{"id":"` + uuid.NewString() + `","title":"t"}}`),
	}
	for name, data := range cases {
		if req := handlePostPublished(data); req != nil {
			t.Fatalf("%s: expected nil, got %+v", name, req)
		}
	}
}
