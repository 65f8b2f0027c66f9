package resend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ledgerpress/notifier/internal/domain"
	"github.com/ledgerpress/notifier/internal/infrastructure/resend"
)

func TestSend_SingleRecipientRequest(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
		Text    string   `json:"text"`
	}
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	c := resend.NewWithBaseURL("re_test_key", srv.URL)
	err := c.Send(context.Background(), domain.Email{
		From:    "LedgerPress <newsletter@ledgerpress.io>",
		To:      "reader@example.com",
		Subject: "New post: Q3 Market Recap",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	})
	if err != nil {
		t.Fatal(err)
	}

	if auth != "Bearer re_test_key" {
		t.Fatalf("authorization = %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "reader@example.com" {
		t.Fatalf("to = %v, want exactly one recipient", got.To)
	}
	if got.Subject != "New post: Q3 Market Recap" {
		t.Fatalf("subject = %q", got.Subject)
	}
}

func TestSend_ProviderErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"validation_error","message":"Invalid to address"}`))
	}))
	defer srv.Close()

	c := resend.NewWithBaseURL("re_test_key", srv.URL)
	err := c.Send(context.Background(), domain.Email{To: "bad", Subject: "s", HTML: "<p>x</p>"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "Invalid to address") {
		t.Fatalf("error must carry the provider message, got %q", err)
	}
}
