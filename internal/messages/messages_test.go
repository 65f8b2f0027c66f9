package messages_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/ledgerpress/notifier/internal/domain"
	"github.com/ledgerpress/notifier/internal/messages"
)

func TestUnsubscribeURL_RoundTrip(t *testing.T) {
	raw := messages.UnsubscribeURL("https://ledgerpress.io", "a@b.com", "42")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unsubscribe URL does not parse: %v", err)
	}
	if u.Path != "/unsubscribe" {
		t.Fatalf("unexpected path %q", u.Path)
	}
	q := u.Query()
	if q.Get("email") != "a@b.com" {
		t.Fatalf("email did not round-trip: %q", q.Get("email"))
	}
	if q.Get("id") != "42" {
		t.Fatalf("id did not round-trip: %q", q.Get("id"))
	}
}

func TestUnsubscribeURL_EncodesEmail(t *testing.T) {
	raw := messages.UnsubscribeURL("https://ledgerpress.io/", "reader+tag@example.com", "7")
	if strings.Contains(raw, "reader+tag@") {
		t.Fatal("email must be URL-encoded in the link")
	}
	u, _ := url.Parse(raw)
	if got := u.Query().Get("email"); got != "reader+tag@example.com" {
		t.Fatalf("decoded email = %q", got)
	}
}

func TestSubject(t *testing.T) {
	if got := messages.Subject("Q3 Market Recap"); got != "New post: Q3 Market Recap" {
		t.Fatalf("subject = %q", got)
	}
}

func TestPostURL_TrimsTrailingSlash(t *testing.T) {
	if got := messages.PostURL("https://ledgerpress.io/", "q3-recap"); got != "https://ledgerpress.io/posts/q3-recap" {
		t.Fatalf("post URL = %q", got)
	}
}

func TestNewPostBodies(t *testing.T) {
	post := domain.Post{
		Title:        "Q3 Market Recap",
		Slug:         "q3-recap",
		Excerpt:      "Rates, earnings, and what comes next.",
		AuthorName:   "Dana Cole",
		CategoryName: "Markets",
	}
	postURL := "https://ledgerpress.io/posts/q3-recap"
	unsubURL := "https://ledgerpress.io/unsubscribe?email=a%40b.com&id=42"

	html, err := messages.NewPostHTML(post, postURL, unsubURL)
	if err != nil {
		t.Fatal(err)
	}
	// The template escapes & inside attributes, so assert URL pieces rather
	// than the full query string.
	for _, want := range []string{post.Title, post.Excerpt, post.AuthorName, post.CategoryName, postURL, "/unsubscribe?", "email=a%40b.com", "id=42"} {
		if !strings.Contains(html, want) {
			t.Fatalf("HTML body missing %q", want)
		}
	}

	text := messages.NewPostText(post, postURL, unsubURL)
	for _, want := range []string{post.Title, post.Excerpt, "By Dana Cole", "Markets", postURL, unsubURL} {
		if !strings.Contains(text, want) {
			t.Fatalf("text body missing %q", want)
		}
	}
}

func TestNewPostBodies_OptionalFieldsCollapse(t *testing.T) {
	post := domain.Post{Title: "Untitled Memo", Slug: "untitled-memo"}

	html, err := messages.NewPostHTML(post, "https://x/posts/untitled-memo", "https://x/unsubscribe?id=1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "By ") {
		t.Fatal("HTML body must not render an empty author line")
	}

	text := messages.NewPostText(post, "https://x/posts/untitled-memo", "https://x/unsubscribe?id=1")
	if strings.Contains(text, "By ") {
		t.Fatal("text body must not render an empty author line")
	}
}

func TestNewPostHTML_EscapesTitle(t *testing.T) {
	post := domain.Post{Title: `Bonds <are> "back"`, Slug: "bonds"}
	html, err := messages.NewPostHTML(post, "https://x/posts/bonds", "https://x/unsubscribe?id=1")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<are>") {
		t.Fatal("title must be HTML-escaped")
	}
}
