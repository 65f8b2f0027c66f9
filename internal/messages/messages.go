// Package messages builds the outbound notification emails: subject lines,
// HTML and plain-text bodies, and the canonical post/unsubscribe URLs that
// get embedded in them.
package messages

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/ledgerpress/notifier/internal/domain"
)

var newPostTmpl = template.Must(template.New("new_post").Parse(newPostHTML))

// Subject returns the notification subject for a post.
func Subject(title string) string {
	return fmt.Sprintf(NewPostSubject, title)
}

// PostURL returns the canonical public URL of a post.
func PostURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/posts/" + slug
}

// UnsubscribeURL builds the per-recipient unsubscribe link. The email is
// URL-encoded, and the subscriber ID rides along so the unsubscribe handler
// matches on both rather than trusting the address alone. Deterministic,
// no I/O.
func UnsubscribeURL(baseURL, email, subscriberID string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("id", subscriberID)
	return strings.TrimRight(baseURL, "/") + "/unsubscribe?" + q.Encode()
}

type newPostData struct {
	Title          string
	Excerpt        string
	AuthorName     string
	CategoryName   string
	PostURL        string
	UnsubscribeURL string
}

// NewPostHTML renders the HTML body of the new-post notification.
func NewPostHTML(post domain.Post, postURL, unsubscribeURL string) (string, error) {
	var b strings.Builder
	err := newPostTmpl.Execute(&b, newPostData{
		Title:          post.Title,
		Excerpt:        post.Excerpt,
		AuthorName:     post.AuthorName,
		CategoryName:   post.CategoryName,
		PostURL:        postURL,
		UnsubscribeURL: unsubscribeURL,
	})
	if err != nil {
		return "", fmt.Errorf("render new-post email: %w", err)
	}
	return b.String(), nil
}

// NewPostText renders the plain-text alternative body.
func NewPostText(post domain.Post, postURL, unsubscribeURL string) string {
	var b strings.Builder
	b.WriteString(post.Title + "\n\n")
	if post.Excerpt != "" {
		b.WriteString(post.Excerpt + "\n\n")
	}
	if post.AuthorName != "" {
		b.WriteString("By " + post.AuthorName)
		if post.CategoryName != "" {
			b.WriteString(" · " + post.CategoryName)
		}
		b.WriteString("\n\n")
	} else if post.CategoryName != "" {
		b.WriteString(post.CategoryName + "\n\n")
	}
	b.WriteString("Read the full post: " + postURL + "\n\n")
	b.WriteString("Unsubscribe: " + unsubscribeURL + "\n")
	return b.String()
}
