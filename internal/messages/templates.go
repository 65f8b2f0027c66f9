package messages

// ─── Subject lines ───────────────────────────────────────────────────────────

const (
	NewPostSubject = "New post: %s"
)

// ─── HTML body ───────────────────────────────────────────────────────────────

// newPostHTML renders the notification email body. Optional sections
// (excerpt, author, category) collapse when their field is empty.
const newPostHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: Georgia, serif; color: #1a2332; max-width: 600px; margin: 0 auto; padding: 24px;">
    <h1 style="font-size: 22px;">{{.Title}}</h1>
    {{- if .Excerpt}}
    <p style="font-size: 16px; line-height: 1.5;">{{.Excerpt}}</p>
    {{- end}}
    <p style="font-size: 14px; color: #5a6472;">
      {{- if .AuthorName}}By {{.AuthorName}}{{end}}
      {{- if .CategoryName}}{{if .AuthorName}} · {{end}}{{.CategoryName}}{{end}}
    </p>
    <p>
      <a href="{{.PostURL}}" style="display: inline-block; background: #1a2332; color: #ffffff; padding: 10px 20px; text-decoration: none;">Read the full post</a>
    </p>
    <hr style="border: none; border-top: 1px solid #e2e6ea; margin: 32px 0 16px;">
    <p style="font-size: 12px; color: #8a93a0;">
      You are receiving this because you subscribed to new-post updates.
      <a href="{{.UnsubscribeURL}}" style="color: #8a93a0;">Unsubscribe</a>
    </p>
  </body>
</html>
`
