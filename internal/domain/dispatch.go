package domain

// SendFailure records one recipient whose email send failed. Failures are
// captured, never retried, and never abort the rest of the run.
type SendFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// DispatchResult is the outcome of one notification dispatch for one post.
// Success means at least one email went out (or the run was a deliberate
// no-op); it does not require that every send succeeded. PostUpdated reports
// whether the notification_sent flag was actually flipped by this run.
type DispatchResult struct {
	Success          bool          `json:"success"`
	TotalSubscribers int           `json:"total_subscribers"`
	EmailsSent       int           `json:"emails_sent"`
	Failures         []SendFailure `json:"failures,omitempty"`
	PostUpdated      bool          `json:"post_updated"`
}

// DispatchRequest is the trigger DTO produced by publish-event handlers.
// The consumer evaluates ShouldNotify against the transition it carries
// before invoking the dispatcher.
type DispatchRequest struct {
	Post           Post
	PreviousStatus PostStatus
	IsNew          bool
	SourceEventID  string
}

// Email is a single-recipient transactional message. The workflow always
// sends one call per recipient so every message carries a unique
// unsubscribe link.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}
