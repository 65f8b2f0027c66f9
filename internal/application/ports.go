package application

import (
	"context"
	"time"

	"github.com/ledgerpress/notifier/internal/domain"
)

// Mailer is the port for the transactional email provider. One call carries
// exactly one recipient; the workflow never uses a provider batch API
// because every message embeds a recipient-specific unsubscribe link.
// The default implementation lives in infrastructure/resend.
type Mailer interface {
	Send(ctx context.Context, email domain.Email) error
}

// DispatchEvent is the summary broadcast to connected admin clients when a
// dispatch run finishes.
type DispatchEvent struct {
	PostID           string    `json:"post_id"`
	Title            string    `json:"title"`
	TotalSubscribers int       `json:"total_subscribers"`
	EmailsSent       int       `json:"emails_sent"`
	Failed           int       `json:"failed"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Hub is the interface for broadcasting dispatch summaries to connected SSE
// clients. Implementation lives in transport/http/sse_hub.go.
type Hub interface {
	Broadcast(event DispatchEvent)
}

// Sleeper is the pacing seam between batches. Tests substitute a recording
// implementation so batch pacing is observable without real time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// TimerSleeper sleeps on a real timer, returning early if ctx is cancelled.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
