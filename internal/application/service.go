package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ledgerpress/notifier/internal/domain"
	"github.com/ledgerpress/notifier/internal/messages"
)

// Errors surfaced by the manual re-trigger path.
var (
	ErrNotPublished    = errors.New("post is not published")
	ErrAlreadyNotified = errors.New("post subscribers already notified")
	ErrInvalidEmail    = errors.New("invalid email address")
)

// Options tunes the fan-out. Zero values fall back to the defaults below.
type Options struct {
	// From is the sender address embedded in every outbound email,
	// e.g. "LedgerPress <newsletter@ledgerpress.io>".
	From string
	// BatchSize is the recipient ceiling per batch (provider limit).
	BatchSize int
	// BatchDelay is the pacing delay inserted between consecutive batches.
	BatchDelay time.Duration
	// MaxConcurrency bounds the parallel sends within one batch.
	MaxConcurrency int
	// Sleeper implements the inter-batch delay; defaults to a real timer.
	Sleeper Sleeper
}

const (
	defaultBatchSize      = 100
	defaultBatchDelay     = time.Second
	defaultMaxConcurrency = 10
)

// Service holds the notification use-cases: the post-publish dispatch
// fan-out, the manual admin re-trigger, notification stats, and the public
// subscribe/unsubscribe flows.
type Service struct {
	posts       domain.PostStore
	subscribers domain.SubscriberStore
	settings    domain.SettingStore
	mailer      Mailer
	hub         Hub
	opts        Options
}

// NewService creates the application Service. hub may be a no-op for tests.
func NewService(posts domain.PostStore, subscribers domain.SubscriberStore, settings domain.SettingStore, mailer Mailer, hub Hub, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = defaultBatchDelay
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.Sleeper == nil {
		opts.Sleeper = TimerSleeper{}
	}
	return &Service{
		posts:       posts,
		subscribers: subscribers,
		settings:    settings,
		mailer:      mailer,
		hub:         hub,
		opts:        opts,
	}
}

// Dispatch sends the new-post notification for a published post to every
// currently-subscribed reader. Individual send failures are captured and
// isolated; only a failure to read the setting or the subscriber list is
// returned as an error. Callers must gate the call on domain.ShouldNotify —
// Dispatch itself does not re-verify the post's status against the store.
//
// baseURL must be the trusted production origin: it is embedded in outbound
// email links and must never be derived from request headers.
func (s *Service) Dispatch(ctx context.Context, post domain.Post, baseURL string) (domain.DispatchResult, error) {
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("read notification settings: %w", err)
	}
	if !settings.EmailEnabled {
		log.Info().Str("post_id", post.ID.String()).Msg("email notifications disabled, skipping dispatch")
		return domain.DispatchResult{Success: true}, nil
	}

	subs, err := s.subscribers.ListSubscribed(ctx)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("list subscribers: %w", err)
	}
	if len(subs) == 0 {
		log.Info().Str("post_id", post.ID.String()).Msg("no active subscribers, skipping dispatch")
		return domain.DispatchResult{Success: true}, nil
	}

	result := domain.DispatchResult{TotalSubscribers: len(subs)}
	postURL := messages.PostURL(baseURL, post.Slug)

	var mu sync.Mutex
	for start := 0; start < len(subs); start += s.opts.BatchSize {
		if ctx.Err() != nil {
			// Stop issuing new batches; the previous batch has fully
			// joined, so the flag write-back below stays unambiguous.
			log.Warn().Str("post_id", post.ID.String()).Int("offset", start).
				Msg("dispatch cancelled, remaining batches skipped")
			break
		}
		if start > 0 {
			// Pacing between batches keeps us under provider rate limits.
			s.opts.Sleeper.Sleep(ctx, s.opts.BatchDelay)
			if ctx.Err() != nil {
				log.Warn().Str("post_id", post.ID.String()).Int("offset", start).
					Msg("dispatch cancelled, remaining batches skipped")
				break
			}
		}

		end := start + s.opts.BatchSize
		if end > len(subs) {
			end = len(subs)
		}
		batch := subs[start:end]

		var wg sync.WaitGroup
		sem := make(chan struct{}, s.opts.MaxConcurrency)
		for _, sub := range batch {
			wg.Add(1)
			sem <- struct{}{}
			go func(sub domain.Subscriber) {
				defer wg.Done()
				defer func() { <-sem }()

				if err := s.sendOne(ctx, post, sub, postURL, baseURL); err != nil {
					log.Warn().Err(err).Str("post_id", post.ID.String()).
						Str("recipient", sub.Email).Msg("notification send failed")
					mu.Lock()
					result.Failures = append(result.Failures, domain.SendFailure{
						Email: sub.Email,
						Error: err.Error(),
					})
					mu.Unlock()
					return
				}
				mu.Lock()
				result.EmailsSent++
				mu.Unlock()
			}(sub)
		}
		wg.Wait()
	}

	// Qualified success: at least one email went out.
	result.Success = len(result.Failures) < result.TotalSubscribers

	if result.Success && result.EmailsSent > 0 {
		updated, err := s.posts.MarkNotified(ctx, post.ID, time.Now())
		if err != nil {
			// Logged only: the dispatch outcome is already decided and the
			// gate remains closed on the next genuine publish transition.
			log.Error().Err(err).Str("post_id", post.ID.String()).
				Msg("failed to persist notification_sent flag")
		} else {
			result.PostUpdated = updated
		}
	}

	log.Info().
		Str("post_id", post.ID.String()).
		Int("total", result.TotalSubscribers).
		Int("sent", result.EmailsSent).
		Int("failed", len(result.Failures)).
		Bool("post_updated", result.PostUpdated).
		Msg("notification dispatch finished")

	if s.hub != nil {
		s.hub.Broadcast(DispatchEvent{
			PostID:           post.ID.String(),
			Title:            post.Title,
			TotalSubscribers: result.TotalSubscribers,
			EmailsSent:       result.EmailsSent,
			Failed:           len(result.Failures),
			FinishedAt:       time.Now(),
		})
	}

	return result, nil
}

// sendOne personalizes and sends the notification for a single recipient.
func (s *Service) sendOne(ctx context.Context, post domain.Post, sub domain.Subscriber, postURL, baseURL string) error {
	unsubURL := messages.UnsubscribeURL(baseURL, sub.Email, sub.ID.String())

	html, err := messages.NewPostHTML(post, postURL, unsubURL)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, domain.Email{
		From:    s.opts.From,
		To:      sub.Email,
		Subject: messages.Subject(post.Title),
		HTML:    html,
		Text:    messages.NewPostText(post, postURL, unsubURL),
	})
}

// Notify is the manual admin re-trigger: it loads the post, re-checks the
// eligibility gate, and dispatches. Unlike the event-driven path the
// previous status is unknown here, so the gate reduces to "published and
// never notified".
func (s *Service) Notify(ctx context.Context, postID uuid.UUID, baseURL string) (domain.DispatchResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return domain.DispatchResult{}, fmt.Errorf("load post %s: %w", postID, err)
	}
	if post.Status != domain.StatusPublished {
		return domain.DispatchResult{}, ErrNotPublished
	}
	if !domain.ShouldNotify(domain.StatusDraft, post.Status, false, post.NotificationSent) {
		return domain.DispatchResult{}, ErrAlreadyNotified
	}
	return s.Dispatch(ctx, *post, baseURL)
}

// NotificationStats is the admin dashboard view for one post.
type NotificationStats struct {
	PostID           string `json:"post_id"`
	TotalSubscribers int64  `json:"total_subscribers"`
	NotificationSent bool   `json:"notification_sent"`
	EmailEnabled     bool   `json:"email_enabled"`
}

// Stats reports subscriber count, flag state, and whether the email switch
// is on, for display next to the publish controls.
func (s *Service) Stats(ctx context.Context, postID uuid.UUID) (*NotificationStats, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post %s: %w", postID, err)
	}
	count, err := s.subscribers.CountSubscribed(ctx)
	if err != nil {
		return nil, fmt.Errorf("count subscribers: %w", err)
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read notification settings: %w", err)
	}
	return &NotificationStats{
		PostID:           post.ID.String(),
		TotalSubscribers: count,
		NotificationSent: post.NotificationSent,
		EmailEnabled:     settings.EmailEnabled,
	}, nil
}

// Subscribe validates the address and creates or reactivates a subscriber.
// The bool reports whether the subscriber is new rather than reactivated.
func (s *Service) Subscribe(ctx context.Context, email string) (*domain.Subscriber, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, false, ErrInvalidEmail
	}
	sub, created, err := s.subscribers.Subscribe(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("subscribe %s: %w", email, err)
	}
	log.Info().Str("subscriber_id", sub.ID.String()).Bool("created", created).Msg("subscriber active")
	return sub, created, nil
}

// Unsubscribe deactivates the subscriber named by an unsubscribe link.
func (s *Service) Unsubscribe(ctx context.Context, idStr, email string) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid subscriber id: %w", err)
	}
	if err := s.subscribers.Unsubscribe(ctx, id, strings.ToLower(strings.TrimSpace(email))); err != nil {
		return err
	}
	log.Info().Str("subscriber_id", idStr).Msg("subscriber deactivated")
	return nil
}

// loadSettings reads and types the notification settings, applying the
// fail-open default for a missing row.
func (s *Service) loadSettings(ctx context.Context) (domain.NotificationSettings, error) {
	raw, found, err := s.settings.Get(ctx, domain.SettingEmailNotifications)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	return domain.ParseNotificationSettings(raw, found), nil
}
