package kafka

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/ledgerpress/notifier/internal/application"
	"github.com/ledgerpress/notifier/internal/domain"
	"github.com/ledgerpress/notifier/internal/kafka/registry"

	// Blank import triggers init() in each handler file,
	// registering all event handlers into the registry.
	_ "github.com/ledgerpress/notifier/internal/kafka/handlers"
)

// Consumer wraps the franz-go Kafka client and feeds post lifecycle events
// into the notification dispatcher.
type Consumer struct {
	client  *kgo.Client
	service *application.Service
	baseURL string
}

// New creates a Consumer with the given brokers, group ID, and topics.
// baseURL is the trusted public origin embedded in outbound email links.
func New(brokers []string, groupID string, topics []string, svc *application.Service, baseURL string) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, service: svc, baseURL: baseURL}, nil
}

// Start begins polling Kafka and processing records. Blocks until ctx is
// cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			c.process(ctx, r)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}

// process routes a record through the handler registry, applies the
// eligibility gate, and dispatches. Publishing never fails on notification
// errors; they are only logged here.
func (c *Consumer) process(ctx context.Context, r *kgo.Record) {
	log.Debug().
		Str("topic", r.Topic).
		Str("key", string(r.Key)).
		Msg("processing kafka record")

	req := registry.Dispatch(r.Topic, r.Value)
	if req == nil {
		log.Debug().Str("topic", r.Topic).Msg("no handler matched, skipping")
		return
	}

	if !domain.ShouldNotify(req.PreviousStatus, req.Post.Status, req.IsNew, req.Post.NotificationSent) {
		log.Info().
			Str("post_id", req.Post.ID.String()).
			Str("previous_status", string(req.PreviousStatus)).
			Bool("already_notified", req.Post.NotificationSent).
			Msg("publish transition not eligible for notification, skipping")
		return
	}

	result, err := c.service.Dispatch(ctx, req.Post, c.baseURL)
	if err != nil {
		log.Error().Err(err).
			Str("topic", r.Topic).
			Str("post_id", req.Post.ID.String()).
			Str("source_event_id", req.SourceEventID).
			Msg("notification dispatch failed")
		return
	}

	log.Info().
		Str("post_id", req.Post.ID.String()).
		Str("source_event_id", req.SourceEventID).
		Int("sent", result.EmailsSent).
		Int("failed", len(result.Failures)).
		Msg("post-publish notification dispatched")
}
