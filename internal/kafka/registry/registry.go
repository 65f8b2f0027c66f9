// Package registry provides a lightweight event handler registry for the
// CMS event topics. Each handler registers itself via init(), so adding a
// new post-lifecycle event never touches the consumer.
package registry

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/ledgerpress/notifier/internal/domain"
)

// EventHandler maps raw Kafka message bytes to a DispatchRequest.
// Returning nil means "skip this event" (nothing to dispatch).
type EventHandler func(data []byte) *domain.DispatchRequest

var handlers = map[string]EventHandler{}

// Register binds a handler to a {topic}:{eventType} key.
// Panics on duplicate registration to catch wiring mistakes early.
func Register(topic, eventType string, h EventHandler) {
	key := topic + ":" + eventType
	if _, exists := handlers[key]; exists {
		panic("registry: duplicate handler registered for key: " + key)
	}
	handlers[key] = h
}

// Dispatch looks up and calls the handler for topic + the eventType probed
// from the message's "eventType" JSON field. Returns nil when no handler is
// registered or the payload cannot be parsed.
func Dispatch(topic string, data []byte) *domain.DispatchRequest {
	var probe struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("registry: failed to probe eventType")
		return nil
	}

	key := topic + ":" + probe.EventType
	h, ok := handlers[key]
	if !ok {
		log.Debug().Str("key", key).Msg("registry: no handler registered")
		return nil
	}
	return h(data)
}
