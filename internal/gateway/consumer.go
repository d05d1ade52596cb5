package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/events"
)

// ConsumerConfig holds configuration for the NATS event consumer.
type ConsumerConfig struct {
	URL           string
	SubjectFilter string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConsumerConfig returns the default consumer configuration. Core
// NATS is enough here: events are ephemeral change signals and missed ones
// are recovered by the clients' poll fallback, so no stream storage is
// needed.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		URL:           nats.DefaultURL,
		SubjectFilter: events.WishlistSubjectFilter,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// EventConsumer subscribes to wishlist events on NATS and fans them out to
// websocket watchers.
type EventConsumer struct {
	hub    *Hub
	nc     *nats.Conn
	sub    *nats.Subscription
	config ConsumerConfig
}

// NewEventConsumer connects to NATS and prepares a consumer.
func NewEventConsumer(hub *Hub, config ConsumerConfig) (*EventConsumer, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &EventConsumer{hub: hub, nc: nc, config: config}, nil
}

// Start subscribes to the configured subject filter.
func (ec *EventConsumer) Start() error {
	sub, err := ec.nc.Subscribe(ec.config.SubjectFilter, ec.handleMessage)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", ec.config.SubjectFilter, err)
	}
	ec.sub = sub

	log.Info().
		Str("subject", ec.config.SubjectFilter).
		Msg("event consumer subscribed")
	return nil
}

func (ec *EventConsumer) handleMessage(msg *nats.Msg) {
	var event events.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		log.Error().
			Err(err).
			Str("subject", msg.Subject).
			Msg("failed to unmarshal event")
		return
	}

	if event.WishlistPublicID == "" {
		log.Warn().
			Str("subject", msg.Subject).
			Str("event_id", event.EventID).
			Msg("event missing wishlist public id, dropping")
		return
	}

	log.Debug().
		Str("event_id", event.EventID).
		Str("event_type", event.Type).
		Str("public_id", event.WishlistPublicID).
		Msg("forwarding event to watchers")

	ec.hub.Broadcast(event.WishlistPublicID, &event)
}

// Stop unsubscribes and closes the NATS connection.
func (ec *EventConsumer) Stop() error {
	if ec.sub != nil {
		if err := ec.sub.Unsubscribe(); err != nil {
			log.Error().Err(err).Msg("failed to unsubscribe")
		}
	}
	if ec.nc != nil {
		ec.nc.Close()
	}
	return nil
}
