package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher fans out change signals after a mutation commits. Publishing is
// best-effort: watchers that miss a signal converge on the next poll or
// reconnect resync, so no durability layer is required here.
type Publisher interface {
	PublishWishlist(ctx context.Context, publicID, eventType string, data any) error
	PublishUser(ctx context.Context, userID int64, eventType string, data any) error
}

// NATSPublisher publishes change events to NATS subjects that the gateway
// consumes and forwards to websocket watchers.
type NATSPublisher struct {
	nc *nats.Conn
}

// NewNATSPublisher connects to NATS at url with infinite reconnects.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) PublishWishlist(ctx context.Context, publicID, eventType string, data any) error {
	event, err := newEvent(eventType, data)
	if err != nil {
		return err
	}
	event.WishlistPublicID = publicID
	return p.publish(WishlistSubject(publicID), event)
}

func (p *NATSPublisher) PublishUser(ctx context.Context, userID int64, eventType string, data any) error {
	event, err := newEvent(eventType, data)
	if err != nil {
		return err
	}
	event.UserID = userID
	return p.publish(UserSubject(userID), event)
}

func (p *NATSPublisher) publish(subject string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	log.Debug().
		Str("subject", subject).
		Str("event_id", event.EventID).
		Str("event_type", event.Type).
		Msg("event published")
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

func newEvent(eventType string, data any) (Event, error) {
	event := Event{
		EventID:  uuid.NewString(),
		Type:     eventType,
		ServerTS: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("marshal event data: %w", err)
		}
		event.Data = raw
	}
	return event, nil
}

// LogPublisher logs events without a bus. Used in development and tests.
type LogPublisher struct{}

func (LogPublisher) PublishWishlist(ctx context.Context, publicID, eventType string, data any) error {
	log.Info().Str("public_id", publicID).Str("event_type", eventType).Msg("wishlist event (no bus)")
	return nil
}

func (LogPublisher) PublishUser(ctx context.Context, userID int64, eventType string, data any) error {
	log.Info().Int64("user_id", userID).Str("event_type", eventType).Msg("user event (no bus)")
	return nil
}
