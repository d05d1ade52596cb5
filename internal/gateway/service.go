package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/events"
)

// Service ties the websocket hub and the NATS event consumer together.
type Service struct {
	hub       *Hub
	wsHandler *WebSocketHandler
	consumer  *EventConsumer
}

// Config holds configuration for the gateway service.
type Config struct {
	ConnectionConfig ConnectionConfig
	ConsumerConfig   ConsumerConfig
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		ConsumerConfig:   DefaultConsumerConfig(),
	}
}

// NewService creates the gateway service and connects its consumer.
func NewService(config Config) (*Service, error) {
	hub := NewHub(config.ConnectionConfig)
	wsHandler := NewWebSocketHandler(hub)

	consumer, err := NewEventConsumer(hub, config.ConsumerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create event consumer: %w", err)
	}

	return &Service{
		hub:       hub,
		wsHandler: wsHandler,
		consumer:  consumer,
	}, nil
}

// Start runs the hub and subscribes the consumer, blocking until ctx is
// cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting wishlist gateway service")

	go s.hub.Start(ctx)

	if err := s.consumer.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	log.Info().Msg("wishlist gateway service shutting down")
	return s.Stop()
}

// Stop shuts down the consumer.
func (s *Service) Stop() error {
	if err := s.consumer.Stop(); err != nil {
		log.Error().Err(err).Msg("failed to stop event consumer")
	}
	log.Info().Msg("wishlist gateway service stopped")
	return nil
}

// RegisterRoutes registers the websocket HTTP routes.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("gateway routes registered")
}

// Broadcast fans an event out to a wishlist's watchers directly, bypassing
// the bus. Used in tests and single-process deployments.
func (s *Service) Broadcast(publicID string, event *events.Event) {
	s.hub.Broadcast(publicID, event)
}
