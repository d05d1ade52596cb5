package main

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/api"
	"github.com/wishwell/wishwell/internal/events"
	"github.com/wishwell/wishwell/internal/ratelimit"
	"github.com/wishwell/wishwell/internal/users"
	"github.com/wishwell/wishwell/internal/wishlist"
)

type Services struct {
	Wishlist  *wishlist.Service
	API       *api.Server
	Publisher events.Publisher
}

func setupServices(database *sql.DB, natsURL, pepper string) *Services {
	// Database layer → repository → service → HTTP layer
	var publisher events.Publisher
	natsPublisher, err := events.NewNATSPublisher(natsURL)
	if err != nil {
		log.Warn().Err(err).Str("url", natsURL).Msg("NATS unavailable, events will only be logged")
		publisher = events.LogPublisher{}
	} else {
		publisher = natsPublisher
	}

	repo := wishlist.NewPostgresRepository(database)
	wishlistService := wishlist.NewService(repo, publisher)

	usersRepo := users.NewRepository(database)
	sessions := users.NewSessionVerifier(usersRepo)

	apiServer := api.NewServer(api.Config{
		Service:  wishlistService,
		Sessions: sessions,
		Limiter:  ratelimit.NewLimiter(time.Minute, nil),
		Pepper:   pepper,
	})

	return &Services{
		Wishlist:  wishlistService,
		API:       apiServer,
		Publisher: publisher,
	}
}

func (s *Services) Close() {
	if p, ok := s.Publisher.(*events.NATSPublisher); ok {
		p.Close()
	}
}
