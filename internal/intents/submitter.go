package intents

import (
	"context"

	"github.com/wishwell/wishwell/clients/wishclient"
	"github.com/wishwell/wishwell/internal/signal"
)

// API is the slice of the wishlist client the submitter needs.
type API interface {
	Reserve(ctx context.Context, itemID int64) (*wishclient.ReserveResult, error)
	Unreserve(ctx context.Context, itemID int64) error
	Contribute(ctx context.Context, itemID int64, amountCents int64, message string) (*wishclient.ContributeResult, error)
}

// Resync forces a refresh of the owning resource's read model.
type Resync func(ctx context.Context)

// Submitter performs the three conflict-prone write intents. Every intent,
// successful or failed, forces a resync of the read model: the server is
// the single arbiter, and the resync closes the race where the push signal
// for the write is delivered before the write's own response, or dropped.
// Successful intents additionally publish a profile-changed signal so
// unrelated UI can refresh without coupling to this package.
type Submitter struct {
	api     API
	resync  Resync
	signals *signal.Registry
}

// NewSubmitter wires an API client, a resync hook, and a signal registry.
func NewSubmitter(api API, resync Resync, signals *signal.Registry) *Submitter {
	return &Submitter{api: api, resync: resync, signals: signals}
}

// Reserve submits a reserve intent for itemID.
func (s *Submitter) Reserve(ctx context.Context, itemID int64) error {
	_, err := s.api.Reserve(ctx, itemID)
	return s.finish(ctx, err)
}

// Unreserve submits an unreserve intent for itemID.
func (s *Submitter) Unreserve(ctx context.Context, itemID int64) error {
	err := s.api.Unreserve(ctx, itemID)
	return s.finish(ctx, err)
}

// Contribute submits a contribution intent for itemID. The server's totals
// arrive via the forced resync; the result is never used to patch local
// state.
func (s *Submitter) Contribute(ctx context.Context, itemID int64, amountCents int64, message string) error {
	_, err := s.api.Contribute(ctx, itemID, amountCents, message)
	return s.finish(ctx, err)
}

func (s *Submitter) finish(ctx context.Context, err error) error {
	if s.resync != nil {
		s.resync(ctx)
	}
	if err != nil {
		return err
	}
	if s.signals != nil {
		s.signals.Publish(signal.TopicProfileChanged)
	}
	return nil
}
