package syncer

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/models"
)

// FetchFunc retrieves the canonical read model for the watched resource.
type FetchFunc func(ctx context.Context) (*models.WishlistView, error)

// ApplyFunc replaces the caller's cached read model wholesale.
type ApplyFunc func(*models.WishlistView)

// Resyncer serializes overlapping refreshes onto the latest result. Every
// Resync call takes a monotonically increasing sequence number before
// fetching; a completed fetch is applied only if its number is the highest
// applied so far. A refresh dispatched later therefore always wins, even
// when an earlier, slower fetch resolves after it.
type Resyncer struct {
	fetch FetchFunc
	apply ApplyFunc

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
	stopped    bool
}

// NewResyncer wires a fetcher to an applier.
func NewResyncer(fetch FetchFunc, apply ApplyFunc) *Resyncer {
	return &Resyncer{fetch: fetch, apply: apply}
}

// Resync fetches the read model and applies it unless a later-dispatched
// resync has already been applied or the resyncer was stopped. Fetch errors
// are absorbed: the previous read model stays in place and the next signal
// or poll tick will try again.
func (r *Resyncer) Resync(ctx context.Context) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	view, err := r.fetch(ctx)
	if err != nil {
		log.Debug().Err(err).Uint64("seq", seq).Msg("resync fetch failed")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || seq <= r.appliedSeq {
		// Stale: a later-dispatched resync already landed.
		return
	}
	r.appliedSeq = seq
	r.apply(view)
}

// Stop makes any in-flight or future Resync a no-op.
func (r *Resyncer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}
