package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wishwell/wishwell/internal/models"
)

// scriptFetcher hands the test one reply channel per fetch, so completion
// order can be controlled independently of dispatch order.
type scriptFetcher struct {
	calls chan chan *models.WishlistView
}

func newScriptFetcher() *scriptFetcher {
	return &scriptFetcher{calls: make(chan chan *models.WishlistView, 16)}
}

func (f *scriptFetcher) fetch(ctx context.Context) (*models.WishlistView, error) {
	reply := make(chan *models.WishlistView)
	f.calls <- reply
	v := <-reply
	if v == nil {
		return nil, errors.New("fetch failed")
	}
	return v, nil
}

func (f *scriptFetcher) nextCall(t *testing.T) chan *models.WishlistView {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fetch")
		return nil
	}
}

func waitApplied(t *testing.T, applied chan *models.WishlistView) *models.WishlistView {
	t.Helper()
	select {
	case v := <-applied:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for apply")
		return nil
	}
}

func wantNoApply(t *testing.T, applied chan *models.WishlistView) {
	t.Helper()
	select {
	case v := <-applied:
		t.Fatalf("unexpected apply of %q", v.Title)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestResync_AppliesLatestDispatched(t *testing.T) {
	f := newScriptFetcher()
	applied := make(chan *models.WishlistView, 16)
	r := NewResyncer(f.fetch, func(v *models.WishlistView) { applied <- v })

	// Dispatch A, then B. B resolves first; A resolves later but is stale
	// and must be discarded.
	go r.Resync(context.Background())
	replyA := f.nextCall(t)
	go r.Resync(context.Background())
	replyB := f.nextCall(t)

	replyB <- &models.WishlistView{Title: "B"}
	if v := waitApplied(t, applied); v.Title != "B" {
		t.Errorf("applied %q first, want B", v.Title)
	}

	replyA <- &models.WishlistView{Title: "A"}
	wantNoApply(t, applied)
}

func TestResync_InOrderCompletionsBothApply(t *testing.T) {
	f := newScriptFetcher()
	applied := make(chan *models.WishlistView, 16)
	r := NewResyncer(f.fetch, func(v *models.WishlistView) { applied <- v })

	go r.Resync(context.Background())
	replyA := f.nextCall(t)
	replyA <- &models.WishlistView{Title: "A"}
	if v := waitApplied(t, applied); v.Title != "A" {
		t.Errorf("applied %q, want A", v.Title)
	}

	go r.Resync(context.Background())
	replyB := f.nextCall(t)
	replyB <- &models.WishlistView{Title: "B"}
	if v := waitApplied(t, applied); v.Title != "B" {
		t.Errorf("applied %q, want B", v.Title)
	}
}

func TestResync_FetchErrorAbsorbed(t *testing.T) {
	f := newScriptFetcher()
	applied := make(chan *models.WishlistView, 16)
	r := NewResyncer(f.fetch, func(v *models.WishlistView) { applied <- v })

	go r.Resync(context.Background())
	f.nextCall(t) <- nil // error
	wantNoApply(t, applied)

	// The failure does not wedge the sequence; the next resync applies.
	go r.Resync(context.Background())
	f.nextCall(t) <- &models.WishlistView{Title: "after-error"}
	if v := waitApplied(t, applied); v.Title != "after-error" {
		t.Errorf("applied %q, want after-error", v.Title)
	}
}

func TestResync_StoppedInFlightIsNoOp(t *testing.T) {
	f := newScriptFetcher()
	applied := make(chan *models.WishlistView, 16)
	r := NewResyncer(f.fetch, func(v *models.WishlistView) { applied <- v })

	done := make(chan struct{})
	go func() {
		r.Resync(context.Background())
		close(done)
	}()
	reply := f.nextCall(t)

	r.Stop()
	reply <- &models.WishlistView{Title: "late"}
	<-done
	wantNoApply(t, applied)

	// Resync after Stop never fetches.
	r.Resync(context.Background())
	select {
	case <-f.calls:
		t.Fatal("fetch dispatched after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}
