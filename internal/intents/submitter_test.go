package intents

import (
	"context"
	"testing"

	"github.com/wishwell/wishwell/clients/wishclient"
	"github.com/wishwell/wishwell/internal/signal"
)

type fakeAPI struct {
	reserveErr    error
	unreserveErr  error
	contributeErr error

	reserves    int
	unreserves  int
	contributes int
}

func (f *fakeAPI) Reserve(ctx context.Context, itemID int64) (*wishclient.ReserveResult, error) {
	f.reserves++
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return &wishclient.ReserveResult{Reserved: true}, nil
}

func (f *fakeAPI) Unreserve(ctx context.Context, itemID int64) error {
	f.unreserves++
	return f.unreserveErr
}

func (f *fakeAPI) Contribute(ctx context.Context, itemID int64, amountCents int64, message string) (*wishclient.ContributeResult, error) {
	f.contributes++
	if f.contributeErr != nil {
		return nil, f.contributeErr
	}
	return &wishclient.ContributeResult{OK: true, CollectedCents: amountCents}, nil
}

func TestSubmitter_SuccessResyncsAndSignals(t *testing.T) {
	api := &fakeAPI{}
	resyncs := 0
	profileChanges := 0

	reg := signal.NewRegistry()
	reg.Subscribe(signal.TopicProfileChanged, func() { profileChanges++ })

	s := NewSubmitter(api, func(ctx context.Context) { resyncs++ }, reg)

	if err := s.Reserve(context.Background(), 7); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if err := s.Unreserve(context.Background(), 7); err != nil {
		t.Fatalf("Unreserve() error = %v", err)
	}
	if err := s.Contribute(context.Background(), 7, 2000, "gift"); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}

	if resyncs != 3 {
		t.Errorf("resyncs = %d, want 3", resyncs)
	}
	if profileChanges != 3 {
		t.Errorf("profile-changed signals = %d, want 3", profileChanges)
	}
}

func TestSubmitter_FailureStillResyncs(t *testing.T) {
	api := &fakeAPI{
		reserveErr: &wishclient.APIError{Kind: wishclient.KindConflict, Detail: "Item is already reserved"},
	}
	resyncs := 0
	profileChanges := 0

	reg := signal.NewRegistry()
	reg.Subscribe(signal.TopicProfileChanged, func() { profileChanges++ })

	s := NewSubmitter(api, func(ctx context.Context) { resyncs++ }, reg)

	err := s.Reserve(context.Background(), 7)
	if wishclient.KindOf(err) != wishclient.KindConflict {
		t.Fatalf("Reserve() error kind = %v, want conflict", wishclient.KindOf(err))
	}
	if resyncs != 1 {
		t.Errorf("resyncs = %d, want 1 even on failure", resyncs)
	}
	if profileChanges != 0 {
		t.Errorf("profile-changed signals = %d, want 0 on failure", profileChanges)
	}
}

func TestSubmitter_ErrorPassedThroughVerbatim(t *testing.T) {
	want := &wishclient.APIError{Kind: wishclient.KindUnauthenticated, Detail: "Not authenticated"}
	api := &fakeAPI{contributeErr: want}

	s := NewSubmitter(api, nil, nil)
	err := s.Contribute(context.Background(), 7, 2000, "")
	if err != want {
		t.Errorf("Contribute() error = %v, want the API error unchanged", err)
	}
}
