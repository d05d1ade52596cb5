package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/events"
	"github.com/wishwell/wishwell/internal/models"
)

// MinContributionCents is the server-side floor for a single contribution.
const MinContributionCents = 100

// ReserveResult is what a successful reserve or unreserve returns.
type ReserveResult struct {
	Reservation *models.Reservation
	Reserved    bool
}

// ContributeResult carries the recomputed totals after a contribution so
// clients can render without waiting for the resync.
type ContributeResult struct {
	Contribution        *models.Contribution
	CollectedCents      int64
	MyContributionCents int64
}

// Service implements the public wishlist operations: directory listing,
// viewer-scoped views, reservations, and contributions. Every mutation
// publishes a change event after it commits.
type Service struct {
	repo      Repository
	publisher events.Publisher
}

// NewService creates a wishlist Service.
func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// PublicWishlists lists the public wishlist directory.
func (s *Service) PublicWishlists(ctx context.Context) ([]models.PublicWishlistSummary, error) {
	summaries, err := s.repo.PublicWishlists(ctx)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.PublicWishlistSummary{}
	}
	return summaries, nil
}

// PublicWishlist returns the viewer-scoped read model for a public wishlist.
// The view is rebuilt from scratch on every call; reserved_by_me and
// my_contribution_cents are relative to viewerHash.
func (s *Service) PublicWishlist(ctx context.Context, publicID, viewerHash string) (*models.WishlistView, error) {
	w, err := s.repo.WishlistByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return nil, ErrWishlistNotFound
		}
		return nil, err
	}
	if !w.IsPublic {
		return nil, ErrWishlistNotFound
	}

	items, err := s.repo.ItemViews(ctx, w.ID, viewerHash)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ItemView{}
	}

	return &models.WishlistView{
		ID:          w.ID,
		PublicID:    w.PublicID,
		Title:       w.Title,
		Description: w.Description,
		Currency:    w.Currency,
		IsPublic:    w.IsPublic,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Items:       items,
	}, nil
}

// Reserve marks an item as taken by the viewer. Reserving an item the
// viewer already holds is a no-op success; reserving an item held by
// anyone else fails with ErrAlreadyReserved. The database's partial unique
// index settles concurrent attempts, so no advisory locking is needed.
func (s *Service) Reserve(ctx context.Context, itemID int64, viewerHash string) (*ReserveResult, error) {
	item, w, err := s.visibleItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ActiveReservation(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.ViewerTokenHash == viewerHash {
			return &ReserveResult{Reservation: existing, Reserved: true}, nil
		}
		return nil, ErrAlreadyReserved
	}

	res, err := s.repo.CreateReservation(ctx, itemID, viewerHash)
	if err != nil {
		if errors.Is(err, ErrDuplicateReservation) {
			return nil, ErrAlreadyReserved
		}
		return nil, err
	}

	s.notifyOwner(ctx, w, item, models.NotificationReservationChanged,
		fmt.Sprintf("Someone reserved %q", item.Name), nil)
	s.publishWishlist(ctx, w.PublicID, events.TypeReservationChanged, itemID)

	log.Info().
		Int64("item_id", itemID).
		Str("public_id", w.PublicID).
		Msg("item reserved")
	return &ReserveResult{Reservation: res, Reserved: true}, nil
}

// Unreserve releases the viewer's reservation on an item. Only the viewer
// that created the active reservation may release it.
func (s *Service) Unreserve(ctx context.Context, itemID int64, viewerHash string) (*ReserveResult, error) {
	_, w, err := s.visibleItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ActiveReservation(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNoReservation
	}
	if existing.ViewerTokenHash != viewerHash {
		return nil, ErrNotHolder
	}

	if err := s.repo.ReleaseReservation(ctx, existing.ID); err != nil {
		return nil, err
	}

	s.publishWishlist(ctx, w.PublicID, events.TypeReservationChanged, itemID)

	log.Info().
		Int64("item_id", itemID).
		Str("public_id", w.PublicID).
		Msg("item unreserved")
	return &ReserveResult{Reserved: false}, nil
}

// Contribute records a payment toward an item and returns the recomputed
// totals. The collected total may exceed the item price; over-funding is
// accepted, not rejected.
func (s *Service) Contribute(ctx context.Context, itemID int64, viewerHash string, amountCents int64, message *string, contributorUserID *int64) (*ContributeResult, error) {
	item, w, err := s.visibleItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.AllowContributions {
		return nil, ErrContributionsDisabled
	}
	if amountCents < MinContributionCents {
		return nil, ErrAmountTooSmall
	}

	c := &models.Contribution{
		ItemID:            itemID,
		ContributorUserID: contributorUserID,
		ViewerTokenHash:   viewerHash,
		AmountCents:       amountCents,
		Message:           message,
	}
	c, err = s.repo.CreateContribution(ctx, c)
	if err != nil {
		return nil, err
	}

	collected, err := s.repo.CollectedCents(ctx, itemID)
	if err != nil {
		return nil, err
	}
	mine, err := s.repo.ViewerContributionCents(ctx, itemID, viewerHash)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(map[string]int64{"amount_cents": amountCents})
	s.notifyOwner(ctx, w, item, models.NotificationContributionReceived,
		fmt.Sprintf("New contribution to %q", item.Name), data)
	s.publishWishlist(ctx, w.PublicID, events.TypeContributionChanged, itemID)
	if err := s.publisher.PublishUser(ctx, w.OwnerID, events.TypeNotificationsUpdate, nil); err != nil {
		log.Warn().Err(err).Int64("user_id", w.OwnerID).Msg("failed to publish user event")
	}

	log.Info().
		Int64("item_id", itemID).
		Int64("amount_cents", amountCents).
		Int64("collected_cents", collected).
		Msg("contribution recorded")
	return &ContributeResult{
		Contribution:        c,
		CollectedCents:      collected,
		MyContributionCents: mine,
	}, nil
}

// visibleItem loads an item and its parent wishlist and checks that the
// pair is visible to anonymous viewers.
func (s *Service) visibleItem(ctx context.Context, itemID int64) (*models.WishlistItem, *models.Wishlist, error) {
	item, err := s.repo.ItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, err
	}
	if item.IsArchived {
		return nil, nil, ErrItemNotFound
	}

	w, err := s.repo.WishlistByID(ctx, item.WishlistID)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return nil, nil, ErrWishlistNotFound
		}
		return nil, nil, err
	}
	if !w.IsPublic {
		return nil, nil, ErrWishlistNotFound
	}
	return item, w, nil
}

func (s *Service) notifyOwner(ctx context.Context, w *models.Wishlist, item *models.WishlistItem, typ models.NotificationType, title string, data json.RawMessage) {
	n := &models.Notification{
		UserID:     w.OwnerID,
		WishlistID: &w.ID,
		ItemID:     &item.ID,
		Type:       typ,
		Title:      title,
		Data:       data,
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		log.Warn().Err(err).Int64("user_id", w.OwnerID).Msg("failed to create notification")
	}
}

func (s *Service) publishWishlist(ctx context.Context, publicID, eventType string, itemID int64) {
	data := map[string]int64{"item_id": itemID}
	if err := s.publisher.PublishWishlist(ctx, publicID, eventType, data); err != nil {
		log.Warn().Err(err).Str("public_id", publicID).Msg("failed to publish wishlist event")
	}
}
