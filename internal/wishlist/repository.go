package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/wishwell/wishwell/internal/models"
)

// ErrDuplicateReservation is returned when the partial unique index on
// active reservations rejects an insert: another viewer won the race.
var ErrDuplicateReservation = errors.New("duplicate active reservation")

// errNoRow is the repository-internal miss marker; the service maps it to
// the proper not-found error.
var errNoRow = errors.New("no row")

// Repository is the persistence surface the wishlist service needs.
type Repository interface {
	PublicWishlists(ctx context.Context) ([]models.PublicWishlistSummary, error)
	WishlistByPublicID(ctx context.Context, publicID string) (*models.Wishlist, error)
	WishlistByID(ctx context.Context, id int64) (*models.Wishlist, error)
	ItemByID(ctx context.Context, itemID int64) (*models.WishlistItem, error)
	ItemViews(ctx context.Context, wishlistID int64, viewerHash string) ([]models.ItemView, error)

	ActiveReservation(ctx context.Context, itemID int64) (*models.Reservation, error)
	CreateReservation(ctx context.Context, itemID int64, viewerHash string) (*models.Reservation, error)
	ReleaseReservation(ctx context.Context, reservationID int64) error

	CreateContribution(ctx context.Context, c *models.Contribution) (*models.Contribution, error)
	CollectedCents(ctx context.Context, itemID int64) (int64, error)
	ViewerContributionCents(ctx context.Context, itemID int64, viewerHash string) (int64, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
}

// PostgresRepository implements Repository over database/sql with the pq
// driver.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository wraps an open connection pool.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) PublicWishlists(ctx context.Context) ([]models.PublicWishlistSummary, error) {
	query := `
		SELECT w.public_id, w.title, COALESCE(u.nickname, u.email), w.currency,
		       COUNT(i.id) FILTER (WHERE NOT i.is_archived), w.updated_at
		FROM wishlists w
		JOIN users u ON u.id = w.owner_id
		LEFT JOIN wishlist_items i ON i.wishlist_id = w.id
		WHERE w.is_public
		GROUP BY w.id, u.id
		ORDER BY w.updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public wishlists: %w", err)
	}
	defer rows.Close()

	var out []models.PublicWishlistSummary
	for rows.Next() {
		var s models.PublicWishlistSummary
		if err := rows.Scan(&s.PublicID, &s.Title, &s.AuthorName, &s.Currency, &s.ItemCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) WishlistByPublicID(ctx context.Context, publicID string) (*models.Wishlist, error) {
	return r.wishlist(ctx, "public_id = $1", publicID)
}

func (r *PostgresRepository) WishlistByID(ctx context.Context, id int64) (*models.Wishlist, error) {
	return r.wishlist(ctx, "id = $1", id)
}

func (r *PostgresRepository) wishlist(ctx context.Context, where string, arg any) (*models.Wishlist, error) {
	query := `
		SELECT id, public_id, owner_id, title, description, currency, is_public, created_at, updated_at
		FROM wishlists
		WHERE ` + where

	w := &models.Wishlist{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&w.ID,
		&w.PublicID,
		&w.OwnerID,
		&w.Title,
		&w.Description,
		&w.Currency,
		&w.IsPublic,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoRow
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) ItemByID(ctx context.Context, itemID int64) (*models.WishlistItem, error) {
	query := `
		SELECT id, wishlist_id, name, url, image_url, price_cents, allow_contributions,
		       notes, position, is_archived, created_at, updated_at
		FROM wishlist_items
		WHERE id = $1`

	i := &models.WishlistItem{}
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&i.ID,
		&i.WishlistID,
		&i.Name,
		&i.URL,
		&i.ImageURL,
		&i.PriceCents,
		&i.AllowContributions,
		&i.Notes,
		&i.Position,
		&i.IsArchived,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoRow
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return i, nil
}

// ItemViews assembles the viewer-scoped read model for every item on a
// wishlist: collected totals over non-refunded contributions, the active
// reservation, and the viewer's own contribution sum.
func (r *PostgresRepository) ItemViews(ctx context.Context, wishlistID int64, viewerHash string) ([]models.ItemView, error) {
	query := `
		SELECT i.id, i.name, i.url, i.image_url, i.price_cents, i.allow_contributions,
		       i.notes, i.position, i.is_archived, i.created_at, i.updated_at,
		       COALESCE(c.collected, 0),
		       res.created_at,
		       res.viewer_token_hash,
		       COALESCE(mine.total, 0)
		FROM wishlist_items i
		LEFT JOIN (
			SELECT item_id, SUM(amount_cents) AS collected
			FROM contributions
			WHERE refunded_at IS NULL
			GROUP BY item_id
		) c ON c.item_id = i.id
		LEFT JOIN reservations res ON res.item_id = i.id AND res.released_at IS NULL
		LEFT JOIN (
			SELECT item_id, SUM(amount_cents) AS total
			FROM contributions
			WHERE refunded_at IS NULL AND viewer_token_hash = $2
			GROUP BY item_id
		) mine ON mine.item_id = i.id
		WHERE i.wishlist_id = $1
		ORDER BY i.position ASC, i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, wishlistID, viewerHash)
	if err != nil {
		return nil, fmt.Errorf("failed to query item views: %w", err)
	}
	defer rows.Close()

	var out []models.ItemView
	for rows.Next() {
		var v models.ItemView
		var reservedAt *time.Time
		var reservedBy *string
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.URL,
			&v.ImageURL,
			&v.PriceCents,
			&v.AllowContributions,
			&v.Notes,
			&v.Position,
			&v.IsArchived,
			&v.CreatedAt,
			&v.UpdatedAt,
			&v.CollectedCents,
			&reservedAt,
			&reservedBy,
			&v.MyContributionCents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item view: %w", err)
		}
		v.Reserved = reservedAt != nil
		v.ReservedAt = reservedAt
		v.ReservedByMe = v.Reserved && reservedBy != nil && viewerHash != "" && *reservedBy == viewerHash
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ActiveReservation(ctx context.Context, itemID int64) (*models.Reservation, error) {
	query := `
		SELECT id, item_id, viewer_token_hash, created_at, released_at
		FROM reservations
		WHERE item_id = $1 AND released_at IS NULL`

	res := &models.Reservation{}
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&res.ID,
		&res.ItemID,
		&res.ViewerTokenHash,
		&res.CreatedAt,
		&res.ReleasedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active reservation: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) CreateReservation(ctx context.Context, itemID int64, viewerHash string) (*models.Reservation, error) {
	query := `
		INSERT INTO reservations (item_id, viewer_token_hash)
		VALUES ($1, $2)
		RETURNING id, item_id, viewer_token_hash, created_at, released_at`

	res := &models.Reservation{}
	err := r.db.QueryRowContext(ctx, query, itemID, viewerHash).Scan(
		&res.ID,
		&res.ItemID,
		&res.ViewerTokenHash,
		&res.CreatedAt,
		&res.ReleasedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateReservation
		}
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) ReleaseReservation(ctx context.Context, reservationID int64) error {
	query := `
		UPDATE reservations
		SET released_at = NOW()
		WHERE id = $1 AND released_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, reservationID); err != nil {
		return fmt.Errorf("failed to release reservation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateContribution(ctx context.Context, c *models.Contribution) (*models.Contribution, error) {
	query := `
		INSERT INTO contributions (item_id, contributor_user_id, viewer_token_hash, amount_cents, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ItemID,
		c.ContributorUserID,
		c.ViewerTokenHash,
		c.AmountCents,
		c.Message,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) CollectedCents(ctx context.Context, itemID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM contributions
		WHERE item_id = $1 AND refunded_at IS NULL`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) ViewerContributionCents(ctx context.Context, itemID int64, viewerHash string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM contributions
		WHERE item_id = $1 AND viewer_token_hash = $2 AND refunded_at IS NULL`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, itemID, viewerHash).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum viewer contributions: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, wishlist_id, item_id, type, title, body, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	data := pqtype.NullRawMessage{RawMessage: n.Data, Valid: len(n.Data) > 0}
	err := r.db.QueryRowContext(ctx, query,
		n.UserID,
		n.WishlistID,
		n.ItemID,
		n.Type,
		n.Title,
		n.Body,
		data,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
