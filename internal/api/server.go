package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/wishwell/wishwell/internal/models"
	"github.com/wishwell/wishwell/internal/ratelimit"
	"github.com/wishwell/wishwell/internal/wishlist"
)

// WishlistService is what the HTTP layer needs from the wishlist domain.
type WishlistService interface {
	PublicWishlists(ctx context.Context) ([]models.PublicWishlistSummary, error)
	PublicWishlist(ctx context.Context, publicID, viewerHash string) (*models.WishlistView, error)
	Reserve(ctx context.Context, itemID int64, viewerHash string) (*wishlist.ReserveResult, error)
	Unreserve(ctx context.Context, itemID int64, viewerHash string) (*wishlist.ReserveResult, error)
	Contribute(ctx context.Context, itemID int64, viewerHash string, amountCents int64, message *string, contributorUserID *int64) (*wishlist.ContributeResult, error)
}

// SessionVerifier resolves an authenticated user from a request. Auth
// issuance lives elsewhere; this service only consumes sessions.
type SessionVerifier interface {
	// UserID returns the authenticated user's id, or ok=false when the
	// request carries no valid session.
	UserID(r *http.Request) (int64, bool)
}

// AnonymousSessions is a SessionVerifier that never authenticates anyone.
type AnonymousSessions struct{}

func (AnonymousSessions) UserID(r *http.Request) (int64, bool) { return 0, false }

// Per-endpoint request budgets over a one minute window, keyed by client
// ip and, where abuse tends to be token-driven, by viewer hash too.
const (
	rateWindow       = time.Minute
	reservePerIP     = 20
	reservePerViewer = 30
	unreservePerIP   = 30
	contributePerIP  = 25
)

// Server is the public HTTP surface: wishlist reads plus the reserve,
// unreserve and contribute intents.
type Server struct {
	service  WishlistService
	sessions SessionVerifier
	limiter  *ratelimit.Limiter
	pepper   string
}

// Config holds Server dependencies.
type Config struct {
	Service  WishlistService
	Sessions SessionVerifier
	Limiter  *ratelimit.Limiter
	// Pepper is mixed into viewer token hashes.
	Pepper string
}

// NewServer creates the HTTP server surface.
func NewServer(cfg Config) *Server {
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = AnonymousSessions{}
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(rateWindow, nil)
	}
	return &Server{
		service:  cfg.Service,
		sessions: sessions,
		limiter:  limiter,
		pepper:   cfg.Pepper,
	}
}

// RegisterRoutes registers the API routes on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/public/wishlists", s.handlePublicWishlists)
	mux.HandleFunc("GET /api/public/w/{public_id}", s.handlePublicWishlist)
	mux.HandleFunc("POST /api/public/items/{id}/reserve", s.handleReserve)
	mux.HandleFunc("POST /api/public/items/{id}/unreserve", s.handleUnreserve)
	mux.HandleFunc("POST /api/public/items/{id}/contribute", s.handleContribute)
}

// Handler wraps the routes in CORS middleware and returns the root
// handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(mux)
}
