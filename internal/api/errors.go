package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/wishwell/wishwell/internal/wishlist"
)

// errorDetail is the error envelope every non-2xx response carries.
type errorDetail struct {
	Detail string `json:"detail"`
}

// writeError maps a service error to an HTTP status and the detail
// envelope.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "Internal server error"

	switch {
	case errors.Is(err, wishlist.ErrWishlistNotFound),
		errors.Is(err, wishlist.ErrItemNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, wishlist.ErrAlreadyReserved):
		status = http.StatusConflict
		detail = err.Error()
	case errors.Is(err, wishlist.ErrNotHolder):
		status = http.StatusForbidden
		detail = err.Error()
	case errors.Is(err, wishlist.ErrNoReservation),
		errors.Is(err, wishlist.ErrContributionsDisabled),
		errors.Is(err, wishlist.ErrAmountTooSmall):
		status = http.StatusUnprocessableEntity
		detail = err.Error()
	default:
		log.Error().Err(err).Msg("request failed")
	}

	writeDetail(w, status, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorDetail{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
