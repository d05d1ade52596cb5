package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/wishwell/wishwell/clients/wishclient"
)

type reserveRequest struct {
	Honeypot string `json:"honeypot"`
}

type contributeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Message     string `json:"message"`
	Honeypot    string `json:"honeypot"`
}

type reserveResponse struct {
	OK       bool `json:"ok"`
	Reserved bool `json:"reserved"`
}

type contributeResponse struct {
	OK                  bool  `json:"ok"`
	ContributionID      int64 `json:"contribution_id"`
	CollectedCents      int64 `json:"collected_cents"`
	MyContributionCents int64 `json:"my_contribution_cents"`
}

func (s *Server) handlePublicWishlists(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.service.PublicWishlists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handlePublicWishlist(w http.ResponseWriter, r *http.Request) {
	// Reads tolerate a missing token; the view simply carries no
	// viewer-relative fields.
	viewerHash, _ := s.viewerHash(r)

	view, err := s.service.PublicWishlist(r.Context(), r.PathValue("public_id"), viewerHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDFromPath(w, r)
	if !ok {
		return
	}
	viewerHash, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	var req reserveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Honeypot != "" {
		writeDetail(w, http.StatusBadRequest, "Bot detected")
		return
	}

	if !s.limiter.Allow("reserve:ip:"+clientIP(r), reservePerIP) ||
		!s.limiter.Allow("reserve:viewer:"+viewerHash, reservePerViewer) {
		writeDetail(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	result, err := s.service.Reserve(r.Context(), itemID, viewerHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reserveResponse{OK: true, Reserved: result.Reserved})
}

func (s *Server) handleUnreserve(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDFromPath(w, r)
	if !ok {
		return
	}
	viewerHash, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	var req reserveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Honeypot != "" {
		writeDetail(w, http.StatusBadRequest, "Bot detected")
		return
	}

	if !s.limiter.Allow("unreserve:ip:"+clientIP(r), unreservePerIP) {
		writeDetail(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	result, err := s.service.Unreserve(r.Context(), itemID, viewerHash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reserveResponse{OK: true, Reserved: result.Reserved})
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDFromPath(w, r)
	if !ok {
		return
	}
	viewerHash, ok := s.requireViewer(w, r)
	if !ok {
		return
	}

	userID, authed := s.sessions.UserID(r)
	if !authed {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req contributeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Honeypot != "" {
		writeDetail(w, http.StatusBadRequest, "Bot detected")
		return
	}
	if req.AmountCents <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "Amount must be positive")
		return
	}
	if utf8.RuneCountInString(req.Message) > wishclient.MaxMessageChars {
		writeDetail(w, http.StatusUnprocessableEntity, "Message is too long")
		return
	}

	if !s.limiter.Allow("contribute:ip:"+clientIP(r), contributePerIP) {
		writeDetail(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	var message *string
	if req.Message != "" {
		message = &req.Message
	}

	result, err := s.service.Contribute(r.Context(), itemID, viewerHash, req.AmountCents, message, &userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contributeResponse{
		OK:                  true,
		ContributionID:      result.Contribution.ID,
		CollectedCents:      result.CollectedCents,
		MyContributionCents: result.MyContributionCents,
	})
}

func (s *Server) requireViewer(w http.ResponseWriter, r *http.Request) (string, bool) {
	viewerHash, ok := s.viewerHash(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Viewer token required")
		return "", false
	}
	return viewerHash, true
}

func itemIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "item not found")
		return 0, false
	}
	return itemID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
