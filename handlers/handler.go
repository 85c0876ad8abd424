// Package handlers provides the JSON REST API over the medicine, profile and
// family repositories and the health assistant.
//
// Every failure response carries a machine-readable code next to the
// message, so clients can tell the three repository failures apart:
//
//   - not_found        the referenced id does not exist (404)
//   - invalid          malformed body or a field failed validation (400)
//   - store_corrupted  the stored collection could not be decoded (500)
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/arkantrust/meditrack/assistant"
	"github.com/arkantrust/meditrack/expiry"
	"github.com/arkantrust/meditrack/repository"
	"github.com/arkantrust/meditrack/store"
)

const maxBodyBytes = 1 << 20

// Handler holds the dependencies for all API handlers.
type Handler struct {
	medicines *repository.Medicines
	profiles  *repository.Profiles
	family    *repository.Family
	advisor   *assistant.Advisor
	logger    *slog.Logger
	window    expiry.Window

	// Now is the clock used for expiry classification.
	Now func() time.Time
}

// New creates a Handler whose repositories persist into s.
func New(s *store.Store, advisor *assistant.Advisor, logger *slog.Logger, window expiry.Window) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		medicines: repository.NewMedicines(s),
		profiles:  repository.NewProfiles(s),
		family:    repository.NewFamily(s),
		advisor:   advisor,
		logger:    logger,
		window:    window,
		Now:       time.Now,
	}
}

// Routes returns the API routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api", h.status)

	mux.HandleFunc("GET /medicines", h.listMedicines)
	mux.HandleFunc("POST /medicines", h.createMedicine)
	mux.HandleFunc("GET /medicines/{id}", h.getMedicine)
	mux.HandleFunc("PATCH /medicines/{id}", h.updateMedicine)
	mux.HandleFunc("DELETE /medicines/{id}", h.deleteMedicine)
	mux.HandleFunc("GET /expiry", h.expiryReport)

	mux.HandleFunc("GET /profile", h.getProfile)
	mux.HandleFunc("PATCH /profile", h.updateProfile)

	mux.HandleFunc("GET /family", h.listFamily)
	mux.HandleFunc("POST /family", h.addFamilyMember)
	mux.HandleFunc("PATCH /family/{id}", h.updateFamilyMember)
	mux.HandleFunc("DELETE /family/{id}", h.deleteFamilyMember)

	mux.HandleFunc("POST /assistant/symptoms", h.analyzeSymptoms)
	mux.HandleFunc("POST /assistant/chat", h.chat)
	mux.HandleFunc("POST /assistant/identify", h.identifyMedicine)

	return mux
}

// status handles GET /api.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"message":   "MediTrack API is running",
		"timestamp": h.Now().UTC(),
	})
}

// writeJSON serialises v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// decodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid", "invalid JSON body: "+err.Error())
		return false
	}
	if _, err := dec.Token(); err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid", "invalid JSON body: trailing data")
		return false
	}
	return true
}

// writeRepoError maps repository failures onto HTTP responses. what names the
// resource for the message, e.g. "medicine".
func (h *Handler) writeRepoError(w http.ResponseWriter, r *http.Request, what string, err error) {
	var ve *repository.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "invalid", ve.Error())
	case errors.Is(err, repository.ErrStoreCorrupted):
		h.logger.ErrorContext(r.Context(), "Stored data is unreadable", slog.String("resource", what), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "store_corrupted", "stored "+what+" data is unreadable")
	default:
		h.logger.ErrorContext(r.Context(), "Request failed", slog.String("resource", what), slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal", "failed to process "+what)
	}
}
