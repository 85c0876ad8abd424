package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arkantrust/meditrack/assistant"
	"github.com/arkantrust/meditrack/inventory"
	"github.com/arkantrust/meditrack/models"
)

// The gateway applies its own per-attempt timeout; this bounds the whole
// request including retries.
const assistantDeadline = 45 * time.Second

// analyzeSymptoms handles POST /assistant/symptoms.
//
// The analysis is joined with the medicines on hand that match its
// recommendations and can still be used.
func (h *Handler) analyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	var body assistant.SymptomRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Age < 0 {
		writeError(w, http.StatusBadRequest, "invalid", "age must not be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistantDeadline)
	defer cancel()

	analysis, fallback, err := h.advisor.AnalyzeSymptoms(ctx, body)
	if errors.Is(err, assistant.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "invalid", "symptoms must not be empty")
		return
	}
	if err != nil {
		h.writeRepoError(w, r, "symptom analysis", err)
		return
	}

	items, err := h.medicines.GetAll()
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"fallback": fallback,
		"onHand":   inventory.MatchRecommendations(items, analysis.RecommendedMedicines, h.Now(), h.window),
	})
}

// chat handles POST /assistant/chat.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistantDeadline)
	defer cancel()

	reply, fallback, err := h.advisor.Chat(ctx, body.Query)
	if errors.Is(err, assistant.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "invalid", "query must not be empty")
		return
	}
	if err != nil {
		h.writeRepoError(w, r, "chat", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reply": reply, "fallback": fallback})
}

// identifyMedicine handles POST /assistant/identify.
//
// Next to the identification it returns a draft the client completes with an
// expiry date and quantity before posting it to /medicines.
func (h *Handler) identifyMedicine(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), assistantDeadline)
	defer cancel()

	info, fallback, err := h.advisor.IdentifyMedicine(ctx, body.Description)
	if errors.Is(err, assistant.ErrEmptyQuery) {
		writeError(w, http.StatusBadRequest, "invalid", "description must not be empty")
		return
	}
	if err != nil {
		h.writeRepoError(w, r, "medicine identification", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"info":     info,
		"fallback": fallback,
		"draft":    draftFromInfo(info),
	})
}

func draftFromInfo(info assistant.MedicineInfo) models.MedicineDraft {
	d := models.MedicineDraft{
		Name:   info.Name,
		Dosage: info.Dosage,
		Uses:   strings.Join(info.Usages, ", "),
	}
	if info.ActiveIngredient != "" {
		d.Notes = "Active ingredient: " + info.ActiveIngredient
	}
	return d
}
