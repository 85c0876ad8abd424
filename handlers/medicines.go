package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/arkantrust/meditrack/inventory"
	"github.com/arkantrust/meditrack/models"
)

// listMedicines handles GET /medicines.
//
// Optional query parameters: q filters by name or category, status keeps only
// one expiry group (expired, expiring_soon or valid).
func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	items, err := h.medicines.GetAll()
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}

	items = inventory.Search(items, r.URL.Query().Get("q"))

	switch status := r.URL.Query().Get("status"); status {
	case "":
	case "expired", "expiring_soon", "valid":
		p := inventory.PartitionByStatus(items, h.Now(), h.window)
		items = map[string][]models.Medicine{
			"expired":       p.Expired,
			"expiring_soon": p.ExpiringSoon,
			"valid":         p.Valid,
		}[status]
	default:
		writeError(w, http.StatusBadRequest, "invalid", "status must be expired, expiring_soon or valid")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// getMedicine handles GET /medicines/{id}.
func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	m, err := h.medicines.GetByID(r.PathValue("id"))
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// createMedicine handles POST /medicines. The server assigns the id.
func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var body models.MedicineDraft
	if !decodeJSON(w, r, &body) {
		return
	}

	m, err := h.medicines.Create(body)
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// medicinePatchBody accepts the identity and timestamp fields so clients can
// send back a record they fetched, but nothing is done with them. Any other
// unknown field is rejected.
type medicinePatchBody struct {
	models.MedicinePatch
	ID        json.RawMessage `json:"id,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
}

// updateMedicine handles PATCH /medicines/{id}.
func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	var body medicinePatchBody
	if !decodeJSON(w, r, &body) {
		return
	}

	m, err := h.medicines.Update(r.PathValue("id"), body.MedicinePatch)
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// deleteMedicine handles DELETE /medicines/{id}. Deleting a missing id is a
// 404, including a repeated delete.
func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.medicines.Delete(id); err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// expiryReport handles GET /expiry: all medicines grouped by expiry status,
// plus the dashboard counters.
func (h *Handler) expiryReport(w http.ResponseWriter, r *http.Request) {
	items, err := h.medicines.GetAll()
	if err != nil {
		h.writeRepoError(w, r, "medicine", err)
		return
	}

	p := inventory.PartitionByStatus(items, h.Now(), h.window)
	writeJSON(w, http.StatusOK, map[string]any{
		"window":       h.window,
		"expired":      p.Expired,
		"expiringSoon": p.ExpiringSoon,
		"valid":        p.Valid,
		"summary":      p.Summary(),
	})
}
