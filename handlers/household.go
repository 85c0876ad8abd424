package handlers

import (
	"net/http"

	"github.com/arkantrust/meditrack/models"
)

// getProfile handles GET /profile.
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get()
	if err != nil {
		h.writeRepoError(w, r, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// updateProfile handles PATCH /profile.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body models.ProfilePatch
	if !decodeJSON(w, r, &body) {
		return
	}

	p, err := h.profiles.Update(body)
	if err != nil {
		h.writeRepoError(w, r, "profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listFamily(w http.ResponseWriter, r *http.Request) {
	members, err := h.family.List()
	if err != nil {
		h.writeRepoError(w, r, "family member", err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) addFamilyMember(w http.ResponseWriter, r *http.Request) {
	var body models.FamilyMemberDraft
	if !decodeJSON(w, r, &body) {
		return
	}

	m, err := h.family.Add(body)
	if err != nil {
		h.writeRepoError(w, r, "family member", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handler) updateFamilyMember(w http.ResponseWriter, r *http.Request) {
	var body models.FamilyMemberPatch
	if !decodeJSON(w, r, &body) {
		return
	}

	m, err := h.family.Update(r.PathValue("id"), body)
	if err != nil {
		h.writeRepoError(w, r, "family member", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) deleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.family.Delete(id); err != nil {
		h.writeRepoError(w, r, "family member", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
