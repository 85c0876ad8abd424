package repository

import (
	"strings"

	"github.com/arkantrust/meditrack/models"
	"github.com/arkantrust/meditrack/store"
)

// Profiles reads and updates the single user profile.
type Profiles struct {
	store *store.Store
}

// NewProfiles returns a repository backed by s.
func NewProfiles(s *store.Store) *Profiles {
	return &Profiles{store: s}
}

// Get returns the stored profile, or the default profile if none was saved.
func (r *Profiles) Get() (models.Profile, error) {
	p := models.DefaultProfile()
	if _, err := r.store.Read(store.KeyProfile, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Update merges patch onto the current profile and persists the result.
func (r *Profiles) Update(patch models.ProfilePatch) (models.Profile, error) {
	unlock := r.store.Lock(store.KeyProfile)
	defer unlock()

	current, err := r.Get()
	if err != nil {
		return models.Profile{}, err
	}

	updated := patch.Apply(current)
	switch {
	case strings.TrimSpace(updated.Name) == "":
		return models.Profile{}, invalid("name", "must not be empty")
	case !strings.Contains(updated.Email, "@"):
		return models.Profile{}, invalid("email", "must be an email address")
	case !updated.Role.Valid():
		return models.Profile{}, invalid("role", "must be parent, child or grandparent")
	}

	if err := r.store.Write(store.KeyProfile, updated); err != nil {
		return models.Profile{}, err
	}
	return updated, nil
}
