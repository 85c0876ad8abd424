package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/arkantrust/meditrack/models"
	"github.com/arkantrust/meditrack/store"
)

// Family manages the "family_members" collection.
type Family struct {
	store *store.Store
	NewID func() string
}

// NewFamily returns a repository backed by s.
func NewFamily(s *store.Store) *Family {
	return &Family{store: s, NewID: uuid.NewString}
}

// List returns every family member, or an empty slice if none were added.
func (r *Family) List() ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if _, err := r.store.Read(store.KeyFamilyMembers, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.FamilyMember{}
	}
	return members, nil
}

// Add validates d, assigns a fresh id and persists the new member.
func (r *Family) Add(d models.FamilyMemberDraft) (models.FamilyMember, error) {
	m := models.FamilyMember{
		Name:   d.Name,
		Role:   d.Role,
		Avatar: d.Avatar,
		Age:    d.Age,
	}
	if err := validateFamilyMember(m); err != nil {
		return models.FamilyMember{}, err
	}

	unlock := r.store.Lock(store.KeyFamilyMembers)
	defer unlock()

	members, err := r.List()
	if err != nil {
		return models.FamilyMember{}, err
	}

	m.ID = r.NewID()
	members = append(members, m)
	if err := r.store.Write(store.KeyFamilyMembers, members); err != nil {
		return models.FamilyMember{}, err
	}
	return m, nil
}

// Update merges p onto the member with the given id, or returns ErrNotFound.
func (r *Family) Update(id string, p models.FamilyMemberPatch) (models.FamilyMember, error) {
	unlock := r.store.Lock(store.KeyFamilyMembers)
	defer unlock()

	members, err := r.List()
	if err != nil {
		return models.FamilyMember{}, err
	}

	i := indexOfMember(members, id)
	if i < 0 {
		return models.FamilyMember{}, fmt.Errorf("family member %q: %w", id, ErrNotFound)
	}

	updated := p.Apply(members[i])
	if err := validateFamilyMember(updated); err != nil {
		return models.FamilyMember{}, err
	}

	members[i] = updated
	if err := r.store.Write(store.KeyFamilyMembers, members); err != nil {
		return models.FamilyMember{}, err
	}
	return updated, nil
}

// Delete removes a family member. An absent id returns ErrNotFound, as for
// medicines.
func (r *Family) Delete(id string) error {
	unlock := r.store.Lock(store.KeyFamilyMembers)
	defer unlock()

	members, err := r.List()
	if err != nil {
		return err
	}

	i := indexOfMember(members, id)
	if i < 0 {
		return fmt.Errorf("family member %q: %w", id, ErrNotFound)
	}

	members = append(members[:i], members[i+1:]...)
	return r.store.Write(store.KeyFamilyMembers, members)
}

func validateFamilyMember(m models.FamilyMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !m.Role.Valid() {
		return invalid("role", "must be parent, child or grandparent")
	}
	if m.Age != nil && *m.Age < 0 {
		return invalid("age", "must not be negative")
	}
	return nil
}

func indexOfMember(members []models.FamilyMember, id string) int {
	for i, m := range members {
		if m.ID == id {
			return i
		}
	}
	return -1
}
