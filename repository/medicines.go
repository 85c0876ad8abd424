package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arkantrust/meditrack/models"
	"github.com/arkantrust/meditrack/store"
)

// Medicines is the CRUD façade over the "medicines" collection.
type Medicines struct {
	store *store.Store

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewMedicines returns a repository backed by s.
func NewMedicines(s *store.Store) *Medicines {
	return &Medicines{
		store: s,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

func (r *Medicines) load() ([]models.Medicine, error) {
	var items []models.Medicine
	if _, err := r.store.Read(store.KeyMedicines, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Medicine{}
	}
	return items, nil
}

func (r *Medicines) now() time.Time {
	return r.Now().UTC()
}

// GetAll returns every medicine. An empty or never-written collection yields
// an empty slice. The only failures are an unreadable store or backend errors.
func (r *Medicines) GetAll() ([]models.Medicine, error) {
	return r.load()
}

// GetByID returns the medicine with the given id, or ErrNotFound.
func (r *Medicines) GetByID(id string) (models.Medicine, error) {
	items, err := r.load()
	if err != nil {
		return models.Medicine{}, err
	}
	for _, m := range items {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Medicine{}, fmt.Errorf("medicine %q: %w", id, ErrNotFound)
}

// Create validates d, assigns a fresh id and timestamps, appends the record
// and persists the collection.
func (r *Medicines) Create(d models.MedicineDraft) (models.Medicine, error) {
	if err := ValidateMedicine(d); err != nil {
		return models.Medicine{}, err
	}

	unlock := r.store.Lock(store.KeyMedicines)
	defer unlock()

	items, err := r.load()
	if err != nil {
		return models.Medicine{}, err
	}

	now := r.now()
	m := models.Medicine{
		ID:         r.NewID(),
		Name:       d.Name,
		Category:   d.Category,
		ExpiryDate: d.ExpiryDate,
		Quantity:   d.Quantity,
		Dosage:     d.Dosage,
		Uses:       d.Uses,
		Notes:      d.Notes,
		ImageURL:   d.ImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, existing := range items {
		if existing.ID == m.ID {
			return models.Medicine{}, fmt.Errorf("generated id %q is already in use", m.ID)
		}
	}

	items = append(items, m)
	if err := r.store.Write(store.KeyMedicines, items); err != nil {
		return models.Medicine{}, err
	}
	return m, nil
}

// Update merges p onto the medicine with the given id and persists it.
// UpdatedAt always moves forward, even for an empty patch.
func (r *Medicines) Update(id string, p models.MedicinePatch) (models.Medicine, error) {
	unlock := r.store.Lock(store.KeyMedicines)
	defer unlock()

	items, err := r.load()
	if err != nil {
		return models.Medicine{}, err
	}

	i := indexOfMedicine(items, id)
	if i < 0 {
		return models.Medicine{}, fmt.Errorf("medicine %q: %w", id, ErrNotFound)
	}

	updated := p.Apply(items[i])
	if err := ValidateMedicine(updated.Draft()); err != nil {
		return models.Medicine{}, err
	}
	updated.UpdatedAt = nextUpdate(items[i].UpdatedAt, r.now())

	items[i] = updated
	if err := r.store.Write(store.KeyMedicines, items); err != nil {
		return models.Medicine{}, err
	}
	return updated, nil
}

// Delete removes the medicine with the given id. Deleting an id that is not
// present, including one already deleted, returns ErrNotFound.
func (r *Medicines) Delete(id string) error {
	unlock := r.store.Lock(store.KeyMedicines)
	defer unlock()

	items, err := r.load()
	if err != nil {
		return err
	}

	i := indexOfMedicine(items, id)
	if i < 0 {
		return fmt.Errorf("medicine %q: %w", id, ErrNotFound)
	}

	items = append(items[:i], items[i+1:]...)
	return r.store.Write(store.KeyMedicines, items)
}

// ValidateMedicine checks the fields every stored medicine must satisfy.
func ValidateMedicine(d models.MedicineDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if strings.TrimSpace(d.Dosage) == "" {
		return invalid("dosage", "must not be empty")
	}
	if d.Quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	if !d.ExpiryDate.IsValid() {
		return invalid("expiryDate", "must be a valid YYYY-MM-DD date")
	}
	return nil
}

func indexOfMedicine(items []models.Medicine, id string) int {
	for i, m := range items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// nextUpdate returns now, or prev plus one nanosecond when the clock has not
// moved past prev.
func nextUpdate(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}
