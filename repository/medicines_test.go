package repository_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/arkantrust/meditrack/models"
	"github.com/arkantrust/meditrack/repository"
	"github.com/arkantrust/meditrack/store"
)

// fakeClock advances one second on every reading.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newMedicines(t *testing.T) (*repository.Medicines, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryBackend())
	r := repository.NewMedicines(s)
	clock := &fakeClock{t: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)}
	r.Now = clock.Now
	n := 0
	r.NewID = func() string {
		n++
		return fmt.Sprintf("med-%d", n)
	}
	return r, s
}

func aspirin() models.MedicineDraft {
	return models.MedicineDraft{
		Name:       "Aspirin 75mg",
		Category:   "Blood Thinner",
		ExpiryDate: civil.Date{Year: 2023, Month: time.December, Day: 31},
		Quantity:   28,
		Dosage:     "One tablet daily",
	}
}

func TestGetAllEmpty(t *testing.T) {
	r, _ := newMedicines(t)
	items, err := r.GetAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestCreateThenGetByID(t *testing.T) {
	r, _ := newMedicines(t)

	created, err := r.Create(aspirin())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt on create, got %v and %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := r.GetByID(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(got, created); diff != "" {
		t.Fatalf("bad record; diff (-got +want)\n%s", diff)
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	r, _ := newMedicines(t)
	r.NewID = uuid.NewString

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		m, err := r.Create(aspirin())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[m.ID] {
			t.Fatalf("duplicate id %q", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestCreateRejectsDuplicateGeneratedID(t *testing.T) {
	r, _ := newMedicines(t)
	r.NewID = func() string { return "fixed" }

	if _, err := r.Create(aspirin()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Create(aspirin()); err == nil {
		t.Fatal("expected an error when the generated id collides")
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.MedicineDraft)
		field string
	}{
		{"empty name", func(d *models.MedicineDraft) { d.Name = "" }, "name"},
		{"blank name", func(d *models.MedicineDraft) { d.Name = "   " }, "name"},
		{"empty dosage", func(d *models.MedicineDraft) { d.Dosage = "" }, "dosage"},
		{"negative quantity", func(d *models.MedicineDraft) { d.Quantity = -1 }, "quantity"},
		{"missing expiry", func(d *models.MedicineDraft) { d.ExpiryDate = civil.Date{} }, "expiryDate"},
		{"impossible expiry", func(d *models.MedicineDraft) { d.ExpiryDate = civil.Date{Year: 2025, Month: 2, Day: 30} }, "expiryDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newMedicines(t)
			d := aspirin()
			tt.edit(&d)

			_, err := r.Create(d)
			if !errors.Is(err, repository.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *repository.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected field %q, got %#v", tt.field, err)
			}

			items, _ := r.GetAll()
			if len(items) != 0 {
				t.Fatalf("invalid draft was persisted: %+v", items)
			}
		})
	}
}

func TestCreateAllowsZeroQuantity(t *testing.T) {
	r, _ := newMedicines(t)
	d := aspirin()
	d.Quantity = 0
	if _, err := r.Create(d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateEmptyPatchOnlyAdvancesUpdatedAt(t *testing.T) {
	r, _ := newMedicines(t)
	created, _ := r.Create(aspirin())

	updated, err := r.Update(created.ID, models.MedicinePatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updatedAt to increase, got %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}

	want := created
	want.UpdatedAt = updated.UpdatedAt
	if diff := cmp.Diff(updated, want); diff != "" {
		t.Fatalf("empty patch changed fields; diff (-got +want)\n%s", diff)
	}
}

func TestUpdateAdvancesUpdatedAtWhenClockStalls(t *testing.T) {
	r, _ := newMedicines(t)
	frozen := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	r.Now = func() time.Time { return frozen }

	created, _ := r.Create(aspirin())
	updated, err := r.Update(created.ID, models.MedicinePatch{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updatedAt to increase with a frozen clock, got %v", updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("createdAt must not change on update")
	}
}

func TestUpdateMergesPatch(t *testing.T) {
	r, _ := newMedicines(t)
	created, _ := r.Create(aspirin())

	qty := 10
	notes := "Keep away from children"
	updated, err := r.Update(created.ID, models.MedicinePatch{Quantity: &qty, Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Quantity != 10 || updated.Notes != notes {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Name != created.Name || updated.ID != created.ID {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	got, _ := r.GetByID(created.ID)
	if diff := cmp.Diff(got, updated); diff != "" {
		t.Fatalf("update not persisted; diff (-got +want)\n%s", diff)
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	r, _ := newMedicines(t)
	created, _ := r.Create(aspirin())

	empty := ""
	_, err := r.Update(created.ID, models.MedicinePatch{Name: &empty})
	if !errors.Is(err, repository.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, _ := r.GetByID(created.ID)
	if got.Name != created.Name {
		t.Fatalf("rejected patch was persisted: %+v", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	r, _ := newMedicines(t)
	_, err := r.Update("nonexistent", models.MedicinePatch{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteThenGetByID(t *testing.T) {
	r, _ := newMedicines(t)
	keep, _ := r.Create(aspirin())
	gone, _ := r.Create(aspirin())

	if err := r.Delete(gone.ID); err != nil {
		t.Fatalf("unexpected error on first delete: %v", err)
	}
	if _, err := r.GetByID(gone.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := r.GetByID(keep.ID); err != nil {
		t.Fatalf("unrelated record disappeared: %v", err)
	}

	// The second delete reports the id as missing.
	if err := r.Delete(gone.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCorruptedStoreSurfacesTypedError(t *testing.T) {
	b := store.NewMemoryBackend()
	b.Put(store.KeyMedicines, []byte(`[{"id": 12`))
	s := store.New(b)
	r := repository.NewMedicines(s)

	if _, err := r.GetAll(); !errors.Is(err, repository.ErrStoreCorrupted) {
		t.Fatalf("expected ErrStoreCorrupted from GetAll, got %v", err)
	}
	if _, err := r.Create(aspirin()); !errors.Is(err, repository.ErrStoreCorrupted) {
		t.Fatalf("expected ErrStoreCorrupted from Create, got %v", err)
	}
	if err := r.Delete("x"); errors.Is(err, repository.ErrNotFound) || !errors.Is(err, repository.ErrStoreCorrupted) {
		t.Fatalf("expected ErrStoreCorrupted from Delete, got %v", err)
	}

	// Reinitializing the key to empty recovers the collection.
	if err := s.Reset(store.KeyMedicines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Create(aspirin()); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
}

func TestConcurrentCreatesAreAllPersisted(t *testing.T) {
	s := store.New(store.NewMemoryBackend())
	r := repository.NewMedicines(s)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Create(aspirin()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	items, err := r.GetAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != n {
		t.Fatalf("expected %d records, got %d", n, len(items))
	}
}
