package inventory

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"

	"github.com/arkantrust/meditrack/expiry"
	"github.com/arkantrust/meditrack/models"
)

func med(id, name, category, exp string, qty int) models.Medicine {
	d, err := civil.ParseDate(exp)
	if err != nil {
		panic(err)
	}
	return models.Medicine{ID: id, Name: name, Category: category, ExpiryDate: d, Quantity: qty, Dosage: "as directed"}
}

// cabinet mirrors the sample data shown on the expiry tracking page.
func cabinet() []models.Medicine {
	return []models.Medicine{
		med("1", "Paracetamol 500mg", "Pain Relief", "2025-12-31", 24),
		med("2", "Amoxicillin 250mg", "Antibiotic", "2024-10-15", 10),
		med("3", "Cetirizine 10mg", "Antihistamine", "2026-05-20", 30),
		med("4", "Ibuprofen 400mg", "Pain Relief", "2025-08-10", 16),
		med("5", "Omeprazole 20mg", "Antacid", "2024-11-30", 14),
		med("6", "Aspirin 75mg", "Blood Thinner", "2023-12-31", 28),
		med("7", "Loratadine 10mg", "Antihistamine", "2024-03-15", 7),
		med("8", "Vitamin D3 1000IU", "Vitamin", "2026-01-20", 0),
	}
}

func ids(ms []models.Medicine) []string {
	out := []string{}
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func TestSearchEmptyTermReturnsAllInOrder(t *testing.T) {
	all := cabinet()
	if diff := cmp.Diff(Search(all, ""), all); diff != "" {
		t.Fatalf("diff (-got +want)\n%s", diff)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"pain", []string{"1", "4"}},
		{"ANTIHISTAMINE", []string{"3", "7"}},
		{"10mg", []string{"3", "7"}},
		{"d3", []string{"8"}},
		{"insulin", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			if diff := cmp.Diff(ids(Search(cabinet(), tt.term)), tt.want); diff != "" {
				t.Fatalf("diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestPartitionByStatus(t *testing.T) {
	now := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	p := PartitionByStatus(cabinet(), now, expiry.DefaultWindow)

	if diff := cmp.Diff(ids(p.Expired), []string{"2", "5", "6", "7"}); diff != "" {
		t.Errorf("expired: diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(ids(p.ExpiringSoon), []string{}); diff != "" {
		t.Errorf("expiring soon: diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(ids(p.Valid), []string{"1", "3", "4", "8"}); diff != "" {
		t.Errorf("valid: diff (-got +want)\n%s", diff)
	}
}

func TestPartitionIsTotalAndDisjoint(t *testing.T) {
	all := cabinet()
	start := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 3*365; day += 7 {
		now := start.AddDate(0, 0, day)
		p := PartitionByStatus(all, now, expiry.DefaultWindow)

		seen := map[string]int{}
		for _, group := range [][]models.Medicine{p.Expired, p.ExpiringSoon, p.Valid} {
			for _, m := range group {
				seen[m.ID]++
			}
		}
		if len(seen) != len(all) {
			t.Fatalf("at %s: %d distinct records out of %d", now.Format("2006-01-02"), len(seen), len(all))
		}
		for id, n := range seen {
			if n != 1 {
				t.Fatalf("at %s: record %s appears %d times", now.Format("2006-01-02"), id, n)
			}
		}
	}
}

func TestAspirinScenario(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	all := []models.Medicine{med("a", "Aspirin 75mg", "Blood Thinner", "2023-12-31", 28)}
	p := PartitionByStatus(all, now, expiry.DefaultWindow)
	if len(p.Expired) != 1 || len(p.ExpiringSoon)+len(p.Valid) != 0 {
		t.Fatalf("expected aspirin to be expired, got %+v", p)
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	got := PartitionByStatus(cabinet(), now, expiry.DefaultWindow).Summary()
	want := Summary{Total: 8, Expired: 5, ExpiringSoon: 1, Valid: 2, OutOfStock: 1}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("diff (-got +want)\n%s", diff)
	}
}

func TestMatchRecommendations(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	got := MatchRecommendations(cabinet(),
		[]string{"ibuprofen", " Aspirin ", "", "cetirizine", "vitamin d3"},
		now, expiry.DefaultWindow)

	// Aspirin is expired and the vitamins are out of stock.
	if diff := cmp.Diff(ids(got), []string{"3", "4"}); diff != "" {
		t.Fatalf("diff (-got +want)\n%s", diff)
	}
}
