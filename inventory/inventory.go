// Package inventory prepares medicine lists for presentation: search,
// grouping by expiry status and matching against recommendations.
package inventory

import (
	"strings"
	"time"

	"github.com/arkantrust/meditrack/expiry"
	"github.com/arkantrust/meditrack/models"
)

// Search returns the medicines whose name or category contains term,
// ignoring case. An empty term returns all unchanged. Order is preserved.
func Search(all []models.Medicine, term string) []models.Medicine {
	if term == "" {
		return all
	}
	needle := strings.ToLower(term)
	out := make([]models.Medicine, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), needle) ||
			strings.Contains(strings.ToLower(m.Category), needle) {
			out = append(out, m)
		}
	}
	return out
}

// Partition groups medicines by expiry status. Each input medicine lands in
// exactly one group, keeping its relative order.
type Partition struct {
	Expired      []models.Medicine `json:"expired"`
	ExpiringSoon []models.Medicine `json:"expiringSoon"`
	Valid        []models.Medicine `json:"valid"`
}

// PartitionByStatus classifies each medicine as of now.
func PartitionByStatus(all []models.Medicine, now time.Time, w expiry.Window) Partition {
	p := Partition{
		Expired:      []models.Medicine{},
		ExpiringSoon: []models.Medicine{},
		Valid:        []models.Medicine{},
	}
	for _, m := range all {
		switch expiry.Classify(m.ExpiryDate, now, w) {
		case expiry.Expired:
			p.Expired = append(p.Expired, m)
		case expiry.ExpiringSoon:
			p.ExpiringSoon = append(p.ExpiringSoon, m)
		default:
			p.Valid = append(p.Valid, m)
		}
	}
	return p
}

// Summary holds the dashboard counters.
type Summary struct {
	Total        int `json:"total"`
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiringSoon"`
	Valid        int `json:"valid"`
	OutOfStock   int `json:"outOfStock"`
}

// Summary counts the medicines in each group and those with nothing left.
func (p Partition) Summary() Summary {
	s := Summary{
		Expired:      len(p.Expired),
		ExpiringSoon: len(p.ExpiringSoon),
		Valid:        len(p.Valid),
	}
	s.Total = s.Expired + s.ExpiringSoon + s.Valid
	for _, group := range [][]models.Medicine{p.Expired, p.ExpiringSoon, p.Valid} {
		for _, m := range group {
			if m.Quantity == 0 {
				s.OutOfStock++
			}
		}
	}
	return s
}

// MatchRecommendations returns the medicines on hand that satisfy any of the
// recommended names: the medicine's name contains the recommendation, ignoring
// case, it is not expired, and some quantity remains.
func MatchRecommendations(all []models.Medicine, names []string, now time.Time, w expiry.Window) []models.Medicine {
	needles := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			needles = append(needles, n)
		}
	}

	out := []models.Medicine{}
	for _, m := range all {
		if m.Quantity <= 0 || expiry.Classify(m.ExpiryDate, now, w) == expiry.Expired {
			continue
		}
		name := strings.ToLower(m.Name)
		for _, n := range needles {
			if strings.Contains(name, n) {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
