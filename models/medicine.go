// Package models defines the core domain types for MediTrack.
package models

import (
	"time"

	"cloud.google.com/go/civil"
)

// Medicine is one tracked item in a household medicine cabinet.
type Medicine struct {
	// ID is assigned by the repository on creation and never changes.
	ID string `json:"id"`

	// Name is the display name, e.g. "Paracetamol 500mg". Must not be empty.
	Name string `json:"name"`

	// Category is a free-text classification tag such as "Pain Relief".
	Category string `json:"category"`

	// ExpiryDate is a calendar date with no time-of-day component. It is
	// encoded as YYYY-MM-DD.
	ExpiryDate civil.Date `json:"expiryDate"`

	// Quantity is the remaining count of units. Never negative.
	Quantity int `json:"quantity"`

	// Dosage holds free-text dosing instructions.
	Dosage string `json:"dosage"`

	Uses     string `json:"uses,omitempty"`
	Notes    string `json:"notes,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`

	// CreatedAt is the UTC timestamp of creation. Set once.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is the UTC timestamp of the most recent write. It advances on
	// every update, including updates that change no field.
	UpdatedAt time.Time `json:"updatedAt"`
}

// MedicineDraft is a Medicine without its repository-assigned identity and
// timestamps. It is the input to create.
type MedicineDraft struct {
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	ExpiryDate civil.Date `json:"expiryDate"`
	Quantity   int        `json:"quantity"`
	Dosage     string     `json:"dosage"`
	Uses       string     `json:"uses,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
}

// MedicinePatch is a partial update. Nil fields are left untouched. There is
// no way to address ID, CreatedAt or UpdatedAt through a patch.
type MedicinePatch struct {
	Name       *string     `json:"name,omitempty"`
	Category   *string     `json:"category,omitempty"`
	ExpiryDate *civil.Date `json:"expiryDate,omitempty"`
	Quantity   *int        `json:"quantity,omitempty"`
	Dosage     *string     `json:"dosage,omitempty"`
	Uses       *string     `json:"uses,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
	ImageURL   *string     `json:"imageUrl,omitempty"`
}

// Draft returns the mutable fields of m.
func (m Medicine) Draft() MedicineDraft {
	return MedicineDraft{
		Name:       m.Name,
		Category:   m.Category,
		ExpiryDate: m.ExpiryDate,
		Quantity:   m.Quantity,
		Dosage:     m.Dosage,
		Uses:       m.Uses,
		Notes:      m.Notes,
		ImageURL:   m.ImageURL,
	}
}

// Apply merges the non-nil fields of p onto m and returns the result.
func (p MedicinePatch) Apply(m Medicine) Medicine {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.ExpiryDate != nil {
		m.ExpiryDate = *p.ExpiryDate
	}
	if p.Quantity != nil {
		m.Quantity = *p.Quantity
	}
	if p.Dosage != nil {
		m.Dosage = *p.Dosage
	}
	if p.Uses != nil {
		m.Uses = *p.Uses
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	return m
}
