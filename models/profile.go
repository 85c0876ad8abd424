package models

import "encoding/json"

// Role is a household member's role. The UI picks avatars and permissions
// from it.
type Role string

const (
	RoleParent      Role = "parent"
	RoleChild       Role = "child"
	RoleGrandparent Role = "grandparent"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleParent, RoleChild, RoleGrandparent:
		return true
	}
	return false
}

// Profile is the signed-in user's profile. There is exactly one per store.
type Profile struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Role                 Role   `json:"role"`
	Avatar               string `json:"avatar,omitempty"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
}

// ProfilePatch is a partial profile update. The ID cannot be patched.
type ProfilePatch struct {
	Name                 *string `json:"name,omitempty"`
	Email                *string `json:"email,omitempty"`
	Role                 *Role   `json:"role,omitempty"`
	Avatar               *string `json:"avatar,omitempty"`
	NotificationsEnabled *bool   `json:"notificationsEnabled,omitempty"`
}

// Apply merges the non-nil fields of p onto pr.
func (p ProfilePatch) Apply(pr Profile) Profile {
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Email != nil {
		pr.Email = *p.Email
	}
	if p.Role != nil {
		pr.Role = *p.Role
	}
	if p.Avatar != nil {
		pr.Avatar = *p.Avatar
	}
	if p.NotificationsEnabled != nil {
		pr.NotificationsEnabled = *p.NotificationsEnabled
	}
	return pr
}

// DefaultProfile is served until the user saves a profile of their own.
func DefaultProfile() Profile {
	return Profile{
		ID:                   "1",
		Name:                 "Default User",
		Email:                "user@example.com",
		Role:                 RoleParent,
		Avatar:               "/placeholder.svg?height=100&width=100",
		NotificationsEnabled: true,
	}
}

// FamilyMember is another person in the household whose medicines are
// tracked.
type FamilyMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Age    *int   `json:"age,omitempty"`
}

// FamilyMemberDraft is a FamilyMember without its ID.
type FamilyMemberDraft struct {
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	Age    *int   `json:"age,omitempty"`
}

// FamilyMemberPatch is a partial family member update. Nil fields are left
// untouched. Age alone can be cleared, by sending it as null.
type FamilyMemberPatch struct {
	Name   *string     `json:"name,omitempty"`
	Role   *Role       `json:"role,omitempty"`
	Avatar *string     `json:"avatar,omitempty"`
	Age    OptionalInt `json:"age"`
}

// OptionalInt is a patch field that tells an absent key apart from an
// explicit null. Set is true whenever the key was present; Value is nil for
// null.
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetInt returns an OptionalInt that sets the field to v.
func SetInt(v int) OptionalInt {
	return OptionalInt{Set: true, Value: &v}
}

// MarshalJSON encodes o as its value, or null.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// UnmarshalJSON is only called when the key is present, including for null.
func (o *OptionalInt) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Apply merges the non-nil fields of p onto m.
func (p FamilyMemberPatch) Apply(m FamilyMember) FamilyMember {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Avatar != nil {
		m.Avatar = *p.Avatar
	}
	if p.Age.Set {
		m.Age = nil
		if p.Age.Value != nil {
			age := *p.Age.Value
			m.Age = &age
		}
	}
	return m
}
