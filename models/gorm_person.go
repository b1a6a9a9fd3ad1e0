package models

import "strings"

const (
	GenderMale   = "m"
	GenderFemale = "f"
)

// Person represents a single member of a family tree.
// It corresponds to the 'persons' table.
type Person struct {
	PersonID           string `gorm:"primaryKey" json:"personID"`
	AssociatedUsername string `gorm:"index;not null" json:"associatedUsername"`
	FirstName          string `gorm:"not null" json:"firstName"`
	LastName           string `gorm:"not null" json:"lastName"`
	Gender             string `gorm:"not null" json:"gender"` // "m" or "f"

	// Relationships
	// nil when the person is a root ancestor or has no spouse
	FatherID *string `json:"fatherID,omitempty"`
	MotherID *string `json:"motherID,omitempty"`
	SpouseID *string `json:"spouseID,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "persons"
}

// FullName returns "first last" joined by a single space.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// IsMale reports whether the person's gender is "m", ignoring case.
func (p Person) IsMale() bool {
	return strings.EqualFold(p.Gender, GenderMale)
}

// IsFemale reports whether the person's gender is "f", ignoring case.
func (p Person) IsFemale() bool {
	return strings.EqualFold(p.Gender, GenderFemale)
}

// Father returns the father ID, or "" when unset.
func (p Person) Father() string { return deref(p.FatherID) }

// Mother returns the mother ID, or "" when unset.
func (p Person) Mother() string { return deref(p.MotherID) }

// Spouse returns the spouse ID, or "" when unset.
func (p Person) Spouse() string { return deref(p.SpouseID) }

// StringPtr returns a pointer to s, or nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
