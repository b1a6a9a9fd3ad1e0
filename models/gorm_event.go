package models

import "strings"

const (
	// EventTypeBirth is the event type preferred when anchoring spouse lines.
	EventTypeBirth = "birth"
	EventTypeDeath = "death"
)

// Event is a dated, located happening in a person's life.
// It corresponds to the 'events' table.
type Event struct {
	EventID            string  `gorm:"primaryKey" json:"eventID"`
	AssociatedUsername string  `gorm:"index;not null" json:"associatedUsername"`
	PersonID           string  `gorm:"index;not null" json:"personID"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Country            string  `json:"country"`
	City               string  `json:"city"`
	EventType          string  `gorm:"not null" json:"eventType"`
	Year               int     `json:"year"`
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// IsType compares the event type case-insensitively.
func (e Event) IsType(eventType string) bool {
	return strings.EqualFold(e.EventType, eventType)
}
