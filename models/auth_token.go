package models

import "time"

// AuthToken is the opaque credential issued by the family service on
// login or registration. It gates the person and event fetch calls.
type AuthToken struct {
	Token     string    `gorm:"primaryKey" json:"authtoken"`
	Username  string    `gorm:"index;not null" json:"username"`
	CreatedAt time.Time `json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (AuthToken) TableName() string {
	return "auth_tokens"
}
