package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the signed-in actor. PersonID links the account to the Person
// that roots their family tree.
type User struct {
	Username     string    `json:"username" gorm:"primaryKey"`
	PasswordHash string    `json:"-" gorm:"not null"` // "-" means don't include in JSON responses
	Email        string    `json:"email" gorm:"not null"`
	FirstName    string    `json:"firstName" gorm:"not null"`
	LastName     string    `json:"lastName" gorm:"not null"`
	Gender       string    `json:"gender" gorm:"not null"`
	PersonID     string    `json:"personID" gorm:"not null"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (User) TableName() string {
	return "users"
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
