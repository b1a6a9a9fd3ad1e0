package repository

import (
	"github.com/camden-git/familymapbackend/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	Delete(username string) error
	DeleteAll() error
}

// AuthTokenRepository defines the methods for auth token operations
type AuthTokenRepository interface {
	Create(token *models.AuthToken) error
	GetByToken(token string) (*models.AuthToken, error)
	DeleteByUsername(username string) error
	DeleteAll() error
}

// PersonRepositoryInterface defines the methods for person data operations
type PersonRepositoryInterface interface {
	Create(person *models.Person) error
	CreateBatch(persons []models.Person) error
	GetByID(id string) (*models.Person, error)
	ListByUsername(username string) ([]models.Person, error)
	DeleteByUsername(username string) error
	DeleteAll() error
}

// EventRepositoryInterface defines the methods for event data operations
type EventRepositoryInterface interface {
	CreateBatch(events []models.Event) error
	GetByID(id string) (*models.Event, error)
	ListByUsername(username string) ([]models.Event, error)
	DeleteByUsername(username string) error
	DeleteAll() error
}
