package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/familymapbackend/models"
	"gorm.io/gorm"
)

const batchSize = 200

// PersonRepository handles database operations for Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Create creates a new person record in the database
func (r *PersonRepository) Create(person *models.Person) error {
	err := r.DB.Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.PersonID, err)
	}
	return nil
}

// CreateBatch inserts persons in batches
func (r *PersonRepository) CreateBatch(persons []models.Person) error {
	if len(persons) == 0 {
		return nil
	}
	if err := r.DB.CreateInBatches(&persons, batchSize).Error; err != nil {
		return fmt.Errorf("failed to create %d persons: %w", len(persons), err)
	}
	return nil
}

// GetByID retrieves a person by their ID
func (r *PersonRepository) GetByID(id string) (*models.Person, error) {
	var person models.Person
	err := r.DB.Where("person_id = ?", id).First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person by ID %s: %w", id, err)
	}
	return &person, nil
}

// ListByUsername retrieves every person in a user's tree, in insertion order
func (r *PersonRepository) ListByUsername(username string) ([]models.Person, error) {
	var persons []models.Person
	err := r.DB.Where("associated_username = ?", username).Order("rowid ASC").Find(&persons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list persons for %s: %w", username, err)
	}
	return persons, nil
}

// DeleteByUsername removes a user's whole tree
func (r *PersonRepository) DeleteByUsername(username string) error {
	if err := r.DB.Where("associated_username = ?", username).Delete(&models.Person{}).Error; err != nil {
		return fmt.Errorf("failed to delete persons for %s: %w", username, err)
	}
	return nil
}

// DeleteAll empties the persons table
func (r *PersonRepository) DeleteAll() error {
	if err := r.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Person{}).Error; err != nil {
		return fmt.Errorf("failed to clear persons: %w", err)
	}
	return nil
}
