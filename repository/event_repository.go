package repository

import (
	"errors"
	"fmt"

	"github.com/camden-git/familymapbackend/models"
	"gorm.io/gorm"
)

// EventRepository handles database operations for Event entities
type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// CreateBatch inserts events in batches
func (r *EventRepository) CreateBatch(events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := r.DB.CreateInBatches(&events, batchSize).Error; err != nil {
		return fmt.Errorf("failed to create %d events: %w", len(events), err)
	}
	return nil
}

func (r *EventRepository) GetByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.DB.Where("event_id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by ID %s: %w", id, err)
	}
	return &event, nil
}

// ListByUsername retrieves every event of a user's tree, in insertion order
func (r *EventRepository) ListByUsername(username string) ([]models.Event, error) {
	var events []models.Event
	err := r.DB.Where("associated_username = ?", username).Order("rowid ASC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", username, err)
	}
	return events, nil
}

func (r *EventRepository) DeleteByUsername(username string) error {
	if err := r.DB.Where("associated_username = ?", username).Delete(&models.Event{}).Error; err != nil {
		return fmt.Errorf("failed to delete events for %s: %w", username, err)
	}
	return nil
}

func (r *EventRepository) DeleteAll() error {
	if err := r.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Event{}).Error; err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}
