package repository

import (
	"fmt"

	"github.com/camden-git/familymapbackend/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) Delete(username string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", username).Delete(&models.User{}).Error
	})
}

func (r *GormUserRepository) DeleteAll() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

type GormAuthTokenRepository struct {
	db *gorm.DB
}

func NewGormAuthTokenRepository(db *gorm.DB) AuthTokenRepository {
	return &GormAuthTokenRepository{db: db}
}

func (r *GormAuthTokenRepository) Create(token *models.AuthToken) error {
	return r.db.Create(token).Error
}

func (r *GormAuthTokenRepository) GetByToken(token string) (*models.AuthToken, error) {
	var t models.AuthToken
	if err := r.db.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormAuthTokenRepository) DeleteByUsername(username string) error {
	return r.db.Where("username = ?", username).Delete(&models.AuthToken{}).Error
}

func (r *GormAuthTokenRepository) DeleteAll() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("failed to clear auth tokens: %w", err)
	}
	return nil
}
