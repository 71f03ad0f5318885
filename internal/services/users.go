package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pindrop/internal/apperr"
	"pindrop/internal/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates the local user row for a verified external subject.
// Registering twice is a Conflict, as is a username already held by anyone
// (case-insensitive).
func (s *UserService) Register(ctx context.Context, firebaseUID, username string) (models.User, error) {
	user := models.User{
		ID:          uuid.NewString(),
		FirebaseUID: firebaseUID,
		Username:    username,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Select("id").Where("firebase_uid = ?", firebaseUID).First(&existing).Error
		if err == nil {
			return apperr.Conflict("User already registered")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Select("id").Where("LOWER(username) = LOWER(?)", username).First(&existing).Error
		if err == nil {
			return apperr.Conflict("Username already taken")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindBySubject loads the user registered for an external subject id.
// A nil user with nil error means the subject is verified but not yet
// registered.
func (s *UserService) FindBySubject(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("firebase_uid = ?", firebaseUID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile resolves a username case-insensitively and counts the user's
// comments.
func (s *UserService) GetProfile(ctx context.Context, username string) (models.User, int64, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, 0, apperr.NotFound("User not found")
	}
	if err != nil {
		return models.User{}, 0, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return models.User{}, 0, err
	}
	return user, count, nil
}
