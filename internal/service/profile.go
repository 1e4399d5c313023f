package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/types"
)

// ProfileService handles account-level operations.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves the account record for a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes username and/or email. Collisions with other
// accounts fail with ErrDuplicateIdentity.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if l := len(username); l < 2 || l > 20 {
			return nil, newValidationError("username", "must be between 2 and 20 characters")
		}
		user.Username = username
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, newValidationError("email", "must not be empty")
		}
		user.Email = email
	}

	var taken int64
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("(email = ? OR username = ?) AND id <> ?", user.Email, user.Username, userID).
		Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check identity: %w", err)
	}
	if taken > 0 {
		return nil, ErrDuplicateIdentity
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// GetUserRecipes retrieves the recipes a user authored or imported, newest
// first.
func (s *ProfileService) GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user recipes: %w", err)
	}
	return recipes, nil
}

// DeleteAccount removes the user and everything they own in one
// transaction: their bookmark links, the links other users hold on the
// recipes being removed, the recipes themselves, and finally the account.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}

		var recipeIDs []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("user_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.SavedRecipe{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
