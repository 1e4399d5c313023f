package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tastebook/backend/internal/models"
)

// SavedRecipeService manages the user-recipe bookmark links.
type SavedRecipeService struct {
	db *gorm.DB
}

func NewSavedRecipeService(db *gorm.DB) *SavedRecipeService {
	return &SavedRecipeService{db: db}
}

// SaveRecipe bookmarks a recipe for a user. Saving an already-saved recipe
// returns the existing link. The insert ignores conflicts on the composite
// unique index, so two concurrent saves still end up with a single row.
func (s *SavedRecipeService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).Select("id").First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	link := models.SavedRecipe{
		UserID:   userID,
		RecipeID: recipeID,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Conflict with an existing link; hand that one back.
		var existing models.SavedRecipe
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			First(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to load saved recipe: %w", err)
		}
		return &existing, nil
	}
	return &link, nil
}

// UnsaveRecipe removes the bookmark. Removing a bookmark that does not
// exist succeeds silently.
func (s *SavedRecipeService) UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{}).Error
	if err != nil {
		return fmt.Errorf("failed to unsave recipe: %w", err)
	}
	return nil
}

// ListSaved returns the recipes a user has bookmarked, most recently saved
// first with recipe ID as the tie-break.
func (s *SavedRecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN saved_recipes ON saved_recipes.recipe_id = recipes.id").
		Where("saved_recipes.user_id = ?", userID).
		Order("saved_recipes.created_at DESC, recipes.id ASC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	return recipes, nil
}

// IsSaved reports whether the user has bookmarked the recipe.
func (s *SavedRecipeService) IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check saved recipe: %w", err)
	}
	return count > 0, nil
}
