package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tastebook/backend/internal/models"
)

// RecipeService handles recipe CRUD and search.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

type CreateRecipeInput struct {
	Title        string
	Ingredients  string
	Instructions string
	ImageURL     string
}

// UpdateRecipeInput carries partial updates. Nil fields stay untouched;
// present fields must still be non-empty.
type UpdateRecipeInput struct {
	Title        *string
	Ingredients  *string
	Instructions *string
	ImageURL     *string
}

func validateRecipeFields(title, ingredients, instructions string) error {
	if strings.TrimSpace(title) == "" {
		return newValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(ingredients) == "" {
		return newValidationError("ingredients", "must not be empty")
	}
	if strings.TrimSpace(instructions) == "" {
		return newValidationError("instructions", "must not be empty")
	}
	return nil
}

// CreateRecipe creates a user-authored recipe owned by ownerID.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, input CreateRecipeInput) (*models.Recipe, error) {
	if err := validateRecipeFields(input.Title, input.Ingredients, input.Instructions); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:        strings.TrimSpace(input.Title),
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		ImageURL:     input.ImageURL,
		Source:       models.SourceUser,
		UserID:       ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &recipe, nil
}

// ImportRecipe materializes a normalized external result into a recipe owned
// by ownerID. Importing the same external recipe twice returns the existing
// copy instead of duplicating it.
func (s *RecipeService) ImportRecipe(ctx context.Context, ownerID uuid.UUID, result *ExternalRecipeResult) (*models.Recipe, error) {
	if result == nil || result.ExternalID == 0 {
		return nil, newValidationError("external_id", "must reference an external recipe")
	}

	var existing models.Recipe
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND source = ? AND external_id = ?", ownerID, models.SourceExternal, result.ExternalID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check imported recipe: %w", err)
	}

	recipe := models.Recipe{
		Title:        result.Title,
		Ingredients:  result.Ingredients,
		Instructions: result.Instructions,
		ImageURL:     result.ImageURL,
		Source:       models.SourceExternal,
		ExternalID:   result.ExternalID,
		UserID:       ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to import recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipe retrieves a recipe by ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// UpdateRecipe applies the given fields to a recipe the caller owns.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, ownerID uuid.UUID, input UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != ownerID {
		return nil, ErrNotAuthorized
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, newValidationError("title", "must not be empty")
		}
		recipe.Title = strings.TrimSpace(*input.Title)
	}
	if input.Ingredients != nil {
		if strings.TrimSpace(*input.Ingredients) == "" {
			return nil, newValidationError("ingredients", "must not be empty")
		}
		recipe.Ingredients = *input.Ingredients
	}
	if input.Instructions != nil {
		if strings.TrimSpace(*input.Instructions) == "" {
			return nil, newValidationError("instructions", "must not be empty")
		}
		recipe.Instructions = *input.Instructions
	}
	if input.ImageURL != nil {
		recipe.ImageURL = *input.ImageURL
	}

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe the caller owns together with every saved
// link pointing at it, inside one transaction so no dangling links survive.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != ownerID {
		return ErrNotAuthorized
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.SavedRecipe{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// ListRecipes lists recipes for a user, or all recipes if userID is nil.
// Newest first; recipe ID breaks creation-time ties.
func (s *RecipeService) ListRecipes(ctx context.Context, userID *uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := s.db.WithContext(ctx)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if err := query.Order("created_at DESC, id ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// SearchRecipes matches the query as a case-insensitive substring of the
// title or ingredients. The ordering is fixed so identical input always
// yields identical output.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error) {
	var recipes []models.Recipe

	dbQuery := s.db.WithContext(ctx)
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(ingredients) LIKE ?", like, like)
	}

	if err := dbQuery.Order("created_at DESC, id ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}
