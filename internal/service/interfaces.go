package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, identifier, password string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, ownerID uuid.UUID, input CreateRecipeInput) (*models.Recipe, error)
	ImportRecipe(ctx context.Context, ownerID uuid.UUID, result *ExternalRecipeResult) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, ownerID uuid.UUID, input UpdateRecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error
	ListRecipes(ctx context.Context, userID *uuid.UUID) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]models.Recipe, error)
}

// ISavedRecipeService defines the interface for bookmark operations
type ISavedRecipeService interface {
	SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*models.SavedRecipe, error)
	UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

// IProfileService defines the interface for account operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.User, error)
	GetUserRecipes(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// IExternalRecipeService defines the interface for the external recipe API
type IExternalRecipeService interface {
	Search(ctx context.Context, query string) ([]ExternalRecipeResult, error)
	GetRecipe(ctx context.Context, externalID int64) (*ExternalRecipeResult, error)
}

// IImageService defines the interface for image storage operations
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error)
}

// IEmailService defines the interface for email operations
type IEmailService interface {
	SendEmail(to, subject, body string) error
	SendWelcomeEmail(user *models.User) error
}

var (
	_ IAuthService           = (*AuthService)(nil)
	_ IRecipeService         = (*RecipeService)(nil)
	_ ISavedRecipeService    = (*SavedRecipeService)(nil)
	_ IProfileService        = (*ProfileService)(nil)
	_ IExternalRecipeService = (*SpoonacularService)(nil)
	_ IImageService          = (*ImageService)(nil)
	_ IEmailService          = (*EmailService)(nil)
)
