package testhelpers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/service"
)

// These tests run the services against a real Postgres schema, where the
// composite unique index and error translation behave exactly as they do
// in production.

func TestAuthRoundTripOnPostgres(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	auth := service.NewAuthService(db, service.NewMemorySessionStore(), "test-secret", service.NewEmailService())

	user, token, err := auth.Register(ctx, "postgres_pat", "pat@example.com", "Sup3r-Secret!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, _, err := auth.Login(ctx, "pat@example.com", "Sup3r-Secret!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, _, err = auth.Register(ctx, "postgres_pat", "other@example.com", "Sup3r-Secret!")
	assert.True(t, errors.Is(err, service.ErrDuplicateIdentity), "got %v", err)
}

func TestSaveConflictOnPostgres(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	user := models.User{Username: "saver", Email: "saver@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	recipe := models.Recipe{Title: "Pho", Ingredients: "broth", Instructions: "simmer", UserID: user.ID}
	require.NoError(t, db.Create(&recipe).Error)

	saved := service.NewSavedRecipeService(db)
	first, err := saved.SaveRecipe(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	second, err := saved.SaveRecipe(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second save should return the existing link")

	var count int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecipeDeleteCascadesOnPostgres(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	author := models.User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&author).Error)
	fan := models.User{Username: "fan", Email: "fan@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&fan).Error)

	recipes := service.NewRecipeService(db)
	recipe, err := recipes.CreateRecipe(ctx, author.ID, service.CreateRecipeInput{
		Title:        "Shakshuka",
		Ingredients:  "eggs, tomatoes",
		Instructions: "poach eggs in sauce",
	})
	require.NoError(t, err)

	saved := service.NewSavedRecipeService(db)
	_, err = saved.SaveRecipe(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, recipes.DeleteRecipe(ctx, recipe.ID, author.ID))

	_, err = recipes.GetRecipe(ctx, recipe.ID)
	assert.True(t, errors.Is(err, service.ErrNotFound), "got %v", err)

	var links int64
	require.NoError(t, db.Model(&models.SavedRecipe{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.EqualValues(t, 0, links, "deleting a recipe should remove its saved links")
}
