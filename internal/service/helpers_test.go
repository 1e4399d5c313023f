package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tastebook/backend/internal/models"
)

// openTestDB opens an isolated in-memory SQLite database with the full
// schema. The unique name keeps GORM's pooled connections on the same
// database without sharing state between tests. TranslateError is on, as in
// production, so unique violations surface as gorm.ErrDuplicatedKey.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Recipe{}, &models.SavedRecipe{}))
	return db
}

// newTestAuthService builds an AuthService on a fresh database with an
// in-memory session store and no mailer.
func newTestAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	return NewAuthService(db, NewMemorySessionStore(), "test-secret", nil), db
}

// createUser inserts a user row directly, bypassing registration, for tests
// that only need an owner ID.
func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func recipeTitles(recipes []models.Recipe) []string {
	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	return titles
}
