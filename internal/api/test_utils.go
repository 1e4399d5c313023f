package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/service"
	"github.com/tastebook/backend/internal/types"
)

// testPassword satisfies the strong_password rule.
const testPassword = "Sup3r-Secret!"

// testAPI wires the full HTTP surface against an in-memory database and an
// in-memory session store. External search is served by a stub the test
// can reconfigure.
type testAPI struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Auth     *service.AuthService
	Sessions *service.MemorySessionStore
	External *stubExternalService
}

// openTestDB opens a fresh in-memory SQLite database with the full schema.
// Each database gets its own name so tests cannot see each other's rows.
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

// setupTestAPI builds a router with the real handlers and services.
func setupTestAPI(t *testing.T) *testAPI {
	return setupTestAPIWithImages(t, nil)
}

// setupTestAPIWithImages is setupTestAPI with an image store plugged in.
func setupTestAPIWithImages(t *testing.T, images service.IImageService) *testAPI {
	t.Helper()

	gin.SetMode(gin.TestMode)
	RegisterValidators()

	db := openTestDB(t)
	sessions := service.NewMemorySessionStore()
	auth := service.NewAuthService(db, sessions, "test-secret", service.NewEmailService())
	external := &stubExternalService{}

	router := gin.New()
	RegisterRoutes(router, Services{
		Auth:     auth,
		Recipes:  service.NewRecipeService(db),
		Saved:    service.NewSavedRecipeService(db),
		Profiles: service.NewProfileService(db),
		External: external,
		Images:   images,
	})

	return &testAPI{
		Router:   router,
		DB:       db,
		Auth:     auth,
		Sessions: sessions,
		External: external,
	}
}

// performRequest runs one request through the router. token may be "" for
// anonymous calls.
func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerTestUser registers a fresh user through the real endpoint and
// returns the auth payload, including a live token.
func registerTestUser(t *testing.T, api *testAPI, username string) types.AuthResponse {
	t.Helper()

	w := performRequest(api.Router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// createTestRecipe creates a recipe through the real endpoint.
func createTestRecipe(t *testing.T, api *testAPI, token, title string) models.Recipe {
	t.Helper()

	w := performRequest(api.Router, http.MethodPost, "/api/v1/recipes", gin.H{
		"title":        title,
		"ingredients":  "2 eggs\n1 cup flour",
		"instructions": "Mix.\nBake.",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe
}

// stubExternalService serves canned external results. Setting err makes
// every call fail with it.
type stubExternalService struct {
	results []service.ExternalRecipeResult
	err     error
}

func (s *stubExternalService) Search(ctx context.Context, query string) ([]service.ExternalRecipeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubExternalService) GetRecipe(ctx context.Context, externalID int64) (*service.ExternalRecipeResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.results {
		if s.results[i].ExternalID == externalID {
			return &s.results[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no upstream recipe %d", service.ErrExternalService, externalID)
}
