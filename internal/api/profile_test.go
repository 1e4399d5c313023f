package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/types"
)

type profileResponse struct {
	User    types.UserResponse `json:"user"`
	Recipes []models.Recipe    `json:"recipes"`
}

func TestGetProfileEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	registered := registerTestUser(t, api, "casey")
	createTestRecipe(t, api, registered.Token, "My Signature Dish")

	t.Run("returns the account with its recipes", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodGet, "/api/v1/profile", nil, registered.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp profileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "casey", resp.User.Username)
		assert.Equal(t, registered.User.ID, resp.User.ID)
		require.Len(t, resp.Recipes, 1)
		assert.Equal(t, "My Signature Dish", resp.Recipes[0].Title)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodGet, "/api/v1/profile", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	registered := registerTestUser(t, api, "drew")
	registerTestUser(t, api, "taken")

	t.Run("changes the username", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPut, "/api/v1/profile", gin.H{
			"username": "drew_cooks",
		}, registered.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			User types.UserResponse `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "drew_cooks", resp.User.Username)

		login := performRequest(api.Router, http.MethodPost, "/api/v1/auth/login", gin.H{
			"identifier": "drew_cooks",
			"password":   testPassword,
		}, "")
		assert.Equal(t, http.StatusOK, login.Code, "the new username must work for login")
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPut, "/api/v1/profile", gin.H{
			"username": "taken",
		}, registered.Token)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPut, "/api/v1/profile", gin.H{
			"email": "not-an-email",
		}, registered.Token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPut, "/api/v1/profile", gin.H{
			"username": "anon",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDeleteAccountEndpoint(t *testing.T) {
	api := setupTestAPI(t)
	leaver := registerTestUser(t, api, "leaver")
	stayer := registerTestUser(t, api, "stayer")

	gone := createTestRecipe(t, api, leaver.Token, "Goodbye Gratin")
	kept := createTestRecipe(t, api, stayer.Token, "Still Here Stew")

	w := performRequest(api.Router, http.MethodDelete, "/api/v1/profile", nil, leaver.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "account deleted successfully")

	t.Run("the session is revoked", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodGet, "/api/v1/profile", nil, leaver.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login no longer works", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPost, "/api/v1/auth/login", gin.H{
			"identifier": "leaver@example.com",
			"password":   testPassword,
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("their recipes are gone, others remain", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodGet, "/api/v1/recipes/"+gone.ID.String(), nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = performRequest(api.Router, http.MethodGet, "/api/v1/recipes/"+kept.ID.String(), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
