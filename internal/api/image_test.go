package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/backend/internal/models"
	"github.com/tastebook/backend/internal/service"
)

// stubImageService records the last upload and answers with a fixed URL.
type stubImageService struct {
	url string
	err error

	gotRecipeID    uuid.UUID
	gotContentType string
	gotBytes       int
}

func (s *stubImageService) UploadRecipeImage(_ context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error) {
	s.gotRecipeID = recipeID
	s.gotContentType = contentType
	s.gotBytes = len(data)
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

// performImageUpload posts a multipart body with a single "image" part
// carrying an explicit content type.
func performImageUpload(t *testing.T, router *gin.Engine, path, token, contentType string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUploadRecipeImageEndpoint(t *testing.T) {
	images := &stubImageService{url: "https://bucket.s3.amazonaws.com/recipe-images/test.png"}
	api := setupTestAPIWithImages(t, images)

	owner := registerTestUser(t, api, "owner")
	stranger := registerTestUser(t, api, "stranger")
	created := createTestRecipe(t, api, owner.Token, "Photogenic Pie")
	path := "/api/v1/recipes/" + created.ID.String() + "/image"

	t.Run("stores the image and updates the recipe", func(t *testing.T) {
		payload := []byte("fake png bytes")
		w := performImageUpload(t, api.Router, path, owner.Token, "image/png", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			ImageURL string        `json:"image_url"`
			Recipe   models.Recipe `json:"recipe"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, images.url, resp.ImageURL)
		assert.Equal(t, images.url, resp.Recipe.ImageURL)

		assert.Equal(t, created.ID, images.gotRecipeID)
		assert.Equal(t, "image/png", images.gotContentType)
		assert.Equal(t, len(payload), images.gotBytes)

		fetched := performRequest(api.Router, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, fetched.Code)
		var recipe models.Recipe
		require.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &recipe))
		assert.Equal(t, images.url, recipe.ImageURL, "the stored URL must persist on the recipe")
	})

	t.Run("maps validation failures to 400", func(t *testing.T) {
		images.err = &service.ValidationError{Field: "image", Message: "content type must be JPEG, PNG, or WebP"}
		defer func() { images.err = nil }()

		w := performImageUpload(t, api.Router, path, owner.Token, "image/gif", []byte("gif"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "JPEG, PNG, or WebP")
	})

	t.Run("only the owner may upload", func(t *testing.T) {
		w := performImageUpload(t, api.Router, path, stranger.Token, "image/png", []byte("png"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing file part", func(t *testing.T) {
		w := performRequest(api.Router, http.MethodPost, path, nil, owner.Token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		w := performImageUpload(t, api.Router, "/api/v1/recipes/"+uuid.NewString()+"/image", owner.Token, "image/png", []byte("png"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadRecipeImageEndpointUnconfigured(t *testing.T) {
	api := setupTestAPI(t)
	owner := registerTestUser(t, api, "owner")
	created := createTestRecipe(t, api, owner.Token, "No Photo Pie")

	w := performImageUpload(t, api.Router, "/api/v1/recipes/"+created.ID.String()+"/image", owner.Token, "image/png", []byte("png"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}
