package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation runs before any S3 call, so a nil S3 config is fine here.
func TestUploadRecipeImageValidation(t *testing.T) {
	svc := NewImageService(nil)
	ctx := context.Background()
	recipeID := uuid.New()

	cases := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{"unsupported content type", []byte("gif data"), "image/gif"},
		{"missing content type", []byte("data"), ""},
		{"empty file", nil, "image/png"},
		{"oversized file", make([]byte, maxImageSize+1), "image/jpeg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadRecipeImage(ctx, recipeID, tc.data, tc.contentType)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "image", verr.Field)
		})
	}
}
