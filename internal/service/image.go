package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tastebook/backend/config"
)

// maxImageSize caps recipe image uploads at 5 MiB.
const maxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService stores recipe images in S3 and hands back their public URL.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadRecipeImage uploads image data under a key scoped to the recipe.
// Each upload gets a fresh object name, so replacing an image never serves
// a stale cached copy.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, data []byte, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", newValidationError("image", "content type must be JPEG, PNG, or WebP")
	}
	if len(data) == 0 {
		return "", newValidationError("image", "file is empty")
	}
	if len(data) > maxImageSize {
		return "", newValidationError("image", "file exceeds the 5 MB limit")
	}

	fileName := fmt.Sprintf("recipe-images/%s/%s.%s", recipeID, uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Uploaded recipe image: %s", publicURL)

	return publicURL, nil
}
