package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"afrikticket_backend/internals/configs"
)

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStoreFromEnv() (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(
		configs.GetEnv("CLOUDINARY_CLOUD_NAME"),
		configs.GetEnv("CLOUDINARY_API_KEY"),
		configs.GetEnv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	publicID := strings.TrimSuffix(filename, path.Ext(filename))
	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       bucket,
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %v", err)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, imageURL string) error {
	publicID, err := extractPublicID(imageURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %v", err)
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %v", err)
	}
	return nil
}

// https://res.cloudinary.com/<cloud>/image/upload/v123/events/images/abc.webp → events/images/abc
func extractPublicID(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 1 && strings.HasPrefix(parts[0], "v") {
		parts = parts[1:]
	}
	joined := strings.Join(parts, "/")
	return strings.TrimSuffix(joined, path.Ext(joined)), nil
}
