package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"afrikticket_backend/internals/configs"
)

// Logical buckets (folders) used by the app
const (
	BucketEventImages       = "events/images"
	BucketFundraisingImages = "fundraisings/images"
	BucketProfileImages     = "profile-images"
	BucketOrgDocuments      = "organizations/documents"
)

var ErrEmptyPayload = errors.New("storage: empty payload")

// Store persists blobs and hands back the path to keep in the DB.
type Store interface {
	Put(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
}

// NewFromEnv picks the driver from STORAGE_DRIVER (local | oss | cloudinary | memory).
func NewFromEnv() (Store, error) {
	driver := configs.StorageDriver
	if driver == "" {
		driver = strings.ToLower(configs.GetEnv("STORAGE_DRIVER", "local"))
	}

	switch driver {
	case "", "local":
		return NewLocalStore(configs.GetEnv("STORAGE_LOCAL_DIR", "./storage"), configs.GetEnv("STORAGE_PUBLIC_BASE", "/storage"))
	case "oss":
		return NewOSSStoreFromEnv()
	case "cloudinary":
		return NewCloudinaryStoreFromEnv()
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return unsafeChars.ReplaceAllString(strings.TrimSpace(filename), "_")
}

// UniqueFilename → 20251016-<uuid>-<sanitized original>
func UniqueFilename(originalFilename string) string {
	safe := sanitizeFilename(originalFilename)
	if safe == "" {
		safe = "file"
	}
	return fmt.Sprintf("%s-%s-%s", time.Now().Format("20060102"), uuid.New().String(), safe)
}

func joinKey(bucket, filename string) string {
	bucket = strings.Trim(bucket, "/")
	if bucket == "" {
		return filename
	}
	return bucket + "/" + filename
}

// Cleanup removes already stored blobs after a failed transaction. Best effort.
func Cleanup(ctx context.Context, s Store, paths ...string) {
	if s == nil {
		return
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := s.Delete(ctx, p); err != nil {
			log.Printf("[STORAGE] cleanup failed for %s: %v", p, err)
		}
	}
}
