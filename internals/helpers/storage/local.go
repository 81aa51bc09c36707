package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes under Root and returns "<PublicBase>/<bucket>/<filename>".
type LocalStore struct {
	Root       string
	PublicBase string
}

func NewLocalStore(root, publicBase string) (*LocalStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local storage: empty root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	return &LocalStore{Root: root, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, bucket, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyPayload
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := joinKey(bucket, filename)
	full := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return s.PublicBase + "/" + key, nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	key := strings.TrimPrefix(path, s.PublicBase+"/")
	if key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("local storage: invalid path %q", path)
	}
	err := os.Remove(filepath.Join(s.Root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
