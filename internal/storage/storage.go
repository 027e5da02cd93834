package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yojanasetu/apiserver/config"
)

// ObjectStorage defines the object operations shared by the backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Bucket() string
}

// AvatarStore persists account avatars in object storage, one object per
// account.
type AvatarStore struct {
	backend ObjectStorage
}

// New constructs the avatar store for the configured backend. An empty
// backend disables avatar storage and returns (nil, nil).
func New(ctx context.Context, cfg config.StorageConfig) (*AvatarStore, error) {
	var backend ObjectStorage
	var err error

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "":
		return nil, nil
	case "minio":
		backend, err = NewMinioClient(cfg.Minio)
	case "gcs":
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	store := &AvatarStore{backend: backend}
	if err := store.backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Save uploads an avatar for the account, replacing any previous one.
func (s *AvatarStore) Save(ctx context.Context, accountID string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, avatarKey(accountID), r, size, contentType)
}

// Open returns a reader for the account's stored avatar.
func (s *AvatarStore) Open(ctx context.Context, accountID string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, avatarKey(accountID))
}

func avatarKey(accountID string) string {
	return "avatars/" + accountID
}
