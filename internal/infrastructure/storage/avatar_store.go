// Package storage puts user uploads into Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/factory-erp/pkg/helpers"
)

// ErrNotConfigured is returned when no bucket or client is set.
var ErrNotConfigured = errors.New("object storage not configured")

type AvatarStore struct {
	client *storage.Client
	bucket string
}

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket}
}

// Put stores r under avatars/<userID>/<random><ext> and returns the public URL.
func (s *AvatarStore) Put(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	if s == nil || s.client == nil || s.bucket == "" {
		return "", ErrNotConfigured
	}
	return helpers.UploadObject(ctx, s.client, s.bucket, ObjectPath(userID, filename), contentType, r)
}

func ObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}
