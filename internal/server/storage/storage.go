// Package storage defines the blob-storage collaborator: uploading a local
// file under a destination key yields a public URL.
package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
)

// Uploader stores the file at localPath under key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath string, key string) (string, error)
}

// RandomStorageKey builds a date-partitioned object key, keeping the
// original file extension so content type stays guessable.
func RandomStorageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}
