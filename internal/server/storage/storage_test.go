package storage

import (
	"strings"
	"testing"

	sc "github.com/dmitrijs2005/snapfeed/internal/server/config"
	"github.com/stretchr/testify/assert"
)

func TestRandomStorageKey(t *testing.T) {
	key := RandomStorageKey("holiday.jpg")

	assert.True(t, strings.HasPrefix(key, "users/"), "key should be date-partitioned under users/: %s", key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), "key should keep the extension: %s", key)

	other := RandomStorageKey("holiday.jpg")
	assert.NotEqual(t, key, other, "keys must not collide")
}

func TestRandomStorageKey_NoExtension(t *testing.T) {
	key := RandomStorageKey("raw")
	assert.False(t, strings.HasSuffix(key, "."), "no trailing dot without extension: %s", key)
}

func TestPublicURL(t *testing.T) {
	cfg := &sc.Config{S3BaseEndpoint: "http://127.0.0.1:9000/", S3Bucket: "photos"}
	u := NewS3Uploader(cfg)

	got := u.publicURL("users/2026/09/01/abc.jpg")
	assert.Equal(t, "http://127.0.0.1:9000/photos/users/2026/09/01/abc.jpg", got)
}

func TestPublicURL_EscapesSegments(t *testing.T) {
	cfg := &sc.Config{S3BaseEndpoint: "http://127.0.0.1:9000", S3Bucket: "photos"}
	u := NewS3Uploader(cfg)

	got := u.publicURL("users/2026/my photo.jpg")
	assert.Equal(t, "http://127.0.0.1:9000/photos/users/2026/my%20photo.jpg", got)
}
