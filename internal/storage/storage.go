package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStorage is the narrow contract the image service needs from an
// object store. Put returns the public URL of the stored object.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// KeyFromURL reconstructs a storage key from a stored public URL by
// taking its last two path segments ("profile-images/<file>"). This is
// a contract of the URL shape Put produces, not a general parser.
func KeyFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return url
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
