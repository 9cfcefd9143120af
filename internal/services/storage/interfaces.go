package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrBlobNotFound is returned by Get for keys that were never stored
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that are empty or escape the store
var ErrInvalidKey = errors.New("invalid blob key")

// BlobStore is a durable key to bytes store that remembers each blob's content type
type BlobStore interface {
	// Put stores data under key, replacing any previous blob
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the blob stored under key, or ErrBlobNotFound
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the blob under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}

// AudioKey derives the storage key of an episode's audio
func AudioKey(episodeID, contentType string) string {
	return fmt.Sprintf("episodes/%s%s", episodeID, extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/aac":
		return ".aac"
	case "audio/flac":
		return ".flac"
	default:
		return ".bin"
	}
}

// cleanKey normalizes key and rejects anything outside the store root
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
