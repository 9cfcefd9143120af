package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const contentTypeSuffix = ".content-type"

// FilesystemStore implements BlobStore on a local directory.
// Each blob is written next to a sidecar file holding its content type.
type FilesystemStore struct {
	basePath string
}

// NewFilesystemStore creates a new filesystem blob store rooted at basePath
func NewFilesystemStore(basePath string) (*FilesystemStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FilesystemStore{basePath: basePath}, nil
}

// Put writes data atomically: readers never observe a partial blob
func (fs *FilesystemStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := fs.pathFor(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := writeAtomic(fullPath+contentTypeSuffix, []byte(contentType)); err != nil {
		return err
	}
	return writeAtomic(fullPath, data)
}

// Get loads a blob and its content type
func (fs *FilesystemStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	fullPath, err := fs.pathFor(key)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("failed to read blob: %w", err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(fullPath + contentTypeSuffix); err == nil && len(raw) > 0 {
		contentType = string(raw)
	}

	return data, contentType, nil
}

// Delete removes a blob and its content type sidecar
func (fs *FilesystemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := fs.pathFor(key)
	if err != nil {
		return err
	}

	for _, p := range []string{fullPath, fullPath + contentTypeSuffix} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove blob: %w", err)
		}
	}
	return nil
}

func (fs *FilesystemStore) pathFor(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(fs.basePath, filepath.FromSlash(cleaned)), nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName) // Clean up on error
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
