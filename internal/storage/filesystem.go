package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemClient stores objects under a local directory. Used for
// development and tests where MinIO is not available.
type FilesystemClient struct {
	root   string
	bucket string
}

// NewFilesystemClient constructs a filesystem-backed store rooted at dir.
func NewFilesystemClient(dir, bucket string) (*FilesystemClient, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage directory is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("bucket name is required")
	}
	return &FilesystemClient{root: dir, bucket: bucket}, nil
}

func (f *FilesystemClient) path(key string) string {
	// Keys are service-generated certificate ids, but clean anyway.
	clean := filepath.Clean("/" + key)
	return filepath.Join(f.root, f.bucket, clean)
}

// EnsureBucket creates the bucket directory.
func (f *FilesystemClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(filepath.Join(f.root, f.bucket), 0o755)
}

// Put writes an object to disk.
func (f *FilesystemClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return err
	}
	return file.Sync()
}

// Get opens an object from disk.
func (f *FilesystemClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(f.path(key))
}

// Delete removes an object from disk.
func (f *FilesystemClient) Delete(ctx context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Bucket returns the configured bucket name.
func (f *FilesystemClient) Bucket() string {
	return f.bucket
}
