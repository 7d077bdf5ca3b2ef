package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalURLPrefix is where the HTTP router serves LocalStore files.
const LocalURLPrefix = "/files/"

// LocalStore writes documents to disk for development.
type LocalStore struct {
	Dir     string
	Bucket  string
	BaseURL string // e.g. http://localhost:8081/files/
}

func (s *LocalStore) Put(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	rel := filepath.Join(s.Bucket, filepath.FromSlash(key))
	if strings.HasPrefix(filepath.Clean(rel), "..") {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	fullPath := filepath.Join(s.Dir, rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, readerWithContext{ctx: ctx, r: body}); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + s.Bucket + "/" + key, nil
}

type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r readerWithContext) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
