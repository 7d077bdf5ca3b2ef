// Package objectstore stores uploaded documents and hands back a public
// retrieval URL. Backends: hosted storage REST API, Cloudinary, local disk.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"roombooking/pkg/config"
)

type Store interface {
	// Put writes body under key and returns the URL it can be fetched from.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

func New(cfg config.Config) (Store, error) {
	sc := cfg.Storage
	switch strings.ToLower(strings.TrimSpace(sc.Backend)) {
	case "supabase":
		if sc.SupabaseURL == "" || sc.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("supabase storage requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
		return &SupabaseStore{BaseURL: sc.SupabaseURL, ServiceKey: sc.SupabaseServiceKey, Bucket: sc.Bucket}, nil
	case "cloudinary":
		return NewCloudinaryStore(sc.CloudinaryURL, sc.Bucket)
	case "local", "":
		return &LocalStore{
			Dir:     sc.LocalDir,
			Bucket:  sc.Bucket,
			BaseURL: strings.TrimRight(cfg.PublicBaseURL, "/") + LocalURLPrefix,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", sc.Backend)
	}
}
