package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads documents as raw assets under a folder named after
// the bucket.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if strings.TrimSpace(cloudinaryURL) == "" {
		return nil, fmt.Errorf("cloudinary storage requires CLOUDINARY_URL")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, key, _ string, body io.Reader) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		Folder:       s.folder,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
