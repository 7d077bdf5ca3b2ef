package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SupabaseStore uploads through the hosted storage REST API.
type SupabaseStore struct {
	HTTPClient *http.Client
	BaseURL    string
	ServiceKey string
	Bucket     string
}

func (s *SupabaseStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	u := s.objectURL("/storage/v1/object/", key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)
	req.Header.Set("apikey", s.ServiceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Surface the storage error body (e.g. "Bucket not found") for logs.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("storage upload error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return s.objectURL("/storage/v1/object/public/", key), nil
}

func (s *SupabaseStore) objectURL(prefix, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(s.BaseURL, "/") + prefix + url.PathEscape(s.Bucket) + "/" + strings.Join(parts, "/")
}
