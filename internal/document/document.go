package document

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"roombooking/pkg/objectstore"
)

// File is a proposal document attached to a booking request.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type Uploader struct {
	store    objectstore.Store
	maxBytes int64
	now      func() time.Time
}

func NewUploader(store objectstore.Store, maxBytes int64) *Uploader {
	return &Uploader{store: store, maxBytes: maxBytes, now: time.Now}
}

var ErrTooLarge = errors.New("document exceeds size limit")

// Upload stores f under a per-user, time-stamped key and returns its URL.
func (u *Uploader) Upload(ctx context.Context, userID string, f File) (string, error) {
	if u.maxBytes > 0 && f.Size > u.maxBytes {
		return "", ErrTooLarge
	}
	body := f.Body
	if u.maxBytes > 0 {
		body = &limitedReader{r: io.LimitReader(f.Body, u.maxBytes+1), max: u.maxBytes}
	}
	return u.store.Put(ctx, ObjectKey(userID, u.now(), f.Name), f.ContentType, body)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectKey builds "{userID}/{unixMillis}-{name}" with name reduced to a safe
// basename.
func ObjectKey(userID string, at time.Time, name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "document"
	}
	return userID + "/" + strconv.FormatInt(at.UnixMilli(), 10) + "-" + base
}

// limitedReader fails instead of silently truncating when the body runs past max.
type limitedReader struct {
	r    io.Reader
	max  int64
	read int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, ErrTooLarge
	}
	return n, err
}
