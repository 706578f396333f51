package storage

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/disintegration/imaging"
)

var ErrUnavailable = errors.New("document storage unavailable")

// DocumentStore persists uploaded application documents.
type DocumentStore interface {
	// Upload stores data under key and returns its public URL, or "" when
	// objects are private and must be fetched through PresignURL.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

const ThumbnailWidth = 320

// Thumbnail renders a JPEG preview ThumbnailWidth pixels wide.
func Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumb := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
