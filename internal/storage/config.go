package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/postboard/postboard/internal/apperr"
)

// Config holds MinIO connection configuration
type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	Bucket     string
	PresignTTL time.Duration
}

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrUnsupportedType is returned for uploads that are not a known image type.
var ErrUnsupportedType = apperr.New(apperr.KindValidation, "Unsupported image type")

// ErrTooLarge is returned for uploads over MaxImageSize.
var ErrTooLarge = apperr.New(apperr.KindValidation, fmt.Sprintf("Image must be at most %d bytes", MaxImageSize))

// objectKey returns a fresh id and the object key it is stored under.
func objectKey(contentType string) (string, string, error) {
	ext, ok := extensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", "", ErrUnsupportedType
	}
	id := uuid.NewString()
	return id, path.Join("posts", id+ext), nil
}
