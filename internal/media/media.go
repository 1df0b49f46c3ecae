// Package media stores listing images on S3-compatible storage or local disk.
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"realestate/internal/models"
)

var ErrInvalidPublicID = errors.New("media: invalid public id")

type Storage interface {
	// Save stores body under publicID and returns the image record.
	Save(ctx context.Context, publicID, contentType string, body io.Reader) (models.PropertyImage, error)
	Delete(ctx context.Context, publicID string) error
}

// NewPublicID returns a fresh object name keeping the upload's extension.
func NewPublicID(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// ValidPublicID reports whether id is a bare object name.
func ValidPublicID(id string) bool {
	return id != "" && id != "." && id != ".." &&
		!strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}
