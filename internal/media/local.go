package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"realestate/internal/models"
)

// Local writes images under root and serves them below baseURL + "/uploads".
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) *Local {
	return &Local{root: filepath.Clean(root), baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *Local) Root() string { return l.root }

// path resolves publicID inside root, refusing anything that escapes it.
func (l *Local) path(publicID string) (string, error) {
	if !ValidPublicID(publicID) {
		return "", ErrInvalidPublicID
	}
	target := filepath.Clean(filepath.Join(l.root, publicID))
	if !strings.HasPrefix(target, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("refusing path outside upload root: %s", publicID)
	}
	return target, nil
}

func (l *Local) Save(_ context.Context, publicID, _ string, body io.Reader) (models.PropertyImage, error) {
	target, err := l.path(publicID)
	if err != nil {
		return models.PropertyImage{}, err
	}
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		log.Printf("[UPLOAD] Save: failed to create directory %s: %v", l.root, err)
		return models.PropertyImage{}, err
	}

	out, err := os.Create(target)
	if err != nil {
		log.Printf("[UPLOAD] Save: failed to create file %s: %v", target, err)
		return models.PropertyImage{}, err
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		log.Printf("[UPLOAD] Save: failed to write file %s: %v", target, err)
		return models.PropertyImage{}, err
	}
	return models.PropertyImage{URL: l.baseURL + "/uploads/" + publicID, PublicID: publicID}, nil
}

func (l *Local) Delete(_ context.Context, publicID string) error {
	target, err := l.path(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
