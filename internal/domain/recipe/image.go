package recipe

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageSize = 10 * 1024 * 1024 // decoded bytes

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore persists recipe photos received as base64 data URIs
// ("data:image/png;base64,....") and hands back the public URL that gets
// stored on the recipe row.
type ImageStore struct {
	baseDir string
	urlBase string
}

func NewImageStore(baseDir, urlBase string) *ImageStore {
	return &ImageStore{baseDir: baseDir, urlBase: urlBase}
}

// Save decodes the data URI to disk under a random name. The returned value
// is an opaque reference as far as the rest of the service is concerned.
func (s *ImageStore) Save(dataURI string) (string, error) {
	mimeType, payload, ok := splitDataURI(dataURI)
	if !ok {
		return "", ErrInvalidImage
	}

	ext, ok := imageExtensions[mimeType]
	if !ok {
		return "", ErrInvalidImage
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}
	if len(raw) == 0 || len(raw) > maxImageSize {
		return "", ErrInvalidImage
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.baseDir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return s.urlBase + "/" + name, nil
}

func splitDataURI(dataURI string) (mimeType, payload string, ok bool) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", "", false
	}
	rest := strings.TrimPrefix(dataURI, "data:")

	meta, payload, found := strings.Cut(rest, ",")
	if !found || payload == "" {
		return "", "", false
	}

	mimeType, enc, found := strings.Cut(meta, ";")
	if !found || enc != "base64" {
		return "", "", false
	}
	return mimeType, payload, true
}
