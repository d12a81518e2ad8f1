// Package uploads stores product images on disk and keeps daily copies of
// them.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Store writes files under Dir; they are served from URLPrefix.
type Store struct {
	Dir       string
	URLPrefix string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, URLPrefix: "/uploads"}
}

// SaveImage copies an uploaded image into Dir/sub under a fresh name and
// returns its public URL.
func (s *Store) SaveImage(file *multipart.FileHeader, sub string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	saveDir := filepath.Join(s.Dir, sub)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}
	name := uuid.NewString() + ext

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := writeFile(filepath.Join(saveDir, name), src); err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return strings.TrimSuffix(s.URLPrefix, "/") + "/" + filepath.ToSlash(filepath.Join(sub, name)), nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
