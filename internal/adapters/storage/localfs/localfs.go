// Package localfs stores uploaded catalog images on the local disk and
// serves them back under /uploads/.
package localfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Storage struct{ dir string }

func New(dir string) *Storage { return &Storage{dir: dir} }

// Save writes the file under a collision-free name and returns the
// public URL path for it.
func (s *Storage) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		return "", fmt.Errorf("unsupported image format %q", ext)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	fname := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	dst := filepath.Join(s.dir, fname)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return "/uploads/" + fname, nil
}
