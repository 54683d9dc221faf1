// Package blob stores book cover images and hands back URLs the frontend
// can load directly.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store interface {
	Upload(data []byte, filename, mimeType string) (string, error)
	Delete(url string) error
}

// DiskStore keeps images under Dir/book-covers and serves them from
// BaseURL (the guarded /media route).
type DiskStore struct {
	Dir     string
	BaseURL string // e.g. "/media"
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "book-covers"), 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func (s *DiskStore) Upload(data []byte, filename, mimeType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] || !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("unsupported image type %q (%s)", ext, mimeType)
	}
	key := "book-covers/" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, key), data, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

// Delete removes a previously uploaded image. Placeholder data URLs and
// foreign URLs are skipped, and a missing file is not an error (it may
// already be gone).
func (s *DiskStore) Delete(url string) error {
	if url == "" || strings.HasPrefix(url, "data:") {
		return nil
	}
	key, ok := strings.CutPrefix(url, s.BaseURL+"/")
	if !ok || strings.Contains(key, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.Dir, key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
