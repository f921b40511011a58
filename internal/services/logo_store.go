package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrBadUpload = errors.New("unsupported logo file")

var logoExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true,
}

// LogoStore places uploaded client logos under Dir and serves them at URLPrefix.
type LogoStore struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func NewLogoStore(dir string, maxBytes int64) (*LogoStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LogoStore{Dir: abs, URLPrefix: "/uploads/", MaxBytes: maxBytes}, nil
}

// Target checks an uploaded file header and returns the destination path and
// public URL. The file name is replaced by a random one.
func (s *LogoStore) Target(fh *multipart.FileHeader) (path, url string, err error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !logoExts[ext] {
		return "", "", fmt.Errorf("%w: extension %q", ErrBadUpload, ext)
	}
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", "", fmt.Errorf("%w: %d bytes exceeds %d", ErrBadUpload, fh.Size, s.MaxBytes)
	}
	name := uuid.NewString() + ext
	return filepath.Join(s.Dir, name), s.URLPrefix + name, nil
}

// Resolve maps a request path below URLPrefix to a file inside Dir, rejecting
// traversal attempts.
func (s *LogoStore) Resolve(rel string) (string, bool) {
	lower := strings.ToLower(rel)
	if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
		return "", false
	}
	clean := filepath.Clean(rel)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) || strings.ContainsRune(clean, os.PathSeparator) {
		return "", false
	}
	return filepath.Join(s.Dir, clean), true
}
