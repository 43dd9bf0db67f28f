package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"institutebackend/internal/domain"
)

// LocalStore writes images under <root>/uploads and serves them from /public/uploads.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore creates the uploads directory under root if it does not exist.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Join(root, UploadsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: "/public/" + UploadsDir + "/"}, nil
}

var _ domain.ImageStore = (*LocalStore)(nil)

// Save writes content to a new file and returns its public reference.
func (s *LocalStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	dst := filepath.Join(s.root, UploadsDir, name)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(out, content); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.urlPrefix + name, nil
}

// Remove deletes the file behind ref. References outside the uploads directory are rejected.
func (s *LocalStore) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("image %s: %w", ref, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

func (s *LocalStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + strings.TrimPrefix(ref, "/"))
	if !strings.HasPrefix(clean+"/", s.urlPrefix) || clean+"/" == s.urlPrefix {
		return "", fmt.Errorf("image reference %q is outside the uploads directory", ref)
	}
	return filepath.Join(s.root, UploadsDir, filepath.FromSlash(strings.TrimPrefix(clean, s.urlPrefix))), nil
}
