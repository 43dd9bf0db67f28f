package domain

import (
	"context"
	"io"
)

// ImageStore persists uploaded event images and resolves them back for deletion.
// Save returns the public reference stored in Event.ImagePath.
// Remove returns an error matching ErrNotFound when the referenced file is already gone.
type ImageStore interface {
	Save(ctx context.Context, name string, content io.Reader) (ref string, err error)
	Remove(ctx context.Context, ref string) error
}
