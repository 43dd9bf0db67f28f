package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"institutebackend/internal/domain"
)

// CloudinaryConfig holds account credentials and the target folder.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps event images in a Cloudinary folder. References are secure delivery URLs.
type CloudinaryStore struct {
	api     cloudinaryAPI
	folder  string
	timeout time.Duration
}

// NewCloudinaryStore builds a store from account credentials.
func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return newCloudinaryStore(&cld.Upload, cfg.Folder), nil
}

func newCloudinaryStore(api cloudinaryAPI, folder string) *CloudinaryStore {
	return &CloudinaryStore{api: api, folder: folder, timeout: 60 * time.Second}
}

var _ domain.ImageStore = (*CloudinaryStore)(nil)

func (s *CloudinaryStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	publicID := strings.TrimSuffix(name, path.Ext(name))
	resp, err := s.api.Upload(ctx, content, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload error: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStore) Remove(ctx context.Context, ref string) error {
	publicID, err := extractPublicID(ref)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	switch resp.Result {
	case "ok":
		return nil
	case "not found":
		return fmt.Errorf("image %s: %w", publicID, domain.ErrNotFound)
	default:
		return fmt.Errorf("delete error: %s %s", resp.Result, resp.Error.Message)
	}
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// extractPublicID turns https://res.cloudinary.com/<cloud>/image/upload/v123/events/abc.jpg into "events/abc".
func extractPublicID(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	i := 0
	for i < len(parts) && parts[i] != "upload" {
		i++
	}
	if i >= len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}
	rest := parts[i+1:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	joined := path.Join(rest...)
	return strings.TrimSuffix(joined, path.Ext(joined)), nil
}
