// Package storage validates uploaded event images and persists them on local disk or Cloudinary.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"institutebackend/internal/domain"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize int64 = 5 << 20

// UploadsDir is the subdirectory of the public directory holding event images.
const UploadsDir = "uploads"

const imageTypeMessage = "Only image files (jpg, jpeg, png, gif) are allowed!"

var (
	allowedExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}
	allowedMIMETypes  = map[string]bool{"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true}
)

// ValidateImage checks the declared content type, the filename extension and the size.
// Both the extension and the content type must be allowed.
func ValidateImage(filename, contentType string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowedExtensions[ext] || !allowedMIMETypes[mediaType] {
		return domain.NewValidationError(imageTypeMessage)
	}
	if size > MaxImageSize {
		return domain.NewValidationError(fmt.Sprintf("Image exceeds the %d MB limit", MaxImageSize>>20))
	}
	return nil
}

// UniqueName builds "<unix-millis>-<token>-<sanitized original>".
func UniqueName(original string, now time.Time, token string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), token, sanitizeFilename(original))
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
		"/", "",
	)
	filename = replacer.Replace(filename)
	if filename == "" || filename == "." {
		filename = "image"
	}
	return filename
}
