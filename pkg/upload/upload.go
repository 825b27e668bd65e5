// Package upload handles multipart file uploads: content validation (size
// and detected MIME type, not the client-supplied one) and storage backends
// for the local filesystem and Amazon S3 or S3-compatible services.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File describes a stored upload.
type File struct {
	Filename  string
	Key       string
	Size      int64
	MIMEType  string
	Extension string
	URL       string
}

// Storage is the backend contract for persisted uploads.
type Storage interface {
	// Save stores the upload under key and returns its metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*File, error)
	// Delete removes a stored upload.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) bool
	// URL returns the public URL for key.
	URL(key string) string
}

// Constraints restrict what an upload may contain. Zero values disable the
// corresponding check.
type Constraints struct {
	MaxSize      int64    // bytes
	AllowedTypes []string // detected MIME types, e.g. "image/png"
}

// Validate checks an upload against the constraints. The MIME type is
// detected from content, never taken from the request, so a renamed
// executable does not pass as an image.
func Validate(fh *multipart.FileHeader, c Constraints) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if c.MaxSize > 0 && fh.Size > c.MaxSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, fh.Size, c.MaxSize)
	}
	if len(c.AllowedTypes) > 0 {
		mimeType, err := DetectMIMEType(fh)
		if err != nil {
			return err
		}
		for _, allowed := range c.AllowedTypes {
			if mimeType == allowed {
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrMIMETypeNotAllowed, mimeType)
	}
	return nil
}

// DetectMIMEType sniffs the MIME type from the first 512 bytes of content.
func DetectMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}
	f, err := fh.Open()
	if err != nil {
		return "", errors.Join(ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Join(ErrFailedToReadFile, err)
	}
	mimeType := http.DetectContentType(buf[:n])
	// Strip parameters like "; charset=utf-8".
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	return mimeType, nil
}

// Extension returns the upload's file extension including the dot.
func Extension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return filepath.Ext(fh.Filename)
}

// RandomKey generates a collision-free storage key under dir, keeping the
// original extension: "avatars/5f0c….png".
func RandomKey(dir string, fh *multipart.FileHeader) string {
	return path.Join(dir, uuid.New().String()+strings.ToLower(Extension(fh)))
}
