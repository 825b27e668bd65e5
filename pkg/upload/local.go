package upload

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Local stores uploads on the local filesystem, confined to a base
// directory to prevent path traversal.
type Local struct {
	baseDir string
	baseURL string
}

// NewLocal creates a filesystem backend rooted at baseDir (created if
// missing). baseURL is the public prefix used by URL, e.g. "/files/".
func NewLocal(baseDir, baseURL string) (*Local, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Local{baseDir: abs, baseURL: baseURL}, nil
}

// resolve maps a storage key to an absolute path inside baseDir.
func (l *Local) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	abs := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if !strings.HasPrefix(abs, l.baseDir+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return abs, nil
}

// Save writes the upload under key. Partial files are removed on failure.
func (l *Local) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*File, error) {
	if fh == nil {
		return nil, ErrNilFileHeader
	}
	dst, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenFile, err)
	}
	defer func() { _ = src.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}

	written, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return nil, errors.Join(ErrFailedToWriteFile, err)
	}

	mimeType, err := DetectMIMEType(fh)
	if err != nil {
		mimeType = "application/octet-stream"
	}

	return &File{
		Filename:  fh.Filename,
		Key:       key,
		Size:      written,
		MIMEType:  mimeType,
		Extension: Extension(fh),
		URL:       l.URL(key),
	}, nil
}

// Delete removes a stored upload; deleting a missing key is an error.
func (l *Local) Delete(_ context.Context, key string) error {
	abs, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return errors.Join(ErrFileNotFound, err)
		}
		return errors.Join(ErrFailedToDeleteFile, err)
	}
	return nil
}

// Exists reports whether key refers to a stored file.
func (l *Local) Exists(_ context.Context, key string) bool {
	abs, err := l.resolve(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

// URL returns the public URL for key, or "" when no baseURL is configured.
func (l *Local) URL(key string) string {
	if l.baseURL == "" {
		return ""
	}
	return l.baseURL + key
}
