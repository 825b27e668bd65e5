package upload_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/upload"
)

// multipartFile builds a *multipart.FileHeader from raw content, the same
// way net/http produces one from a request.
func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

// pngHeader is a minimal valid PNG signature for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDetectMIMEType(t *testing.T) {
	t.Parallel()

	t.Run("png by content", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "photo.png", pngHeader)
		mimeType, err := upload.DetectMIMEType(fh)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mimeType)
	})

	t.Run("text strips charset parameter", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "notes.txt", []byte("plain text content"))
		mimeType, err := upload.DetectMIMEType(fh)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", mimeType)
	})

	t.Run("extension does not fool detection", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "image.png", []byte("not an image at all"))
		mimeType, err := upload.DetectMIMEType(fh)
		require.NoError(t, err)
		assert.Equal(t, "text/plain", mimeType)
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()

		_, err := upload.DetectMIMEType(nil)
		assert.ErrorIs(t, err, upload.ErrNilFileHeader)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("passes within constraints", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "photo.png", pngHeader)
		err := upload.Validate(fh, upload.Constraints{
			MaxSize:      1024,
			AllowedTypes: []string{"image/png", "image/jpeg"},
		})
		assert.NoError(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "photo.png", pngHeader)
		err := upload.Validate(fh, upload.Constraints{MaxSize: 4})
		assert.ErrorIs(t, err, upload.ErrFileTooLarge)
	})

	t.Run("disallowed type", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "script.sh", []byte("#!/bin/sh\necho hi\n"))
		err := upload.Validate(fh, upload.Constraints{AllowedTypes: []string{"image/png"}})
		assert.ErrorIs(t, err, upload.ErrMIMETypeNotAllowed)
	})

	t.Run("zero constraints allow anything", func(t *testing.T) {
		t.Parallel()

		fh := multipartFile(t, "anything.bin", []byte{0x00, 0x01, 0x02})
		assert.NoError(t, upload.Validate(fh, upload.Constraints{}))
	})

	t.Run("nil header", func(t *testing.T) {
		t.Parallel()

		err := upload.Validate(nil, upload.Constraints{})
		assert.ErrorIs(t, err, upload.ErrNilFileHeader)
	})
}

func TestRandomKey(t *testing.T) {
	t.Parallel()

	fh := multipartFile(t, "Photo.PNG", pngHeader)

	key := upload.RandomKey("avatars", fh)
	assert.True(t, strings.HasPrefix(key, "avatars/"))
	assert.True(t, strings.HasSuffix(key, ".png"), "extension is lowercased: %s", key)

	other := upload.RandomKey("avatars", fh)
	assert.NotEqual(t, key, other)
}

func TestLocal(t *testing.T) {
	t.Parallel()

	newBackend := func(t *testing.T) *upload.Local {
		t.Helper()
		backend, err := upload.NewLocal(t.TempDir(), "/files")
		require.NoError(t, err)
		return backend
	}

	t.Run("save and read back", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		backend, err := upload.NewLocal(dir, "/files/")
		require.NoError(t, err)

		fh := multipartFile(t, "photo.png", pngHeader)
		file, err := backend.Save(context.Background(), fh, "avatars/a.png")
		require.NoError(t, err)

		assert.Equal(t, "photo.png", file.Filename)
		assert.Equal(t, "avatars/a.png", file.Key)
		assert.Equal(t, int64(len(pngHeader)), file.Size)
		assert.Equal(t, "image/png", file.MIMEType)
		assert.Equal(t, ".png", file.Extension)
		assert.Equal(t, "/files/avatars/a.png", file.URL)

		data, err := os.ReadFile(filepath.Join(dir, "avatars", "a.png"))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
		assert.True(t, backend.Exists(context.Background(), "avatars/a.png"))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		t.Parallel()

		backend := newBackend(t)
		fh := multipartFile(t, "x.txt", []byte("x"))

		_, err := backend.Save(context.Background(), fh, "../escape.txt")
		assert.ErrorIs(t, err, upload.ErrInvalidKey)

		_, err = backend.Save(context.Background(), fh, "")
		assert.ErrorIs(t, err, upload.ErrInvalidKey)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		backend := newBackend(t)
		fh := multipartFile(t, "x.txt", []byte("x"))
		_, err := backend.Save(context.Background(), fh, "docs/x.txt")
		require.NoError(t, err)

		require.NoError(t, backend.Delete(context.Background(), "docs/x.txt"))
		assert.False(t, backend.Exists(context.Background(), "docs/x.txt"))

		err = backend.Delete(context.Background(), "docs/x.txt")
		assert.ErrorIs(t, err, upload.ErrFileNotFound)
	})

	t.Run("url without base", func(t *testing.T) {
		t.Parallel()

		backend, err := upload.NewLocal(t.TempDir(), "")
		require.NoError(t, err)
		assert.Empty(t, backend.URL("a.png"))
	})

	t.Run("empty base dir", func(t *testing.T) {
		t.Parallel()

		_, err := upload.NewLocal("", "/files")
		assert.ErrorIs(t, err, upload.ErrInvalidConfig)
	})
}

// s3Stub satisfies upload.S3Client without touching the network.
type s3Stub struct{}

func (s3Stub) PutObject(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func (s3Stub) HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{}, nil
}

func (s3Stub) DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3(t *testing.T) {
	t.Parallel()

	t.Run("requires bucket and region", func(t *testing.T) {
		t.Parallel()

		_, err := upload.NewS3(context.Background(), upload.S3Config{})
		assert.ErrorIs(t, err, upload.ErrInvalidConfig)
	})

	t.Run("url prefers base url", func(t *testing.T) {
		t.Parallel()

		backend, err := upload.NewS3(context.Background(), upload.S3Config{
			Bucket:  "media",
			Region:  "us-east-1",
			BaseURL: "https://cdn.example.com",
		}, upload.WithS3Client(s3Stub{}))
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com/a/b.png", backend.URL("a/b.png"))
	})

	t.Run("url falls back to bucket host", func(t *testing.T) {
		t.Parallel()

		backend, err := upload.NewS3(context.Background(), upload.S3Config{
			Bucket: "media",
			Region: "us-east-1",
		}, upload.WithS3Client(s3Stub{}))
		require.NoError(t, err)

		assert.Equal(t, "https://media.s3.amazonaws.com/a/b.png", backend.URL("a/b.png"))
	})
}
