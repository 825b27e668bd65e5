package upload

import "errors"

var (
	ErrNilFileHeader      = errors.New("file header is nil")
	ErrInvalidKey         = errors.New("invalid storage key") // path traversal guard
	ErrInvalidConfig      = errors.New("invalid storage configuration")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrMIMETypeNotAllowed = errors.New("MIME type is not allowed")

	ErrFailedToOpenFile   = errors.New("failed to open file")
	ErrFailedToReadFile   = errors.New("failed to read file")
	ErrFailedToWriteFile  = errors.New("failed to write file")
	ErrFailedToDeleteFile = errors.New("failed to delete file")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
