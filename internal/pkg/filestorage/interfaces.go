package filestorage

import "context"

// FileInfo represents information about a stored file
type FileInfo struct {
	Path     string // Full filesystem path
	Filename string // Name the file was stored under
	URL      string // Public URL, relative when no base URL is configured
	FileSize int64  // Size in bytes
	MimeType string
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes data under a name derived from filename and returns where it was stored
	Save(ctx context.Context, filename, mimeType string, data []byte) (*FileInfo, error)

	// DeleteFile removes a file from storage
	DeleteFile(fileURL string) error

	// GetFullPath returns the full filesystem path for a given file URL
	GetFullPath(fileURL string) string
}
