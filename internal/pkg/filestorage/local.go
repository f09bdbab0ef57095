package filestorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// URLPrefix is the route the storage directory is served under
const URLPrefix = "/exports"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // Optional, prepended to returned URLs
	logger   zerolog.Logger
}

// NewLocalStorage creates a new LocalStorage instance and ensures basePath exists.
func NewLocalStorage(basePath, baseURL string, logger zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  baseURL,
		logger:   logger,
	}, nil
}

// BasePath is the directory files are written to
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// Save writes data to a uniquely named file. The stem of filename is kept
// so exports stay recognizable: schedule.csv -> schedule-<uuid>.csv
func (ls *LocalStorage) Save(ctx context.Context, filename, mimeType string, data []byte) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filepath.Base(filename), ext)
	if stem == "" || stem == "." {
		stem = "file"
	}
	uniqueFilename := stem + "-" + uuid.New().String() + ext
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	if err := os.WriteFile(dstPath, data, 0o644); err != nil {
		ls.logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write file")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	info := &FileInfo{
		Path:     dstPath,
		Filename: uniqueFilename,
		URL:      ls.url(uniqueFilename),
		FileSize: int64(len(data)),
		MimeType: mimeType,
	}

	ls.logger.Info().Str("filename", filename).Str("saved_as", uniqueFilename).Str("url", info.URL).Msg("File saved successfully")
	return info, nil
}

func (ls *LocalStorage) url(name string) string {
	if ls.baseURL == "" {
		return URLPrefix + "/" + name
	}
	return strings.TrimRight(ls.baseURL, "/") + URLPrefix + "/" + name
}

// DeleteFile removes a file from the storage filesystem.
// Returns nil if the file doesn't exist.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		ls.logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		ls.logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	ls.logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the full filesystem path for a given file URL.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	filename := filepath.Base(fileURL)
	if filename == "" || filename == "." || filename == "/" || filename == strings.TrimPrefix(URLPrefix, "/") {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}
