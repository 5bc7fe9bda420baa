package storage

import (
	"context"
	"time"
)

// StorageClient defines the interface for snapshot storage operations.
// File paths are relative to the reports root, e.g.
// "2026/08/23/RainfallReport-2026-08-23-10-00-00/index.html".
type StorageClient interface {
	// Close releases any resources held by the client
	Close() error

	// StoreFile stores a file in the snapshot folder for the given timestamp
	StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) error

	// GetFile retrieves a file by its path relative to the reports root
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// FileExists checks whether a file exists without reading it
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListReports lists snapshot index pages, newest first
	ListReports(ctx context.Context, limit int) ([]string, error)
}
