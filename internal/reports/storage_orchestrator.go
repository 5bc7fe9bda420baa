package reports

import (
	"context"
	"fmt"
	"time"

	"rainscope/internal/logger"
	"rainscope/internal/storage"
)

// StorageOrchestrator handles storing generated snapshot files
type StorageOrchestrator struct {
	storage storage.StorageClient
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(storage storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{
		storage: storage,
	}
}

// StoreAllFiles writes every generated artifact into the snapshot folder for
// the given timestamp. The storage client derives the folder from the
// timestamp, so all files of one snapshot land together.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles, timestamp time.Time) error {
	if err := so.storage.StoreFile(ctx, []byte(files.HTMLContent), "index.html", timestamp); err != nil {
		return fmt.Errorf("failed to store HTML report: %w", err)
	}

	for filename, data := range files.JSONFiles {
		if err := so.storage.StoreFile(ctx, data, filename, timestamp); err != nil {
			return fmt.Errorf("failed to store JSON file %s: %w", filename, err)
		}
	}

	for filename, data := range files.AssetFiles {
		if err := so.storage.StoreFile(ctx, data, filename, timestamp); err != nil {
			return fmt.Errorf("failed to store asset file %s: %w", filename, err)
		}
	}

	logger.Info("Report snapshot stored", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  1 + len(files.JSONFiles) + len(files.AssetFiles),
	})
	return nil
}
