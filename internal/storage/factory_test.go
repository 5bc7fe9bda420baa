package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rainscope/internal/config"
)

func TestNewStorageClient_Local(t *testing.T) {
	cfg := &config.Config{
		LocalReportsDir: filepath.Join(t.TempDir(), "reports"),
	}

	client, err := NewStorageClient(context.Background(), DeploymentLocal, cfg)
	if err != nil {
		t.Fatalf("Failed to create local storage client: %v", err)
	}
	defer client.Close()

	// Verify it's a LocalStorageClient
	if _, ok := client.(*LocalStorageClient); !ok {
		t.Errorf("Expected LocalStorageClient, got %T", client)
	}
}

func TestNewStorageClient_LocalFallback(t *testing.T) {
	originalDir, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(originalDir)

	cfg := &config.Config{
		LocalReportsDir: "", // Empty to test default fallback
	}

	client, err := NewStorageClient(context.Background(), DeploymentLocal, cfg)
	if err != nil {
		t.Fatalf("Failed to create storage client: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*LocalStorageClient); !ok {
		t.Errorf("Expected LocalStorageClient fallback, got %T", client)
	}
}

func TestNewStorageClient_MissingBucket(t *testing.T) {
	cfg := &config.Config{
		GCPProjectID: "test-project",
		GCSBucket:    "", // Empty bucket
	}

	client, err := NewStorageClient(context.Background(), DeploymentGCS, cfg)
	if err == nil {
		if client != nil {
			client.Close()
		}
		t.Error("Expected error with empty GCS bucket")
	}
}

func TestNewStorageClient_NilConfig(t *testing.T) {
	client, err := NewStorageClient(context.Background(), DeploymentLocal, nil)
	if err == nil {
		if client != nil {
			client.Close()
		}
		t.Error("Expected error with nil config")
	}
}

func TestNewStorageClient_InvalidMode(t *testing.T) {
	cfg := &config.Config{
		LocalReportsDir: t.TempDir(),
	}

	client, err := NewStorageClient(context.Background(), DeploymentMode("invalid"), cfg)
	if err == nil {
		if client != nil {
			client.Close()
		}
		t.Error("Expected error with invalid deployment mode")
	}
}

func TestStorageClientInterface(t *testing.T) {
	// Both implementations must satisfy the StorageClient interface
	var _ StorageClient = (*LocalStorageClient)(nil)
	var _ StorageClient = (*GCSClient)(nil)
}
