package config

import (
	"os"
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	originalVersion := os.Getenv("APP_VERSION")
	defer func() {
		if originalVersion != "" {
			os.Setenv("APP_VERSION", originalVersion)
		} else {
			os.Unsetenv("APP_VERSION")
		}
	}()

	tests := []struct {
		name           string
		envVersion     string
		expectContains string
	}{
		{
			name:           "version from environment variable",
			envVersion:     "1.2.3",
			expectContains: "1.2.3",
		},
		{
			name:           "version from environment with build number",
			envVersion:     "2.0.0-beta.1",
			expectContains: "2.0.0-beta.1",
		},
		{
			name:       "version without env var",
			envVersion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("APP_VERSION")
			if tt.envVersion != "" {
				os.Setenv("APP_VERSION", tt.envVersion)
			}

			version := GetVersion()

			if version == "" {
				t.Error("Version should not be empty")
			}
			if tt.expectContains != "" && !strings.Contains(version, tt.expectContains) {
				t.Errorf("Expected version to contain '%s', got '%s'", tt.expectContains, version)
			}
			if !strings.Contains(version, ".") {
				t.Errorf("Expected version to contain '.', got '%s'", version)
			}
		})
	}
}

func TestGetBaseVersionFallback(t *testing.T) {
	// In a directory without a VERSION file the fallback applies
	tempDir := t.TempDir()
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	os.Chdir(tempDir)

	if version := getBaseVersion(); version != "0.1.0" {
		t.Errorf("Expected fallback version '0.1.0', got '%s'", version)
	}
}

func TestGetBaseVersionFromFile(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(tempDir+"/VERSION", []byte("1.5.0\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test VERSION file: %v", err)
	}

	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(tempDir)

	if version := getBaseVersion(); version != "1.5.0" {
		t.Errorf("Expected version '1.5.0' from VERSION file, got '%s'", version)
	}
}

func TestGetGitCommitCount(t *testing.T) {
	// Outside a git checkout this is 0; inside it is positive
	if count := getGitCommitCount(); count < 0 {
		t.Errorf("Expected non-negative commit count, got %d", count)
	}
}
