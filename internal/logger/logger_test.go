package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     WARN,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 log lines with WARN level, got %d", len(lines))
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     INFO,
		Format:    JSONFormat,
		Output:    &buf,
		Component: "dataset",
	})

	logger.Info("dataset loaded", map[string]interface{}{
		"source": "station.csv",
		"days":   365,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Expected level INFO, got %s", entry.Level)
	}
	if entry.Message != "dataset loaded" {
		t.Errorf("Expected message 'dataset loaded', got %s", entry.Message)
	}
	if entry.Component != "dataset" {
		t.Errorf("Expected component 'dataset', got %s", entry.Component)
	}
	if entry.Fields["source"] != "station.csv" {
		t.Errorf("Expected field source='station.csv', got %v", entry.Fields["source"])
	}
	if entry.Fields["days"] != float64(365) { // JSON numbers are float64
		t.Errorf("Expected field days=365, got %v", entry.Fields["days"])
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{
		Level:     INFO,
		Format:    TextFormat,
		Output:    &buf,
		Component: "server",
	})

	logger.Info("request served", map[string]interface{}{"route": "/api/series"})

	output := buf.String()
	for _, want := range []string{"INFO", "[server]", "request served", "route=/api/series"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got %q", want, output)
		}
	}
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer

	logger := New(Config{Level: ERROR, Format: JSONFormat, Output: &buf})

	logger.Error("load failed", errors.New("connection refused"), map[string]interface{}{
		"source": "http://example.test/data.csv",
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Error != "connection refused" {
		t.Errorf("Expected error 'connection refused', got %s", entry.Error)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	base := New(Config{Level: INFO, Format: JSONFormat, Output: &buf, Component: "base"})
	base.WithComponent("charts").Info("rendered")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if entry.Component != "charts" {
		t.Errorf("Expected component 'charts', got %s", entry.Component)
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer

	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(New(Config{Level: INFO, Format: JSONFormat, Output: &buf}))

	Info("global info message")
	Warnf("global %s message", "warn")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var first, second LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("Failed to parse first JSON line: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Failed to parse second JSON line: %v", err)
	}
	if first.Level != "INFO" || first.Message != "global info message" {
		t.Errorf("First line incorrect: level=%s, message=%s", first.Level, first.Message)
	}
	if second.Level != "WARN" || second.Message != "global warn message" {
		t.Errorf("Second line incorrect: level=%s, message=%s", second.Level, second.Message)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", DEBUG},
		{"debug", DEBUG},
		{"info", INFO},
		{"WARNING", WARN},
		{"warn", WARN},
		{"Error", ERROR},
		{"fatal", FATAL},
		{"verbose", INFO}, // unknown falls back to INFO
		{"", INFO},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected LogFormat
	}{
		{"json", JSONFormat},
		{"JSON", JSONFormat},
		{"text", TextFormat},
		{"anything-else", TextFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.expected {
			t.Errorf("ParseFormat(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer

	original := GetGlobalLogger()
	defer SetGlobalLogger(original)

	SetGlobalLogger(New(Config{Level: INFO, Format: TextFormat, Output: &buf}))
	Configure("debug", "json")

	Debug("now visible")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output after Configure, got %q", buf.String())
	}
	if entry.Level != "DEBUG" {
		t.Errorf("Expected DEBUG entry after Configure, got %s", entry.Level)
	}
}

func BenchmarkJSONLogging(b *testing.B) {
	var buf bytes.Buffer
	logger := New(Config{Level: INFO, Format: JSONFormat, Output: &buf})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", map[string]interface{}{
			"iteration": i,
		})
	}
}
