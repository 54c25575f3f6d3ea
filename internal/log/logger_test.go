// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger.Info("task assigned", slog.String(TaskIDKey, "t1"), slog.String(AgentIDKey, "a1"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "task assigned" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry[TaskIDKey] != "t1" {
		t.Errorf("%s = %v, want t1", TaskIDKey, entry[TaskIDKey])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "debug", Format: FormatText, Output: &buf})

	logger.Debug("sweep complete")

	if !strings.Contains(buf.String(), "sweep complete") {
		t.Errorf("text output missing message: %q", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "warn", Format: FormatJSON, Output: &buf})

	logger.Info("should be dropped")
	if buf.Len() != 0 {
		t.Errorf("info entry leaked past warn level: %q", buf.String())
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn entry was dropped")
	}
}

func TestNew_NilConfig(t *testing.T) {
	if logger := New(nil); logger == nil {
		t.Fatal("New(nil) returned nil logger")
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("debug flag wins", func(t *testing.T) {
		t.Setenv("ORCHESTRATOR_DEBUG", "1")
		t.Setenv("ORCHESTRATOR_LOG_LEVEL", "error")

		cfg := FromEnv()
		if cfg.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Level)
		}
		if !cfg.AddSource {
			t.Error("AddSource should be enabled in debug mode")
		}
	})

	t.Run("scoped level beats generic", func(t *testing.T) {
		t.Setenv("ORCHESTRATOR_DEBUG", "")
		t.Setenv("ORCHESTRATOR_LOG_LEVEL", "warn")
		t.Setenv("LOG_LEVEL", "error")

		cfg := FromEnv()
		if cfg.Level != "warn" {
			t.Errorf("Level = %q, want warn", cfg.Level)
		}
	})

	t.Run("format from env", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "TEXT")

		cfg := FromEnv()
		if cfg.Format != FormatText {
			t.Errorf("Format = %q, want text", cfg.Format)
		}
	})
}
