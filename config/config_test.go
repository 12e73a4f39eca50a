package config

import (
	"strings"
	"testing"
)

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("Load() should fail without GEMINI_API_KEY")
	}
	if !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("error should name the missing variable, got %q", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_OUTPUT_DIR", "")
	t.Setenv("MAX_HISTORY", "")
	t.Setenv("SERVER_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerAddr != ":8000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":8000")
	}
	if cfg.Gemini.Model != defaultModel {
		t.Errorf("Model = %q, want %q", cfg.Gemini.Model, defaultModel)
	}
	if cfg.Gemini.OutputDir != "output" {
		t.Errorf("OutputDir = %q, want %q", cfg.Gemini.OutputDir, "output")
	}
	if cfg.Gemini.MaxHistory != defaultMaxHistory {
		t.Errorf("MaxHistory = %d, want %d", cfg.Gemini.MaxHistory, defaultMaxHistory)
	}
	if cfg.Logging.ServiceName != "gemchat" {
		t.Errorf("ServiceName = %q, want %q", cfg.Logging.ServiceName, "gemchat")
	}
}

func TestLoadMaxHistoryParsing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "explicit", raw: "5", want: 5},
		{name: "unparsable", raw: "abc", want: defaultMaxHistory},
		{name: "non-positive", raw: "-1", want: defaultMaxHistory},
		{name: "empty", raw: "", want: defaultMaxHistory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")
			t.Setenv("MAX_HISTORY", tt.raw)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Gemini.MaxHistory != tt.want {
				t.Errorf("MaxHistory = %d, want %d", cfg.Gemini.MaxHistory, tt.want)
			}
		})
	}
}
