package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("GROQ_BASE_URL", "")
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("ACCOUNTS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI must be disabled without GROQ_API_KEY")
	}
	if cfg.AI.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected base URL: %s", cfg.AI.BaseURL)
	}
	if cfg.AI.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected default model: %s", cfg.AI.Model)
	}
	if cfg.Store.Path != "" {
		t.Fatalf("unexpected store path: %s", cfg.Store.Path)
	}
}

func TestLoadServerAddrVariants(t *testing.T) {
	tests := []struct {
		port    string
		want    string
		wantErr bool
	}{
		{"9090", ":9090", false},
		{":9090", ":9090", false},
		{"127.0.0.1:9090", "127.0.0.1:9090", false},
		{"bad port", "", true},
	}

	for _, tt := range tests {
		t.Setenv("PORT", tt.port)
		cfg, err := loadServerConfig()
		if tt.wantErr {
			if err == nil {
				t.Fatalf("PORT=%q: expected error", tt.port)
			}
			continue
		}
		if err != nil {
			t.Fatalf("PORT=%q: %v", tt.port, err)
		}
		if cfg.Addr != tt.want {
			t.Fatalf("PORT=%q: got %s want %s", tt.port, cfg.Addr, tt.want)
		}
	}
}

func TestAIConfigEnabled(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("GROQ_STREAM", "false")
	t.Setenv("GROQ_TIMEOUT_SECONDS", "30")

	cfg, err := loadAIConfig()
	if err != nil {
		t.Fatalf("loadAIConfig err: %v", err)
	}
	if !cfg.Enabled() {
		t.Fatal("expected AI enabled")
	}
	if cfg.StreamResponse {
		t.Fatal("GROQ_STREAM=false not honored")
	}
	if cfg.Timeout.Seconds() != 30 {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
}

func TestAIConfigInvalidValues(t *testing.T) {
	t.Setenv("GROQ_STREAM", "maybe")
	if _, err := loadAIConfig(); err == nil {
		t.Fatal("expected error for invalid GROQ_STREAM")
	}

	t.Setenv("GROQ_STREAM", "")
	t.Setenv("GROQ_TIMEOUT_SECONDS", "0")
	if _, err := loadAIConfig(); err == nil {
		t.Fatal("expected error for zero GROQ_TIMEOUT_SECONDS")
	}
}
