package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envProvider, envModel, envBaseURL, envAPIKey, envMaxAttempts,
		envMaxRetries, envTimeout, envRepair, envLogLevel, envLogFormat,
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderOllama {
		t.Errorf("Provider = %q, want %q", cfg.Provider, ProviderOllama)
	}
	if cfg.Model != "llama3.2" {
		t.Errorf("Model = %q, want llama3.2", cfg.Model)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("Timeout = %s, want 2m0s", cfg.Timeout)
	}
	if cfg.Temperature != nil {
		t.Errorf("Temperature should be unset, got %v", *cfg.Temperature)
	}
	if cfg.Repair {
		t.Error("Repair should default to false")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	content := `
provider: OpenAI
model: gpt-4o-mini
base_url: "https://llm.internal/v1"
api_key: "${TEST_OPENAI_KEY}"
max_attempts: 5
max_retries: 0
timeout: 45s
temperature: 0.1
repair: true
log_level: debug
log_format: json
pricing:
  input_cost_per_million: 0.15
  output_cost_per_million: 0.6
`
	path := filepath.Join(t.TempDir(), "structguard.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %q, want openai", cfg.Provider)
	}
	if cfg.Model != "gpt-4o-mini" || cfg.BaseURL != "https://llm.internal/v1" {
		t.Errorf("unexpected model/base_url: %q %q", cfg.Model, cfg.BaseURL)
	}
	if cfg.APIKey != "sk-from-env" {
		t.Errorf("APIKey should expand ${VAR}, got %q", cfg.APIKey)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("explicit max_retries: 0 must be kept, got %d", cfg.MaxRetries)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s, want 45s", cfg.Timeout)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want 0.1", cfg.Temperature)
	}
	if !cfg.Repair || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("unexpected repair/log settings: %+v", cfg)
	}
	if cfg.Pricing == nil || cfg.Pricing.InputCostPerMillion != 0.15 || cfg.Pricing.OutputCostPerMillion != 0.6 {
		t.Errorf("unexpected pricing %+v", cfg.Pricing)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envProvider, "anthropic")
	t.Setenv(envModel, "claude-sonnet-4-5")
	t.Setenv(envMaxAttempts, "4")
	t.Setenv(envTimeout, "10s")
	t.Setenv(envRepair, "true")

	cfg, err := LoadFromReader(strings.NewReader("provider: ollama\nmodel: llama3.2\nmax_attempts: 2\n"))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}

	if cfg.Provider != ProviderAnthropic || cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("env should win over the file, got %q %q", cfg.Provider, cfg.Model)
	}
	if cfg.MaxAttempts != 4 || cfg.Timeout != 10*time.Second || !cfg.Repair {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "provider: ollama\nmodel: llama3.2\n  invalid: yaml: structure",
			wantErr: "unmarshal config",
		},
		{
			name:    "unknown provider",
			content: "provider: gemini",
			wantErr: `unknown provider "gemini"`,
		},
		{
			name:    "negative attempts",
			content: "max_attempts: -1",
			wantErr: "max_attempts must be at least 1",
		},
		{
			name:    "zero attempts",
			content: "max_attempts: 0",
			wantErr: "max_attempts must be at least 1",
		},
		{
			name:    "negative retries",
			content: "max_retries: -1",
			wantErr: "max_retries cannot be negative",
		},
		{
			name:    "negative env retries",
			env:     map[string]string{envMaxRetries: "-1"},
			wantErr: "max_retries cannot be negative",
		},
		{
			name:    "bad timeout",
			content: "timeout: soon",
			wantErr: `invalid timeout "soon"`,
		},
		{
			name:    "negative timeout",
			content: "timeout: -5s",
			wantErr: "timeout must be positive",
		},
		{
			name:    "temperature out of range",
			content: "temperature: 3.5",
			wantErr: "temperature must be within [0, 2]",
		},
		{
			name:    "negative pricing",
			content: "pricing:\n  input_cost_per_million: -1",
			wantErr: "pricing cannot be negative",
		},
		{
			name:    "bad env attempts",
			env:     map[string]string{envMaxAttempts: "three"},
			wantErr: "invalid STRUCTGUARD_MAX_ATTEMPTS",
		},
		{
			name:    "bad env repair",
			env:     map[string]string{envRepair: "sometimes"},
			wantErr: "invalid STRUCTGUARD_REPAIR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadFromReader(strings.NewReader(tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "open config") {
		t.Errorf("expected an open error, got %v", err)
	}
}
