// Package config loads the structguard CLI settings from an optional YAML
// file, environment variables and defaults, in increasing order of
// precedence: defaults, then the file, then STRUCTGUARD_* variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/structguard/core/cost"
)

// Supported providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	defaultProvider    = ProviderOllama
	defaultModel       = "llama3.2"
	defaultMaxAttempts = 3
	defaultMaxRetries  = 2
	defaultTimeout     = 120 * time.Second

	envProvider    = "STRUCTGUARD_PROVIDER"
	envModel       = "STRUCTGUARD_MODEL"
	envBaseURL     = "STRUCTGUARD_BASE_URL"
	envAPIKey      = "STRUCTGUARD_API_KEY"
	envMaxAttempts = "STRUCTGUARD_MAX_ATTEMPTS"
	envMaxRetries  = "STRUCTGUARD_MAX_RETRIES"
	envTimeout     = "STRUCTGUARD_TIMEOUT"
	envRepair      = "STRUCTGUARD_REPAIR"
	envLogLevel    = "STRUCTGUARD_LOG_LEVEL"
	envLogFormat   = "STRUCTGUARD_LOG_FORMAT"
)

// Config holds the runtime settings of the CLI.
type Config struct {
	// Provider is one of "ollama", "openai" or "anthropic".
	Provider string `yaml:"provider"`
	// Model is passed to the provider with every completion.
	Model string `yaml:"model"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"base_url"`
	// APIKey overrides the provider's environment variable.
	APIKey string `yaml:"api_key"`
	// MaxAttempts is the validation retry budget.
	MaxAttempts int `yaml:"max_attempts"`
	// MaxRetries is the transport retry budget per completion (429/5xx).
	MaxRetries int `yaml:"max_retries"`
	// Timeout bounds a single completion.
	Timeout time.Duration `yaml:"-"`
	// Temperature overrides the provider default when set.
	Temperature *float64 `yaml:"temperature,omitempty"`
	// Repair enables local JSON repair before retrying.
	Repair bool `yaml:"repair"`
	// LogLevel and LogFormat configure the slog observer. Empty values fall
	// back to the observer's own environment lookup.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// Pricing prices the tokens spent by a resolution. Nil for local models.
	Pricing *cost.ModelCost `yaml:"pricing,omitempty"`

	timeoutRaw string
}

// Load reads the configuration at path. An empty path yields the defaults
// with environment overrides applied.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return LoadFromReader(strings.NewReader(""))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

// LoadFromReader constructs a Config from YAML read from r.
func LoadFromReader(r io.Reader) (*Config, error) {
	var raw struct {
		Provider    string          `yaml:"provider"`
		Model       string          `yaml:"model"`
		BaseURL     string          `yaml:"base_url"`
		APIKey      string          `yaml:"api_key"`
		MaxAttempts *int            `yaml:"max_attempts"`
		MaxRetries  *int            `yaml:"max_retries"`
		Timeout     string          `yaml:"timeout"`
		Temperature *float64        `yaml:"temperature"`
		Repair      bool            `yaml:"repair"`
		LogLevel    string          `yaml:"log_level"`
		LogFormat   string          `yaml:"log_format"`
		Pricing     *cost.ModelCost `yaml:"pricing"`
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := &Config{
		Provider:    raw.Provider,
		Model:       raw.Model,
		BaseURL:     raw.BaseURL,
		APIKey:      raw.APIKey,
		MaxAttempts: defaultMaxAttempts,
		MaxRetries:  defaultMaxRetries,
		Temperature: raw.Temperature,
		Repair:      raw.Repair,
		LogLevel:    raw.LogLevel,
		LogFormat:   raw.LogFormat,
		Pricing:     raw.Pricing,
		timeoutRaw:  raw.Timeout,
	}
	if raw.MaxAttempts != nil {
		cfg.MaxAttempts = *raw.MaxAttempts
	}
	if raw.MaxRetries != nil {
		cfg.MaxRetries = *raw.MaxRetries
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.parseTimeout(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("config: unknown provider %q (want %s, %s or %s)",
			c.Provider, ProviderOllama, ProviderOpenAI, ProviderAnthropic)
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("config: model is required")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("config: max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.MaxRetries < 0 {
		return errors.New("config: max_retries cannot be negative")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("config: temperature must be within [0, 2], got %g", *c.Temperature)
	}
	if c.Pricing != nil && (c.Pricing.InputCostPerMillion < 0 || c.Pricing.OutputCostPerMillion < 0) {
		return errors.New("config: pricing cannot be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = defaultProvider
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModel
	}
}

func (c *Config) applyEnvOverrides() error {
	c.Provider = expandAndOverride(c.Provider, envProvider)
	c.Model = expandAndOverride(c.Model, envModel)
	c.BaseURL = expandAndOverride(c.BaseURL, envBaseURL)
	c.APIKey = expandAndOverride(c.APIKey, envAPIKey)
	c.LogLevel = expandAndOverride(c.LogLevel, envLogLevel)
	c.LogFormat = expandAndOverride(c.LogFormat, envLogFormat)

	if raw := os.Getenv(envTimeout); raw != "" {
		c.timeoutRaw = raw
	} else {
		c.timeoutRaw = os.ExpandEnv(c.timeoutRaw)
	}

	if raw := os.Getenv(envMaxAttempts); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", envMaxAttempts, raw, err)
		}
		c.MaxAttempts = v
	}
	if raw := os.Getenv(envMaxRetries); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", envMaxRetries, raw, err)
		}
		c.MaxRetries = v
	}
	if raw := os.Getenv(envRepair); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("config: invalid %s %q: %w", envRepair, raw, err)
		}
		c.Repair = v
	}
	return nil
}

func (c *Config) parseTimeout() error {
	if strings.TrimSpace(c.timeoutRaw) == "" {
		c.Timeout = defaultTimeout
		return nil
	}

	d, err := time.ParseDuration(c.timeoutRaw)
	if err != nil {
		return fmt.Errorf("config: invalid timeout %q: %w", c.timeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", d)
	}
	c.Timeout = d
	return nil
}

func expandAndOverride(current, envKey string) string {
	current = os.ExpandEnv(current)
	if envVal := os.Getenv(envKey); envVal != "" {
		return envVal
	}
	return current
}
