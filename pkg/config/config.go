// Package config loads autopilot's YAML configuration file and applies
// defaults for anything the file leaves unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults. The session ceiling and step budgets are operational knobs,
// not tuned constants; override them in the config file as needed.
const (
	DefaultListenAddr         = ":8931"
	DefaultMaxSessions        = 100
	DefaultNavigationTimeout  = 10 * time.Second
	DefaultExtractStepBudget  = 10
	DefaultFormFillStepBudget = 20
	DefaultModel              = "gpt-4o"
	DefaultStorageType        = "local"
	DefaultStorageDir         = "screenshots"
	DefaultHeadless           = true
)

// Duration unmarshals from YAML strings in time.ParseDuration form ("10s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\"")
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the top-level autopilot configuration.
type Config struct {
	// ListenAddr is the address the SSE server binds to.
	ListenAddr string `yaml:"listen_addr"`

	Browser BrowserConfig `yaml:"browser"`
	Agent   AgentConfig   `yaml:"agent"`
	LLM     LLMConfig     `yaml:"llm"`
	Storage StorageConfig `yaml:"storage"`
}

// BrowserConfig controls the session registry and per-session behavior.
type BrowserConfig struct {
	// MaxSessions is the admission ceiling for concurrently live sessions.
	MaxSessions int `yaml:"max_sessions"`

	// NavigationTimeout bounds navigation and navigation-triggering clicks.
	NavigationTimeout Duration `yaml:"navigation_timeout"`

	// Headless controls whether browsers run without a visible window.
	Headless bool `yaml:"headless"`
}

// AgentConfig controls the agent loop step budgets.
type AgentConfig struct {
	// ExtractSteps is the step budget for read-only extraction goals.
	ExtractSteps int `yaml:"extract_steps"`

	// FormFillSteps is the step budget for multi-field form-filling goals.
	FormFillSteps int `yaml:"form_fill_steps"`
}

// LLMConfig configures the text-generation provider.
type LLMConfig struct {
	// APIKey for the provider. Falls back to OPENAI_API_KEY when empty.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible APIs).
	BaseURL string `yaml:"base_url"`

	Model string `yaml:"model"`
}

// StorageConfig configures screenshot persistence.
type StorageConfig struct {
	// Type selects the backend: "local" or "s3".
	Type string `yaml:"type"`

	// BaseDir is the root directory for local storage.
	BaseDir string `yaml:"base_dir"`

	// Bucket and Region configure the S3 backend.
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// Default returns a Config populated with every default value.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		Browser: BrowserConfig{
			MaxSessions:       DefaultMaxSessions,
			NavigationTimeout: Duration(DefaultNavigationTimeout),
			Headless:          DefaultHeadless,
		},
		Agent: AgentConfig{
			ExtractSteps:  DefaultExtractStepBudget,
			FormFillSteps: DefaultFormFillStepBudget,
		},
		LLM: LLMConfig{
			Model: DefaultModel,
		},
		Storage: StorageConfig{
			Type:    DefaultStorageType,
			BaseDir: DefaultStorageDir,
		},
	}
}

// Load reads the YAML config at path, layering it over the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Browser.MaxSessions < 1 {
		return fmt.Errorf("browser.max_sessions must be at least 1, got %d", c.Browser.MaxSessions)
	}
	if c.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be positive, got %s", c.Browser.NavigationTimeout.Std())
	}
	if c.Agent.ExtractSteps < 1 || c.Agent.FormFillSteps < 1 {
		return fmt.Errorf("agent step budgets must be at least 1")
	}
	switch c.Storage.Type {
	case "local", "s3":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}
