// Package config loads JobSeeker Buddy settings from a JSON or YAML file and
// the environment, and turns them into the options each component takes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/jobseeker-buddy/internal/documents"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/storage"
)

// Config is the file representation of the settings. All fields are optional;
// missing values fall back to Default.
type Config struct {
	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url"` // PostgreSQL; SQLite is used when empty
	SQLitePath  string `json:"sqlite_path,omitempty" yaml:"sqlite_path"`
	AssetsDir   string `json:"assets_dir,omitempty" yaml:"assets_dir"`

	// Server
	Port int `json:"port,omitempty" yaml:"port"`

	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Scraper    ScraperConfig    `json:"scraper" yaml:"scraper"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`

	Verbose bool `json:"verbose,omitempty" yaml:"verbose"`
}

// LLMConfig selects and tunes the generation model backend.
type LLMConfig struct {
	Provider   string            `json:"provider,omitempty" yaml:"provider"` // local, openai or gemini
	BaseURL    string            `json:"base_url,omitempty" yaml:"base_url"`
	APIKey     string            `json:"api_key,omitempty" yaml:"api_key"`
	Models     map[string]string `json:"models,omitempty" yaml:"models"` // tier -> model
	MaxTokens  int               `json:"max_tokens,omitempty" yaml:"max_tokens"`
	Timeout    string            `json:"timeout,omitempty" yaml:"timeout"`
	MaxRetries int               `json:"max_retries,omitempty" yaml:"max_retries"`
	RetryDelay string            `json:"retry_delay,omitempty" yaml:"retry_delay"`
}

// ScraperConfig selects the scraping strategy.
type ScraperConfig struct {
	Mode       string `json:"mode,omitempty" yaml:"mode"` // inline or service
	ServiceURL string `json:"service_url,omitempty" yaml:"service_url"`
	UseBrowser bool   `json:"use_browser,omitempty" yaml:"use_browser"`
	Timeout    string `json:"timeout,omitempty" yaml:"timeout"`
	MaxRetries int    `json:"max_retries,omitempty" yaml:"max_retries"`
	RetryDelay string `json:"retry_delay,omitempty" yaml:"retry_delay"`
}

// GenerationConfig tunes document generation.
type GenerationConfig struct {
	Tier            string `json:"tier,omitempty" yaml:"tier"`
	Timeout         string `json:"timeout,omitempty" yaml:"timeout"`
	IncludePrevious bool   `json:"include_previous,omitempty" yaml:"include_previous"`
}

// Default returns the built-in settings: SQLite storage, a local model server
// and inline scraping.
func Default() Config {
	return Config{
		SQLitePath: "jobseeker-buddy.db",
		AssetsDir:  storage.DefaultDir,
		Port:       8080,
		LLM: LLMConfig{
			Provider:   string(llm.ProviderLocal),
			MaxTokens:  llm.DefaultMaxTokens,
			Timeout:    llm.DefaultTimeout.String(),
			MaxRetries: 3,
			RetryDelay: "1s",
		},
		Scraper: ScraperConfig{
			Mode:       string(scraper.ModeInline),
			Timeout:    "30s",
			MaxRetries: 2,
			RetryDelay: "1s",
		},
		Generation: GenerationConfig{
			Tier: string(llm.TierAdvanced),
		},
	}
}

// LoadConfig reads a config file. Files ending in .yaml or .yml are parsed as
// YAML with ${VAR} references expanded; anything else is parsed as JSON.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.SQLitePath, "SQLITE_PATH")
	set(&c.AssetsDir, "ASSETS_DIR")
	if port, err := strconv.Atoi(getenv("PORT")); err == nil {
		c.Port = port
	}

	set(&c.LLM.Provider, "LLM_PROVIDER")
	set(&c.LLM.BaseURL, "LLM_API_URL")
	set(&c.LLM.APIKey, "LLM_API_KEY")
	if c.LLM.APIKey == "" {
		switch llm.Provider(c.LLM.Provider) {
		case llm.ProviderOpenAI:
			set(&c.LLM.APIKey, "OPENAI_API_KEY")
		case llm.ProviderGemini:
			set(&c.LLM.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
		}
	}
	if model := getenv("LLM_MODEL"); model != "" {
		c.LLM.Models = map[string]string{
			string(llm.TierLite):     model,
			string(llm.TierStandard): model,
			string(llm.TierAdvanced): model,
		}
	}

	set(&c.Scraper.Mode, "SCRAPER_MODE")
	set(&c.Scraper.ServiceURL, "SCRAPER_SERVICE_URL")
	if v, err := strconv.ParseBool(getenv("USE_BROWSER")); err == nil {
		c.Scraper.UseBrowser = v
	}

	set(&c.Generation.Timeout, "GENERATION_TIMEOUT")
}

// Validate checks enums, durations and the keys each provider needs.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderLocal, "":
	case llm.ProviderOpenAI, llm.ProviderGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("config error: llm provider %q requires an API key", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("config error: unknown llm provider %q (want local, openai or gemini)", c.LLM.Provider)
	}
	for tier := range c.LLM.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	switch scraper.Mode(c.Scraper.Mode) {
	case scraper.ModeInline, "":
	case scraper.ModeService:
		if c.Scraper.ServiceURL == "" {
			return fmt.Errorf("config error: scraper mode %q requires 'service_url'", c.Scraper.Mode)
		}
	default:
		return fmt.Errorf("config error: unknown scraper mode %q (want inline or service)", c.Scraper.Mode)
	}

	switch llm.ModelTier(c.Generation.Tier) {
	case llm.TierLite, llm.TierStandard, llm.TierAdvanced, "":
	default:
		return fmt.Errorf("config error: unknown generation tier %q", c.Generation.Tier)
	}

	if c.LLM.MaxTokens < 0 || c.LLM.MaxRetries < 0 || c.Scraper.MaxRetries < 0 {
		return fmt.Errorf("config error: 'max_tokens' and 'max_retries' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	durations := map[string]string{
		"llm.timeout":         c.LLM.Timeout,
		"llm.retry_delay":     c.LLM.RetryDelay,
		"scraper.timeout":     c.Scraper.Timeout,
		"scraper.retry_delay": c.Scraper.RetryDelay,
		"generation.timeout":  c.Generation.Timeout,
	}
	for field, value := range durations {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("config error: '%s': %w", field, err)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// Booleans cannot be told apart from unset, so they are never merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.SQLitePath, defaults.SQLitePath)
	mergeString(&result.AssetsDir, defaults.AssetsDir)
	mergeInt(&result.Port, defaults.Port)

	mergeString(&result.LLM.Provider, defaults.LLM.Provider)
	mergeString(&result.LLM.BaseURL, defaults.LLM.BaseURL)
	mergeString(&result.LLM.APIKey, defaults.LLM.APIKey)
	mergeInt(&result.LLM.MaxTokens, defaults.LLM.MaxTokens)
	mergeString(&result.LLM.Timeout, defaults.LLM.Timeout)
	mergeInt(&result.LLM.MaxRetries, defaults.LLM.MaxRetries)
	mergeString(&result.LLM.RetryDelay, defaults.LLM.RetryDelay)
	if len(result.LLM.Models) == 0 && len(defaults.LLM.Models) > 0 {
		result.LLM.Models = make(map[string]string, len(defaults.LLM.Models))
		for k, v := range defaults.LLM.Models {
			result.LLM.Models[k] = v
		}
	}

	mergeString(&result.Scraper.Mode, defaults.Scraper.Mode)
	mergeString(&result.Scraper.ServiceURL, defaults.Scraper.ServiceURL)
	mergeString(&result.Scraper.Timeout, defaults.Scraper.Timeout)
	mergeInt(&result.Scraper.MaxRetries, defaults.Scraper.MaxRetries)
	mergeString(&result.Scraper.RetryDelay, defaults.Scraper.RetryDelay)

	mergeString(&result.Generation.Tier, defaults.Generation.Tier)
	mergeString(&result.Generation.Timeout, defaults.Generation.Timeout)

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

// parseDuration accepts an empty string as zero.
func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", value)
	}
	return d, nil
}

// ModelConfig builds the model client configuration: the provider's defaults
// overridden by any explicit base URL, key, models, token limit and timeout.
func (c *Config) ModelConfig() (*llm.Config, error) {
	provider := llm.Provider(c.LLM.Provider)
	if provider == "" {
		provider = llm.ProviderLocal
	}
	cfg := llm.ConfigFor(provider)
	if cfg == nil {
		return nil, fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	cfg.APIKey = c.LLM.APIKey
	for tier, model := range c.LLM.Models {
		cfg = cfg.WithModel(llm.ModelTier(tier), model)
	}
	if c.LLM.MaxTokens > 0 {
		cfg.MaxTokens = c.LLM.MaxTokens
	}
	timeout, err := parseDuration(c.LLM.Timeout)
	if err != nil {
		return nil, fmt.Errorf("llm timeout: %w", err)
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// RetryPolicy returns the model client's retry count and base delay.
func (c *Config) RetryPolicy() (int, time.Duration) {
	delay, _ := parseDuration(c.LLM.RetryDelay)
	return c.LLM.MaxRetries, delay
}

// ScraperOptions returns the options for scraper.New.
func (c *Config) ScraperOptions() scraper.Options {
	timeout, _ := parseDuration(c.Scraper.Timeout)
	delay, _ := parseDuration(c.Scraper.RetryDelay)
	return scraper.Options{
		Mode:         scraper.Mode(c.Scraper.Mode),
		ServiceURL:   c.Scraper.ServiceURL,
		UseBrowser:   c.Scraper.UseBrowser,
		FetchTimeout: timeout,
		MaxRetries:   c.Scraper.MaxRetries,
		RetryDelay:   delay,
	}
}

// DocumentOptions returns the options for documents.NewService.
func (c *Config) DocumentOptions() documents.Options {
	timeout, _ := parseDuration(c.Generation.Timeout)
	return documents.Options{
		Tier:              llm.ModelTier(c.Generation.Tier),
		GenerationTimeout: timeout,
		IncludePrevious:   c.Generation.IncludePrevious,
	}
}
