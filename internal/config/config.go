// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete terchat configuration.
type Config struct {
	Model          string `toml:"model"`
	SystemPrompt   string `toml:"system_prompt"`
	TranscriptPath string `toml:"transcript_path"`
	MaxInputChars  int    `toml:"max_input_chars"`

	Cloud  CloudConfig  `toml:"cloud"`
	Log    LogConfig    `toml:"log"`
	Tokens TokensConfig `toml:"tokens"`
	UI     UIConfig     `toml:"ui"`
}

// CloudConfig holds the OpenRouter connection settings.
type CloudConfig struct {
	OpenRouterKey string `toml:"openrouter_key"`
	BaseURL       string `toml:"base_url"`
	SiteURL       string `toml:"site_url"`
	SiteName      string `toml:"site_name"`
}

// LogConfig controls the diagnostics file. Path "off" disables logging.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// TokensConfig selects the tokenizer used for reply metrics.
type TokensConfig struct {
	EncodingModel string `toml:"encoding_model"`
}

// UIConfig holds terminal settings.
type UIConfig struct {
	AltScreen       bool `toml:"alt_screen"`
	ScrollbackBytes int  `toml:"scrollback_bytes"`
}

// LogOff disables the log file when used as log.path.
const LogOff = "off"

// Default returns a config with all default values.
func Default() *Config {
	return &Config{
		Model:          "deepseek/deepseek-chat:free",
		SystemPrompt:   "You are a friendly assistant.",
		TranscriptPath: "chat_history.txt",
		MaxInputChars:  100,
		Cloud: CloudConfig{
			BaseURL:  "https://openrouter.ai/api/v1",
			SiteURL:  "https://example.com",
			SiteName: "Ter Chat",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tokens: TokensConfig{
			EncodingModel: "gpt-3.5-turbo",
		},
		UI: UIConfig{
			AltScreen:       true,
			ScrollbackBytes: 64 * 1024,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the terchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".terchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns ~/.terchat/terchat.log.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "terchat.log"), nil
}

// ensureSecurePermissions tightens a config file to 0600. It holds an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.terchat/config.toml and .env in the working directory, then
// applies environment overrides, defaults and validation. Missing files are
// not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path, ".env")
}

// LoadFrom is Load with explicit file locations. Either path may be empty.
//
// Values in the dotenv file only apply when the real environment does not
// set the same variable.
func LoadFrom(configPath, dotenvPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := LoadTOML(cfg, configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", configPath, err)
		}
	}

	dotenv := map[string]string{}
	if dotenvPath != "" {
		vals, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}

	cfg.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	})

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg, tightening its
// permissions first. Keys absent from the file keep their values.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv applies environment variable overrides:
//
//   - OPENROUTER_API_KEY, TERCHAT_OPENROUTER_KEY: cloud.openrouter_key
//   - TERCHAT_MODEL: model
//   - TERCHAT_SYSTEM_PROMPT: system_prompt
//   - TERCHAT_TRANSCRIPT: transcript_path
//   - TERCHAT_BASE_URL: cloud.base_url
//   - TERCHAT_LOG_PATH: log.path
//   - TERCHAT_LOG_LEVEL: log.level
func (c *Config) applyEnv(getenv func(string) string) {
	if key := getenv("OPENROUTER_API_KEY"); key != "" {
		c.Cloud.OpenRouterKey = key
	}
	// The terchat-specific name wins over the generic one.
	if key := getenv("TERCHAT_OPENROUTER_KEY"); key != "" {
		c.Cloud.OpenRouterKey = key
	}
	if model := getenv("TERCHAT_MODEL"); model != "" {
		c.Model = model
	}
	if prompt := getenv("TERCHAT_SYSTEM_PROMPT"); prompt != "" {
		c.SystemPrompt = prompt
	}
	if path := getenv("TERCHAT_TRANSCRIPT"); path != "" {
		c.TranscriptPath = path
	}
	if u := getenv("TERCHAT_BASE_URL"); u != "" {
		c.Cloud.BaseURL = u
	}
	if path := getenv("TERCHAT_LOG_PATH"); path != "" {
		c.Log.Path = path
	}
	if level := getenv("TERCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// SetDefaults fills zero-value fields with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	c.Cloud.OpenRouterKey = strings.TrimSpace(c.Cloud.OpenRouterKey)
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = defaults.SystemPrompt
	}
	if c.TranscriptPath == "" {
		c.TranscriptPath = defaults.TranscriptPath
	}
	if c.MaxInputChars == 0 {
		c.MaxInputChars = defaults.MaxInputChars
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = defaults.Cloud.BaseURL
	}
	if c.Cloud.SiteURL == "" {
		c.Cloud.SiteURL = defaults.Cloud.SiteURL
	}
	if c.Cloud.SiteName == "" {
		c.Cloud.SiteName = defaults.Cloud.SiteName
	}
	if c.Log.Path == "" {
		if path, err := DefaultLogPath(); err == nil {
			c.Log.Path = path
		} else {
			c.Log.Path = LogOff
		}
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Tokens.EncodingModel == "" {
		c.Tokens.EncodingModel = defaults.Tokens.EncodingModel
	}
	if c.UI.ScrollbackBytes == 0 {
		c.UI.ScrollbackBytes = defaults.UI.ScrollbackBytes
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// MaxInputCharsLimit bounds max_input_chars.
const MaxInputCharsLimit = 4096

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration. It returns ValidateErrors listing
// every problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if strings.TrimSpace(c.Model) == "" {
		errs = append(errs, ValidationError{Field: "model", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		errs = append(errs, ValidationError{Field: "system_prompt", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.TranscriptPath) == "" {
		errs = append(errs, ValidationError{Field: "transcript_path", Message: "must not be empty"})
	}
	if c.MaxInputChars < 1 || c.MaxInputChars > MaxInputCharsLimit {
		errs = append(errs, ValidationError{
			Field:   "max_input_chars",
			Message: fmt.Sprintf("must be between 1 and %d, got %d", MaxInputCharsLimit, c.MaxInputChars),
		})
	}

	if err := validateHTTPURL(c.Cloud.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "cloud.base_url", Message: err.Error()})
	}
	if err := validateHTTPURL(c.Cloud.SiteURL); err != nil {
		errs = append(errs, ValidationError{Field: "cloud.site_url", Message: err.Error()})
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if c.UI.ScrollbackBytes < 0 {
		errs = append(errs, ValidationError{Field: "ui.scrollback_bytes", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

// LogDisabled reports whether the log file is turned off.
func (c *Config) LogDisabled() bool {
	return strings.EqualFold(c.Log.Path, LogOff)
}

// String renders the config as TOML with the API key redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Cloud.OpenRouterKey != "" {
		safe.Cloud.OpenRouterKey = "[REDACTED]"
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
