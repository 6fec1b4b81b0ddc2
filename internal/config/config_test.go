// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable the config reads for the test's duration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENROUTER_API_KEY", "TERCHAT_OPENROUTER_KEY", "TERCHAT_MODEL",
		"TERCHAT_SYSTEM_PROMPT", "TERCHAT_TRANSCRIPT", "TERCHAT_BASE_URL",
		"TERCHAT_LOG_PATH", "TERCHAT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, dir, name, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	return path
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "deepseek/deepseek-chat:free", cfg.Model)
	assert.Equal(t, "chat_history.txt", cfg.TranscriptPath)
	assert.Equal(t, 100, cfg.MaxInputChars)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Cloud.BaseURL)
	assert.Equal(t, "Ter Chat", cfg.Cloud.SiteName)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Tokens.EncodingModel)
	assert.Empty(t, cfg.Cloud.OpenRouterKey)
	assert.True(t, cfg.UI.AltScreen)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_MissingFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(dir, "none.toml"), filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, Default().Model, cfg.Model)
	assert.NotEmpty(t, cfg.Log.Path)
}

func TestLoadFrom_TOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `
model = "openai/gpt-4o-mini"
max_input_chars = 200

[cloud]
openrouter_key = "sk-or-file"

[log]
path = "off"
level = "DEBUG"

[ui]
alt_screen = false
`, 0644)

	cfg, err := LoadFrom(path, "")
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o-mini", cfg.Model)
	assert.Equal(t, 200, cfg.MaxInputChars)
	assert.Equal(t, "sk-or-file", cfg.Cloud.OpenRouterKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.LogDisabled())
	assert.False(t, cfg.UI.AltScreen)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, Default().Cloud.BaseURL, cfg.Cloud.BaseURL)
	assert.Equal(t, Default().SystemPrompt, cfg.SystemPrompt)
}

func TestLoadFrom_TightensPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions")
	}
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "config.toml", `model = "m"`, 0644)

	_, err := LoadFrom(path, "")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadFrom_BadTOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := map[string]string{
		"syntax":      `model = `,
		"unknown key": `modle = "typo"`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name+".toml", content, 0600)
			_, err := LoadFrom(path, "")
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_DotenvAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.toml", `
[cloud]
openrouter_key = "from-file"
`, 0600)
	envPath := writeFile(t, dir, ".env", `
OPENROUTER_API_KEY=from-dotenv
TERCHAT_MODEL=dotenv/model
TERCHAT_TRANSCRIPT=dotenv.txt
`, 0600)

	t.Run("dotenv overrides file", func(t *testing.T) {
		cfg, err := LoadFrom(cfgPath, envPath)
		require.NoError(t, err)
		assert.Equal(t, "from-dotenv", cfg.Cloud.OpenRouterKey)
		assert.Equal(t, "dotenv/model", cfg.Model)
		assert.Equal(t, "dotenv.txt", cfg.TranscriptPath)
	})

	t.Run("real environment wins", func(t *testing.T) {
		t.Setenv("TERCHAT_MODEL", "env/model")
		t.Setenv("TERCHAT_OPENROUTER_KEY", " from-env ")

		cfg, err := LoadFrom(cfgPath, envPath)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Cloud.OpenRouterKey)
		assert.Equal(t, "env/model", cfg.Model)
		assert.Equal(t, "dotenv.txt", cfg.TranscriptPath)
	})

	_, set := os.LookupEnv("OPENROUTER_API_KEY")
	assert.False(t, set, "dotenv values do not leak into the process environment")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENROUTER_API_KEY":     "sk-or-generic",
		"TERCHAT_OPENROUTER_KEY": "sk-or-specific",
		"TERCHAT_BASE_URL":       "http://localhost:8080/v1",
		"TERCHAT_LOG_LEVEL":      "warn",
		"TERCHAT_SYSTEM_PROMPT":  "be brief",
	}

	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "sk-or-specific", cfg.Cloud.OpenRouterKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.Cloud.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "be brief", cfg.SystemPrompt)
	assert.Equal(t, Default().Model, cfg.Model, "unset variables leave values alone")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty model", func(c *Config) { c.Model = " " }, "model"},
		{"empty transcript", func(c *Config) { c.TranscriptPath = "" }, "transcript_path"},
		{"zero input", func(c *Config) { c.MaxInputChars = 0 }, "max_input_chars"},
		{"huge input", func(c *Config) { c.MaxInputChars = MaxInputCharsLimit + 1 }, "max_input_chars"},
		{"ftp base url", func(c *Config) { c.Cloud.BaseURL = "ftp://x" }, "cloud.base_url"},
		{"hostless site url", func(c *Config) { c.Cloud.SiteURL = "https://" }, "cloud.site_url"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative scrollback", func(c *Config) { c.UI.ScrollbackBytes = -1 }, "ui.scrollback_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	cfg := &Config{Log: LogConfig{Path: "x.log", Level: "INFO"}}
	cfg.SetDefaults()

	assert.Equal(t, Default().Model, cfg.Model)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "x.log", cfg.Log.Path)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Cloud.OpenRouterKey = "sk-or-secret"

	s := cfg.String()
	assert.NotContains(t, s, "sk-or-secret")
	assert.Contains(t, s, "[REDACTED]")
	assert.Contains(t, s, cfg.Model)
	assert.Equal(t, "sk-or-secret", cfg.Cloud.OpenRouterKey)
}
