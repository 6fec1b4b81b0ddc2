// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads terchat configuration.
//
// # Configuration Precedence
//
// Later sources override earlier ones:
//   - Built-in defaults
//   - ~/.terchat/config.toml
//   - .env in the working directory
//   - Environment variables (OPENROUTER_API_KEY, TERCHAT_*)
//
// A variable set in the real environment always beats the same variable in
// .env. The config file is tightened to 0600 when loaded.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := cloud.NewOpenRouterClient(cfg.Cloud.OpenRouterKey)
//
// The value is built once and passed to whatever needs it.
package config
