// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the diagnostics logger.
//
// The terminal belongs to the chat screen, so log records go to a JSON
// file instead. The file is opened append-only and readable by its owner
// only.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Off disables logging when used as Options.Path.
const Off = "off"

// Options configures New.
type Options struct {
	// Path is the log file. Empty or Off returns a no-op logger.
	Path string

	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// SessionID is attached to every record when set.
	SessionID string
}

// New opens the log file and returns a logger writing to it, with a close
// function that flushes and closes the file. The close function is never
// nil.
func New(opts Options) (*zap.Logger, func() error, error) {
	nop := func() error { return nil }
	if opts.Path == "" || strings.EqualFold(opts.Path, Off) {
		return zap.NewNop(), nop, nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, nop, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, nop, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, nop, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), level)
	logger := zap.New(core, zap.ErrorOutput(zapcore.Lock(f)))
	if opts.SessionID != "" {
		logger = logger.With(zap.String("session_id", opts.SessionID))
	}

	closeFn := func() error {
		return errors.Join(logger.Sync(), f.Close())
	}
	return logger, closeFn, nil
}
