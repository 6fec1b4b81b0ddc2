// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokens

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncodingModel selects the BPE encoding used for counting.
const DefaultEncodingModel = "gpt-3.5-turbo"

// Counter counts the tokens of a text. Results are never negative.
type Counter interface {
	Count(text string) int
}

// CounterFunc adapts a function to Counter.
type CounterFunc func(text string) int

// Count calls f(text).
func (f CounterFunc) Count(text string) int {
	return f(text)
}

// =============================================================================
// TIKTOKEN
// =============================================================================

var loaderOnce sync.Once

// TiktokenCounter counts tokens with a tiktoken BPE encoding.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the encoding used by model.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	if model == "" {
		model = DefaultEncodingModel
	}

	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load encoding for %q: %w", model, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

// Count returns the number of BPE tokens in text. Special-token text is
// counted as ordinary text.
func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// =============================================================================
// ESTIMATE
// =============================================================================

// EstimateCounter approximates GPT-style tokenization.
type EstimateCounter struct{}

// Count blends a word estimate with ~4 chars per token.
func (EstimateCounter) Count(text string) int {
	words := len(strings.Fields(text))
	runes := len([]rune(text))
	n := (words + runes/4) / 2
	if n == 0 && strings.TrimSpace(text) != "" {
		n = 1
	}
	return n
}

// New returns a tiktoken counter for model, or an EstimateCounter plus the
// load error when the encoding is unavailable.
func New(model string) (Counter, error) {
	c, err := NewTiktokenCounter(model)
	if err != nil {
		return EstimateCounter{}, err
	}
	return c, nil
}
