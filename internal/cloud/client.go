// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/terchat/internal/model"
)

// CLOUD: Secure logging, TLS 1.2+, key fingerprints only

// Configuration constants for the OpenRouter API.
const (
	// DefaultOpenRouterURL is the base URL for the OpenRouter API.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "deepseek/deepseek-chat:free"

	// DefaultSiteURL and DefaultSiteName identify the app to OpenRouter.
	DefaultSiteURL  = "https://example.com"
	DefaultSiteName = "Ter Chat"

	// MaxErrorBodySize bounds how much of a non-200 body is read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxErrorBodySize = 64 * 1024
)

// sharedStreamingClient is used for streaming requests (no timeout, context-controlled).
// PERFORMANCE: Connection pooling for streaming requests.
// SECURITY: TLS verification required for production
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// ChatMessage represents a single message in a chat request.
type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}

// MessagesFromModel converts a transcript snapshot to request messages,
// preserving order.
func MessagesFromModel(msgs []model.Message) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = ChatMessage{Role: m.Role.String(), Content: m.Content}
	}
	return out
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// apiErrorResponse represents an error response from the API.
type apiErrorResponse struct {
	Error apiError `json:"error"`
}

// OpenRouterClient is a client for streaming chat completions from OpenRouter.
type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	model      string
	siteURL    string
	siteName   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenRouterClient creates a new OpenRouter client with the given API key.
//
// If the API key is empty, the client will still be created but ChatStream
// will fail with ErrNotConfigured.
func NewOpenRouterClient(apiKey string) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultOpenRouterURL,
		model:      DefaultModel,
		siteURL:    DefaultSiteURL,
		siteName:   DefaultSiteName,
		httpClient: sharedStreamingClient,
		logger:     zap.NewNop(),
	}
}

// WithBaseURL sets a custom base URL for the API.
func (c *OpenRouterClient) WithBaseURL(url string) *OpenRouterClient {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithModel sets the model to use for chat requests.
func (c *OpenRouterClient) WithModel(model string) *OpenRouterClient {
	if model != "" {
		c.model = model
	}
	return c
}

// WithSiteURL sets the HTTP-Referer value sent to OpenRouter.
func (c *OpenRouterClient) WithSiteURL(url string) *OpenRouterClient {
	c.siteURL = url
	return c
}

// WithSiteName sets the X-Title value sent to OpenRouter.
func (c *OpenRouterClient) WithSiteName(name string) *OpenRouterClient {
	c.siteName = name
	return c
}

// WithHTTPClient replaces the shared streaming client. Tests use it to talk
// to httptest servers.
func (c *OpenRouterClient) WithHTTPClient(hc *http.Client) *OpenRouterClient {
	c.httpClient = hc
	return c
}

// WithLogger sets the logger for request diagnostics.
func (c *OpenRouterClient) WithLogger(logger *zap.Logger) *OpenRouterClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Model returns the configured model.
func (c *OpenRouterClient) Model() string {
	return c.model
}

// IsConfigured returns true if the client has an API key configured.
func (c *OpenRouterClient) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint returns a secure fingerprint of the API key for logging.
// SECURITY: Uses SHA-256 hash to create a unique identifier without exposing the key.
func (c *OpenRouterClient) KeyFingerprint() string {
	return Fingerprint(c.apiKey)
}

// Fingerprint returns the first 8 hex chars of the SHA-256 of key, or "none".
func Fingerprint(key string) string {
	if key == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:4])
}

// setHeaders sets the required headers for OpenRouter API requests.
func (c *OpenRouterClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		req.Header.Set("X-Title", c.siteName)
	}
}

// ChatStream sends messages as context and opens a streaming completion.
//
// A transport failure is returned as *TransportError and a non-200 status as
// *ProtocolError; in both cases nothing is left open. On success the caller
// owns the returned Stream and must Close it or drain it via Events.
func (c *OpenRouterClient) ChatStream(ctx context.Context, messages []ChatMessage) (*Stream, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	bodyBytes, err := json.Marshal(ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	// CLOUD: Secure logging - no headers, no body
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("model", c.model),
		zap.Int("messages", len(messages)),
		zap.String("key_fingerprint", c.KeyFingerprint()),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, &TransportError{Op: "POST " + req.URL.Path, Err: err}
	}

	c.logger.Debug("api response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		return nil, handleErrorResponse(resp.StatusCode, resp.Status, body)
	}

	return NewStream(resp.Body), nil
}

// handleErrorResponse converts a non-200 response to a *ProtocolError,
// keeping the API's error message when the body carries one.
func handleErrorResponse(statusCode int, status string, body []byte) error {
	perr := &ProtocolError{
		StatusCode: statusCode,
		Reason:     statusReason(statusCode, status),
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		perr.Code = apiErr.Error.code()
		perr.Message = apiErr.Error.Message
	}
	return perr
}

// ValidateAPIKey checks if the API key format appears valid.
// Note: This doesn't verify the key with OpenRouter, just checks the format.
func ValidateAPIKey(apiKey string) bool {
	apiKey = strings.TrimSpace(apiKey)

	// OpenRouter keys typically start with "sk-or-"
	if !strings.HasPrefix(apiKey, "sk-or-") {
		return false
	}

	// Minimum length check (sk-or- prefix + at least 32 chars)
	return len(apiKey) >= 38
}
