// Package gemini wraps the Google generative AI client behind the two
// operations the extraction pipeline needs: a text completion over rendered
// spreadsheet data and a vision completion over a document image.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Error represents an error that occurred during a Gemini API interaction
type Error struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err == nil {
		return "gemini error: " + e.Op
	}
	return "gemini error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns a default configuration for the Gemini client
func DefaultConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}

// Client is a thin wrapper around the genai SDK. The model is chosen per
// call so the orchestrator can walk its candidate list on one client.
type Client struct {
	client  *genai.Client
	timeout time.Duration
}

// NewClient creates a new Gemini client. An empty API key is a
// configuration error: the AI capability is disabled and callers must fall
// back to rule-based extraction or fail the request.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, &Error{
			Op:  "validate_configuration",
			Err: fmt.Errorf("GEMINI_API_KEY is not configured"),
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &Error{
			Op:  "create_client",
			Err: err,
		}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		client:  client,
		timeout: timeout,
	}, nil
}

// Close releases the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}
