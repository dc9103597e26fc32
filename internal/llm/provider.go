// Package llm produces claim analyses with a hosted or local language model.
// It backs the fact-check endpoint served by `truthcheck serve`.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/truthcheck/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Analyze returns the model's fact-check analysis of claim
	Analyze(ctx context.Context, claim string) (*Analysis, error)
}

// Analysis is one model answer
type Analysis struct {
	// Text is the analysis returned to the client
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, OpenAI-compatible gateways)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// HTTPClient carries proxy and User-Agent settings; nil uses a plain client
	HTTPClient *http.Client
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30 * time.Second,
		MaxTokens: 400,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig, httpClient *http.Client) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		HTTPClient: httpClient,
	}
}

const systemPrompt = "You are a careful fact-checker. State whether the statement is true, false, or unverifiable, then explain briefly."

// BuildPrompt constructs the user prompt for a claim
func BuildPrompt(claim string) string {
	return fmt.Sprintf("Analyze this statement: %s.\nCheck if it is a fact or not. Give your analysis.", strings.TrimSpace(claim))
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 400
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return fallback
}

// httpClient returns the configured client with the provider timeout applied
func (c Config) httpClient(fallback time.Duration) *http.Client {
	timeout := c.timeout(fallback)
	if c.HTTPClient == nil {
		return &http.Client{Timeout: timeout}
	}
	client := *c.HTTPClient
	client.Timeout = timeout
	return &client
}
