// Package factcheck talks to the fact-check service (GET /check_fact?claim=...).
package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
)

const maxBodyBytes = 1 << 20

// Client queries the fact-check service
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a fact-check client for the service at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type checkResponse struct {
	Claim    string          `json:"claim"`
	Analysis json.RawMessage `json:"analysis"`
	Error    string          `json:"error"`
}

// Check returns the service's analysis for claim. Every failure is a *model.TransportError:
// the analysis is required, so the caller treats any failure as "service unavailable".
func (c *Client) Check(ctx context.Context, claim string) (string, error) {
	analysis, err := c.check(ctx, claim)
	if err != nil {
		return "", &model.TransportError{Service: model.ServiceFactCheck, Err: err}
	}
	return analysis, nil
}

func (c *Client) check(ctx context.Context, claim string) (string, error) {
	reqURL := c.baseURL + "/check_fact?claim=" + url.QueryEscape(claim)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var parsed checkResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && parsed.Error != "" {
			return "", fmt.Errorf("unexpected status: %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}

	return analysisText(parsed.Analysis)
}

// analysisText accepts a plain string or any structured JSON verdict, which is kept as compact JSON
func analysisText(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", errors.New("response has no analysis")
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", fmt.Errorf("decode analysis: %w", err)
	}
	return buf.String(), nil
}
