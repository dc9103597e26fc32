// Package imageanalysis submits images to the manipulation-detection service.
package imageanalysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
)

const maxResponseBytes = 1 << 20

// Client posts images to {baseURL}/analyze-image
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an image analysis client for the service at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type analyzeResponse struct {
	Result     string   `json:"result"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
}

// AnalyzeImage uploads the image read from r as the multipart field "file".
//
// Errors:
//   - model.ErrEmptyInput when r is nil (nothing is sent)
//   - *model.ServiceReportedError when the body carries a non-empty "error", whatever the status
//   - *model.TransportError for everything else: connection failures and unusable bodies
func (c *Client) AnalyzeImage(ctx context.Context, name string, r io.Reader) (*model.ImageAnalysis, error) {
	if r == nil {
		return nil, model.ErrEmptyInput
	}

	body, contentType, err := encodeUpload(name, r)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-image", body)
	if err != nil {
		return nil, c.transport(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transport(fmt.Errorf("read body: %w", err))
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, c.transport(fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	if parsed.Error != "" {
		return nil, &model.ServiceReportedError{Service: model.ServiceImageAnalysis, Message: parsed.Error}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.transport(fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}
	if parsed.Result == "" {
		return nil, c.transport(errors.New("response has no result"))
	}

	return &model.ImageAnalysis{Result: parsed.Result, Confidence: parsed.Confidence}, nil
}

func (c *Client) transport(err error) error {
	return &model.TransportError{Service: model.ServiceImageAnalysis, Err: err}
}

// encodeUpload buffers the image into a multipart body
func encodeUpload(name string, r io.Reader) (*bytes.Buffer, string, error) {
	if name == "" {
		name = "image"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
