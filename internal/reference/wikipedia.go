// Package reference builds the supporting links shown next to a fact-check verdict:
// the top Wikipedia search hit and a news search link.
package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/ppiankov/truthcheck/internal/storage"
)

const maxBodyBytes = 1 << 20

// WikipediaClient looks up the best matching article for a claim via the MediaWiki search API
type WikipediaClient struct {
	httpClient     *http.Client
	searchURL      string
	articleBaseURL string
	cache          storage.Backend // optional, keyed by query
}

// NewWikipediaClient creates a client for the search API at searchURL.
// Article links are built as articleBaseURL/<escaped title>. cache may be nil.
func NewWikipediaClient(searchURL, articleBaseURL string, httpClient *http.Client, cache storage.Backend) *WikipediaClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WikipediaClient{
		httpClient:     httpClient,
		searchURL:      searchURL,
		articleBaseURL: strings.TrimRight(articleBaseURL, "/"),
		cache:          cache,
	}
}

// searchResponse is the part of the list=search response we read
type searchResponse struct {
	Query *struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// Lookup returns a link to the top-ranked article for query, or nil when the search has no hits.
// Only the first hit is used, in the order the service ranked them.
func (c *WikipediaClient) Lookup(ctx context.Context, query string) (*model.Reference, error) {
	title, err := c.topTitle(ctx, query)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, nil
	}
	return &model.Reference{
		Label: "Wikipedia: " + title,
		URL:   c.articleBaseURL + "/" + url.PathEscape(title),
	}, nil
}

func (c *WikipediaClient) topTitle(ctx context.Context, query string) (string, error) {
	cacheKey := "wikipedia:search:" + query
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			return string(cached), nil
		}
	}

	title, err := c.search(ctx, query)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		// A cache write failure only costs a repeat lookup.
		_ = c.cache.Set(ctx, cacheKey, []byte(title))
	}
	return title, nil
}

func (c *WikipediaClient) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Query == nil {
		return "", errors.New("response has no query section")
	}
	if len(parsed.Query.Search) == 0 {
		return "", nil
	}

	return parsed.Query.Search[0].Title, nil
}
