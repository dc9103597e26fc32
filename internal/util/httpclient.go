package util

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/truthcheck/internal/model"
)

// Limiter throttles outbound requests; *worker.Limiter satisfies it
type Limiter interface {
	Transport(base http.RoundTripper) http.RoundTripper
}

// NewHTTPClient builds the client shared by the service clients:
// configured timeout and proxies, at most 3 redirects, a User-Agent on every request,
// and per-host rate limiting when limiter is non-nil.
func NewHTTPClient(cfg model.HTTPConfig, limiter Limiter) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)

	var transport http.RoundTripper = &userAgentTransport{base: base, userAgent: cfg.UserAgent}
	if limiter != nil {
		transport = limiter.Transport(transport)
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
