package util

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	calls int
}

func (l *countingLimiter) Transport(base http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		l.calls++
		return base.RoundTrip(req)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestNewHTTPClient_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"}, nil)
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "test-agent", gotUA)
}

func TestNewHTTPClient_UsesLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	limiter := &countingLimiter{}
	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second}, limiter)
	for i := 0; i < 3; i++ {
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 3, limiter.calls)
}

func TestNewHTTPClient_StopsAfterThreeRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/again", http.StatusFound)
	}))
	defer server.Close()

	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second}, nil)
	_, err := client.Get(server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 3 redirects")
}

func TestNewProxyFunc(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)

	proxy := NewProxyFunc("http://plain:8080", "http://secure:8443")
	u, err := proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "secure:8443", u.Host)

	plainReq, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	u, err = proxy(plainReq)
	require.NoError(t, err)
	assert.Equal(t, "plain:8080", u.Host)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.truthcheck/history")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".truthcheck", "history"), got)

	got, err = ExpandHome("/var/lib/truthcheck")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/truthcheck", got)
}
