package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/truthcheck/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaClient_Lookup_TopResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "The Earth is flat", q.Get("srsearch"))
		assert.Equal(t, "json", q.Get("format"))
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Flat Earth"},{"title":"Spherical Earth"}]}}`))
	}))
	defer server.Close()

	client := NewWikipediaClient(server.URL, "https://en.wikipedia.org/wiki/", server.Client(), nil)
	ref, err := client.Lookup(context.Background(), "The Earth is flat")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "Wikipedia: Flat Earth", ref.Label)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Flat%20Earth", ref.URL)
}

func TestWikipediaClient_Lookup_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"search":[]}}`))
	}))
	defer server.Close()

	ref, err := NewWikipediaClient(server.URL, "https://wiki", server.Client(), nil).
		Lookup(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Nil(t, ref)
}

func TestWikipediaClient_Lookup_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: ``},
		{name: "malformed", status: http.StatusOK, body: `not json`},
		{name: "missing query", status: http.StatusOK, body: `{"batchcomplete": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			ref, err := NewWikipediaClient(server.URL, "https://wiki", server.Client(), nil).
				Lookup(context.Background(), "x")
			assert.Error(t, err)
			assert.Nil(t, ref)
		})
	}
}

func TestWikipediaClient_Lookup_Cached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Moon"}]}}`))
	}))
	defer server.Close()

	cache := storage.NewMemoryBackend(0)
	client := NewWikipediaClient(server.URL, "https://wiki", server.Client(), cache)

	for i := 0; i < 3; i++ {
		ref, err := client.Lookup(context.Background(), "moon landing")
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, "Wikipedia: Moon", ref.Label)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestWikipediaClient_Lookup_FailureNotCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Moon"}]}}`))
	}))
	defer server.Close()

	client := NewWikipediaClient(server.URL, "https://wiki", server.Client(), storage.NewMemoryBackend(0))

	_, err := client.Lookup(context.Background(), "moon")
	require.Error(t, err)

	ref, err := client.Lookup(context.Background(), "moon")
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, int32(2), calls.Load())
}
