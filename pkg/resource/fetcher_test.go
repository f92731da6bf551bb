package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchHTMLFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o644))

	got, err := NewFetcher("").FetchHTML(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", got)

	got, err = NewFetcher("").FetchHTML(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", got)
}

func TestFetchMissingFile(t *testing.T) {
	_, _, err := NewFetcher("").Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "caretfloat")
		switch r.URL.Path {
		case "/demo/page.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<p>remote</p>"))
		case "/demo/data.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("{}"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL + "/demo/")
	got, err := f.FetchHTML(context.Background(), "page.html")
	require.NoError(t, err)
	assert.Equal(t, "<p>remote</p>", got)

	_, err = f.FetchHTML(context.Background(), "data.json")
	assert.ErrorIs(t, err, ErrContentType)

	_, err = f.FetchHTML(context.Background(), "missing.html")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestFetchHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewFetcher("").Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a/b.css", ResolveURL("https://example.com/a/index.html", "b.css"))
	assert.Equal(t, "https://other.org/x", ResolveURL("https://example.com/", "https://other.org/x"))
	assert.True(t, IsNetworkURL("http://x"))
	assert.False(t, IsNetworkURL("/tmp/x.html"))
}
