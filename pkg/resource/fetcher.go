// Package resource fetches pages by file path or URL.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var ErrContentType = errors.New("resource: unexpected content type")

const userAgent = "caretfloat/1.0 (compatible; Go)"

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher reads local files and fetches http and https URLs,
// resolving relative URIs against a base.
type DefaultFetcher struct {
	baseURL string
	client  *http.Client
}

// NewFetcher creates a DefaultFetcher with the given base URL or
// directory. An empty base resolves nothing.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if f.baseURL != "" && !IsNetworkURL(uri) && !strings.HasPrefix(uri, "/") {
		resolved = ResolveURL(f.baseURL, uri)
	}
	if IsNetworkURL(resolved) {
		return f.get(ctx, resolved)
	}
	path := strings.TrimPrefix(resolved, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return body, "", nil
}

func (f *DefaultFetcher) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("HTTP %d fetching %s", resp.StatusCode, rawURL)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// FetchHTML fetches a page and returns its markup. Responses that declare
// a non-HTML content type are rejected.
func (f *DefaultFetcher) FetchHTML(ctx context.Context, uri string) (string, error) {
	body, contentType, err := f.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/html") && !strings.HasPrefix(ct, "application/xhtml") {
		return "", fmt.Errorf("%w for HTML: %s", ErrContentType, contentType)
	}
	return string(body), nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
