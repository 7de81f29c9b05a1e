package cache

import (
	"fmt"
	"net/http"
	"net/url"
)

// UpstreamFetcher forwards requests to the origin the gateway fronts. The
// incoming request keeps its path and query; scheme and host are rewritten.
type UpstreamFetcher struct {
	origin *url.URL
	client *http.Client
}

// NewUpstreamFetcher parses the origin URL. The underlying client carries no
// timeout; a hung upstream request blocks only its own caller.
func NewUpstreamFetcher(origin string) (*UpstreamFetcher, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse upstream origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("upstream origin %q must include scheme and host", origin)
	}
	return &UpstreamFetcher{origin: u, client: &http.Client{}}, nil
}

var _ Fetcher = (*UpstreamFetcher)(nil)

// Fetch implements Fetcher.
func (f *UpstreamFetcher) Fetch(r *http.Request) (*http.Response, error) {
	target := *r.URL
	target.Scheme = f.origin.Scheme
	target.Host = f.origin.Host

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
	if err != nil {
		return nil, err
	}
	for _, h := range []string{"Accept", "Accept-Language", "Content-Type", "Authorization"} {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}
	return f.client.Do(req)
}
