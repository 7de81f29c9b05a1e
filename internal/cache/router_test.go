package cache_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"artesanal/internal/cache"
)

var errOffline = errors.New("dial tcp: network unreachable")

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func offlineFetcher() cache.Fetcher {
	return cache.FetcherFunc(func(*http.Request) (*http.Response, error) {
		return nil, errOffline
	})
}

func countingFetcher(resp func() *http.Response) (cache.Fetcher, *int) {
	calls := new(int)
	return cache.FetcherFunc(func(*http.Request) (*http.Response, error) {
		*calls++
		return resp(), nil
	}), calls
}

func seed(t *testing.T, store cache.Store, partition, key, body string) {
	t.Helper()
	p, err := store.Open(partition)
	if err != nil {
		t.Fatalf("open partition: %v", err)
	}
	err = p.Put(context.Background(), key, &cache.Entry{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"text/html"}},
		Body:   []byte(body),
	})
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func navigationRequest(path string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set("Sec-Fetch-Mode", "navigate")
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	return r
}

func partitionFor(t *testing.T, rt *cache.Router, r *http.Request) string {
	t.Helper()
	for _, rule := range rt.Rules() {
		if rule.Match(r) {
			return rule.Name
		}
	}
	t.Fatal("no rule matched")
	return ""
}

func TestRouter_RulePriority(t *testing.T) {
	rt := cache.NewRouter(cache.NewMemoryStore(), offlineFetcher(), nil)

	tests := []struct {
		name string
		req  *http.Request
		rule string
	}{
		{"navigation beats static ext", navigationRequest("/products.json"), "navigation"},
		{"api beats image ext", httptest.NewRequest(http.MethodGet, "/api/icons/logo.png", nil), "api"},
		{"image by extension", httptest.NewRequest(http.MethodGet, "/images/canasta.webp", nil), "image"},
		{"static by extension", httptest.NewRequest(http.MethodGet, "/assets/index.css", nil), "static"},
		{"json outside api is static", httptest.NewRequest(http.MethodGet, "/manifest.json", nil), "static"},
		{"bare path falls through", httptest.NewRequest(http.MethodGet, "/robots.txt", nil), "default"},
		{"post navigation is not navigation", httptest.NewRequest(http.MethodPost, "/checkout", nil), "default"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := partitionFor(t, rt, tc.req); got != tc.rule {
				t.Fatalf("expected rule %q, got %q", tc.rule, got)
			}
		})
	}
}

func TestRouter_ImageRequestByAcceptHeader(t *testing.T) {
	rt := cache.NewRouter(cache.NewMemoryStore(), offlineFetcher(), nil)
	r := httptest.NewRequest(http.MethodGet, "/media/12345", nil)
	r.Header.Set("Accept", "image/avif,image/webp")
	if got := partitionFor(t, rt, r); got != "image" {
		t.Fatalf("expected image rule, got %q", got)
	}
}

func TestNavigation_NetworkFirstCachesDocument(t *testing.T) {
	store := cache.NewMemoryStore()
	fetch, calls := countingFetcher(func() *http.Response { return okResponse("<html>live</html>") })
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, navigationRequest("/products"))

	if *calls != 1 {
		t.Fatalf("expected one upstream fetch, got %d", *calls)
	}
	if w.Code != http.StatusOK || w.Body.String() != "<html>live</html>" {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}

	p, _ := store.Open(cache.DynamicPartition)
	e, err := p.Match(context.Background(), "/products")
	if err != nil || e == nil {
		t.Fatalf("expected document cached in dynamic partition, got %v, %v", e, err)
	}
}

func TestNavigation_OfflineServesExactCachedCopy(t *testing.T) {
	store := cache.NewMemoryStore()
	seed(t, store, cache.DynamicPartition, "/products", "<html>cached products</html>")
	rt := cache.NewRouter(store, offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, navigationRequest("/products"))

	if w.Code != http.StatusOK || w.Body.String() != "<html>cached products</html>" {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}
}

func TestNavigation_OfflineFallsBackToRootDocument(t *testing.T) {
	store := cache.NewMemoryStore()
	seed(t, store, cache.StaticPartition, "/", "<html>shell</html>")
	rt := cache.NewRouter(store, offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, navigationRequest("/products/4"))

	if w.Code != http.StatusOK || w.Body.String() != "<html>shell</html>" {
		t.Fatalf("expected root document fallback, got %d %q", w.Code, w.Body.String())
	}
}

func TestNavigation_OfflineNothingCached(t *testing.T) {
	rt := cache.NewRouter(cache.NewMemoryStore(), offlineFetcher(), nil)
	w := httptest.NewRecorder()
	rt.ServeHTTP(w, navigationRequest("/products"))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestAPI_OnlyGetResponsesCached(t *testing.T) {
	store := cache.NewMemoryStore()
	fetch := cache.FetcherFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(bytes.NewReader([]byte(`{"ok":true}`))),
		}, nil
	})
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewReader([]byte(`{}`))))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	p, _ := store.Open(cache.DynamicPartition)
	if e, _ := p.Match(context.Background(), "/api/cart"); e != nil {
		t.Fatal("POST response must not be cached")
	}

	w = httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if e, _ := p.Match(context.Background(), "/api/products"); e == nil {
		t.Fatal("GET 200 response should be cached")
	}
}

func TestAPI_OfflineNonGetSynthesizes503(t *testing.T) {
	rt := cache.NewRouter(cache.NewMemoryStore(), offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cart", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	if w.Body.String() != `{"error":"Network unavailable"}` {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestAPI_OfflineGetServedFromCache(t *testing.T) {
	store := cache.NewMemoryStore()
	seed(t, store, cache.DynamicPartition, "/api/products?category=Chocolate", `{"products":[]}`)
	rt := cache.NewRouter(store, offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?category=Chocolate", nil))

	if w.Code != http.StatusOK || w.Body.String() != `{"products":[]}` {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}
}

func TestAPI_OfflineGetMissSynthesizes504(t *testing.T) {
	rt := cache.NewRouter(cache.NewMemoryStore(), offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"Network unavailable"}` {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestCacheFirst_SkipsNetworkOnHit(t *testing.T) {
	store := cache.NewMemoryStore()
	seed(t, store, cache.ImagesPartition, "/images/canasta.webp", "cached-bytes")
	fetch, calls := countingFetcher(func() *http.Response { return okResponse("live-bytes") })
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/canasta.webp", nil))

	if *calls != 0 {
		t.Fatalf("cache hit must not touch the network, got %d fetches", *calls)
	}
	if w.Body.String() != "cached-bytes" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestCacheFirst_MissFetchesAndStores(t *testing.T) {
	store := cache.NewMemoryStore()
	fetch, calls := countingFetcher(func() *http.Response { return okResponse("asset") })
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/index.css", nil))

	if *calls != 1 || w.Body.String() != "asset" {
		t.Fatalf("unexpected fetch count %d or body %q", *calls, w.Body.String())
	}
	p, _ := store.Open(cache.StaticPartition)
	if e, _ := p.Match(context.Background(), "/assets/index.css"); e == nil {
		t.Fatal("expected asset stored in static partition")
	}
}

func TestCacheFirst_ImageStoredInImagesPartitionOnly(t *testing.T) {
	store := cache.NewMemoryStore()
	fetch, _ := countingFetcher(func() *http.Response { return okResponse("image-bytes") })
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/canasta.webp", nil))
	if w.Body.String() != "image-bytes" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}

	for _, name := range cache.CurrentPartitions() {
		p, _ := store.Open(name)
		e, _ := p.Match(context.Background(), "/images/canasta.webp")
		if name == cache.ImagesPartition {
			if e == nil {
				t.Fatal("expected image stored in images partition")
			}
			continue
		}
		if e != nil {
			t.Fatalf("image leaked into %s", name)
		}
	}
}

func TestDefault_OfflineFallbackReadsWithoutWriteBack(t *testing.T) {
	store := cache.NewMemoryStore()
	seed(t, store, cache.StaticPartition, "/robots.txt", "cached robots")
	rt := cache.NewRouter(store, offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if w.Code != http.StatusOK || w.Body.String() != "cached robots" {
		t.Fatalf("unexpected response: %d %q", w.Code, w.Body.String())
	}
}

func TestDefault_OnlineNeverWritesBack(t *testing.T) {
	store := cache.NewMemoryStore()
	fetch, _ := countingFetcher(func() *http.Response { return okResponse("live") })
	rt := cache.NewRouter(store, fetch, nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if w.Body.String() != "live" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}

	for _, name := range cache.CurrentPartitions() {
		p, _ := store.Open(name)
		if e, _ := p.Match(context.Background(), "/robots.txt"); e != nil {
			t.Fatalf("catch-all must not write back, found entry in %s", name)
		}
	}
}

func TestWriteEntry_PreservesHeadersAndStatus(t *testing.T) {
	store := cache.NewMemoryStore()
	p, _ := store.Open(cache.DynamicPartition)
	err := p.Put(context.Background(), "/api/products", &cache.Entry{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"application/json"}, "Etag": []string{`"v1"`}},
		Body:   []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	rt := cache.NewRouter(store, offlineFetcher(), nil)

	w := httptest.NewRecorder()
	rt.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if w.Header().Get("Etag") != `"v1"` {
		t.Fatalf("expected cached headers replayed, got %v", w.Header())
	}
}
