package cache

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// apiPrefix marks requests for data endpoints.
const apiPrefix = "/api/"

// rootDocumentKey is the navigation fallback served when no exact cached
// copy exists for an offline navigation.
const rootDocumentKey = "/"

// Rule pairs a request predicate with the handler that serves matching
// requests. Rules are evaluated in priority order; the first match wins.
type Rule struct {
	Name  string
	Match func(*http.Request) bool
	Serve http.HandlerFunc
}

// Router decides, per request, which partition is authoritative and whether
// cache or network wins. It holds no per-request state; concurrent requests
// share only the partition store.
type Router struct {
	store Store
	fetch Fetcher
	log   *slog.Logger
	rules []Rule
}

// NewRouter builds the routing table in its fixed priority order:
// navigation, API, images, static assets, then the network-first catch-all.
func NewRouter(store Store, fetch Fetcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	rt := &Router{store: store, fetch: fetch, log: log}
	rt.rules = []Rule{
		{Name: "navigation", Match: isNavigation, Serve: rt.serveNavigation},
		{Name: "api", Match: isAPI, Serve: rt.serveAPI},
		{Name: "image", Match: isImage, Serve: rt.serveImage},
		{Name: "static", Match: isStaticAsset, Serve: rt.serveStatic},
		{Name: "default", Match: func(*http.Request) bool { return true }, Serve: rt.serveDefault},
	}
	return rt
}

// Rules exposes the routing table for inspection and tests.
func (rt *Router) Rules() []Rule {
	return rt.rules
}

// ServeHTTP dispatches to the first matching rule.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rule := range rt.rules {
		if rule.Match(r) {
			rule.Serve(w, r)
			return
		}
	}
}

// --- Predicates ---

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, apiPrefix)
}

func isNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet || isAPI(r) {
		return false
	}
	if r.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".svg": true, ".ico": true, ".avif": true,
}

func isImage(r *http.Request) bool {
	if strings.HasPrefix(r.Header.Get("Accept"), "image/") {
		return true
	}
	return imageExts[strings.ToLower(path.Ext(r.URL.Path))]
}

var staticExts = map[string]bool{
	".js": true, ".css": true, ".woff": true, ".woff2": true,
	".ttf": true, ".otf": true, ".map": true, ".json": true,
}

func isStaticAsset(r *http.Request) bool {
	if isAPI(r) {
		return false
	}
	return staticExts[strings.ToLower(path.Ext(r.URL.Path))]
}

// --- Handlers ---

// serveNavigation is network-first: live documents win, successful responses
// are cloned into the dynamic partition, and offline navigations fall back
// to the exact cached copy, then the cached root document.
func (rt *Router) serveNavigation(w http.ResponseWriter, r *http.Request) {
	key := Key(r)
	e, err := rt.fetchEntry(r)
	if err == nil {
		if e.Status == http.StatusOK {
			rt.put(r, DynamicPartition, key, e)
		}
		writeEntry(w, e)
		return
	}
	if cached := rt.match(r, DynamicPartition, key); cached != nil {
		writeEntry(w, cached)
		return
	}
	for _, name := range []string{DynamicPartition, StaticPartition} {
		if cached := rt.match(r, name, rootDocumentKey); cached != nil {
			writeEntry(w, cached)
			return
		}
	}
	http.Error(w, "offline and no cached document", http.StatusBadGateway)
}

// serveAPI is network-first for all methods. Only GET 200 responses are
// cached. Offline GETs are served from cache when possible; offline
// non-GETs get a structured 503 so callers can branch on status instead of
// catching a transport failure.
func (rt *Router) serveAPI(w http.ResponseWriter, r *http.Request) {
	key := Key(r)
	e, err := rt.fetchEntry(r)
	if err == nil {
		if r.Method == http.MethodGet && e.Status == http.StatusOK {
			rt.put(r, DynamicPartition, key, e)
		}
		writeEntry(w, e)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Network unavailable"}`))
		return
	}
	if cached := rt.match(r, DynamicPartition, key); cached != nil {
		writeEntry(w, cached)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusGatewayTimeout)
	_, _ = w.Write([]byte(`{"error":"Network unavailable"}`))
}

func (rt *Router) serveImage(w http.ResponseWriter, r *http.Request) {
	rt.cacheFirst(w, r, ImagesPartition)
}

func (rt *Router) serveStatic(w http.ResponseWriter, r *http.Request) {
	rt.cacheFirst(w, r, StaticPartition)
}

// cacheFirst returns the cached copy immediately when present; otherwise it
// fetches, stores 200 responses into the target partition, and returns the
// live response.
func (rt *Router) cacheFirst(w http.ResponseWriter, r *http.Request, partition string) {
	key := Key(r)
	if cached := rt.match(r, partition, key); cached != nil {
		writeEntry(w, cached)
		return
	}
	e, err := rt.fetchEntry(r)
	if err != nil {
		http.Error(w, "offline and not cached", http.StatusBadGateway)
		return
	}
	if e.Status == http.StatusOK {
		rt.put(r, partition, key, e)
	}
	writeEntry(w, e)
}

// serveDefault is network-first with a silent cache fallback across the
// current partitions. It never writes back; it only reads pre-seeded
// entries.
func (rt *Router) serveDefault(w http.ResponseWriter, r *http.Request) {
	key := Key(r)
	e, err := rt.fetchEntry(r)
	if err == nil {
		writeEntry(w, e)
		return
	}
	for _, name := range CurrentPartitions() {
		if cached := rt.match(r, name, key); cached != nil {
			writeEntry(w, cached)
			return
		}
	}
	http.Error(w, "offline and not cached", http.StatusBadGateway)
}

// --- Partition plumbing ---

// match treats partition errors as misses: a broken cache read must not take
// down a request the network can still serve.
func (rt *Router) match(r *http.Request, partition, key string) *Entry {
	p, err := rt.store.Open(partition)
	if err != nil {
		rt.log.Error("open partition", "partition", partition, "error", err)
		return nil
	}
	e, err := p.Match(r.Context(), key)
	if err != nil {
		rt.log.Error("cache match", "partition", partition, "key", key, "error", err)
		return nil
	}
	return e
}

func (rt *Router) put(r *http.Request, partition, key string, e *Entry) {
	p, err := rt.store.Open(partition)
	if err != nil {
		rt.log.Error("open partition", "partition", partition, "error", err)
		return
	}
	if err := p.Put(r.Context(), key, e); err != nil {
		rt.log.Error("cache put", "partition", partition, "key", key, "error", err)
	}
}

// fetchEntry performs the upstream request and drains it into an Entry so
// the response can be both stored and written.
func (rt *Router) fetchEntry(r *http.Request) (*Entry, error) {
	resp, err := rt.fetch.Fetch(r)
	if err != nil {
		return nil, err
	}
	return entryFromResponse(resp)
}

func writeEntry(w http.ResponseWriter, e *Entry) {
	for k, vs := range e.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(e.Status)
	_, _ = w.Write(e.Body)
}
