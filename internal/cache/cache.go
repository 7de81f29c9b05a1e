// Package cache implements the offline response cache: named partitions of
// request/response pairs and the routing policy that decides, per request,
// which partition is authoritative and whether cache or network wins.
package cache

import (
	"context"
	"net/http"
	"time"
)

// Current partition names. The version suffix changes when the precached
// shell changes shape; Activate drops every partition not named here.
const (
	StaticPartition  = "static-v3"
	DynamicPartition = "dynamic-v3"
	ImagesPartition  = "images-v3"
)

// CurrentPartitions lists the partition names that survive activation.
func CurrentPartitions() []string {
	return []string{StaticPartition, DynamicPartition, ImagesPartition}
}

// Entry is one stored response.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// Partition is a named bucket of request-keyed responses. Match returns
// (nil, nil) on a miss.
type Partition interface {
	Match(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, e *Entry) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Store holds the set of named partitions. Open creates a partition on first
// use; Drop removes a partition and its contents.
type Store interface {
	Open(name string) (Partition, error)
	Names() ([]string, error)
	Drop(name string) error
}

// Fetcher performs an upstream request on behalf of the gateway. No timeout
// is applied beyond the request context.
type Fetcher interface {
	Fetch(r *http.Request) (*http.Response, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(r *http.Request) (*http.Response, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Key returns the cache key for a request: the path plus raw query.
func Key(r *http.Request) string {
	return r.URL.RequestURI()
}
