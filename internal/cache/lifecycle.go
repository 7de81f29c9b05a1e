package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// installConcurrency bounds parallel precache fetches.
const installConcurrency = 4

// Install pre-populates the static partition with the asset manifest. Any
// single failed fetch aborts the whole install; nothing is retried. On
// success the new partition set is live immediately.
func Install(ctx context.Context, store Store, fetch Fetcher, manifest []string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	static, err := store.Open(StaticPartition)
	if err != nil {
		return fmt.Errorf("open static partition: %w", err)
	}

	p := pool.New().WithMaxGoroutines(installConcurrency).WithContext(ctx).WithCancelOnError()
	for _, asset := range manifest {
		p.Go(func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset, nil)
			if err != nil {
				return fmt.Errorf("precache %s: %w", asset, err)
			}
			resp, err := fetch.Fetch(req)
			if err != nil {
				return fmt.Errorf("precache %s: %w", asset, err)
			}
			e, err := entryFromResponse(resp)
			if err != nil {
				return fmt.Errorf("precache %s: %w", asset, err)
			}
			if e.Status != http.StatusOK {
				return fmt.Errorf("precache %s: status %d", asset, e.Status)
			}
			return static.Put(ctx, asset, e)
		})
	}
	if err := p.Wait(); err != nil {
		log.Error("install aborted", "error", err)
		return err
	}
	log.Info("install complete", "assets", len(manifest))
	return nil
}

// Activate drops every partition whose name is not one of the current
// constants, then the new partition set serves all requests.
func Activate(ctx context.Context, store Store, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	names, err := store.Names()
	if err != nil {
		return fmt.Errorf("list partitions: %w", err)
	}
	current := CurrentPartitions()
	for _, name := range names {
		if slices.Contains(current, name) {
			continue
		}
		if err := store.Drop(name); err != nil {
			return fmt.Errorf("drop stale partition %s: %w", name, err)
		}
		log.Info("dropped stale partition", "partition", name)
	}
	return nil
}

func entryFromResponse(resp *http.Response) (*Entry, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}, nil
}
