// Package outbox drains the durable form queue: pending records are posted
// to their endpoint and deleted only once delivery is acknowledged.
package outbox

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"artesanal/internal/domain"
)

// Poster submits one queued payload and returns the response status code.
type Poster interface {
	Post(ctx context.Context, url string, body []byte) (int, error)
}

// PosterFunc adapts a function to the Poster interface.
type PosterFunc func(ctx context.Context, url string, body []byte) (int, error)

// Post implements Poster.
func (f PosterFunc) Post(ctx context.Context, url string, body []byte) (int, error) {
	return f(ctx, url, body)
}

// HTTPPoster posts JSON payloads with a plain http.Client.
type HTTPPoster struct {
	client *http.Client
}

// NewHTTPPoster returns a poster with no request timeout.
func NewHTTPPoster() *HTTPPoster {
	return &HTTPPoster{client: &http.Client{}}
}

// Post implements Poster.
func (p *HTTPPoster) Post(ctx context.Context, url string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, nil
}

// Endpoints maps each form kind to its delivery URL.
type Endpoints map[domain.FormKind]string

// Drainer delivers queued form submissions. A record is deleted only after
// a successful response, so delivery is at-least-once: a crash between the
// acknowledged post and the delete re-delivers that record on the next
// drain.
type Drainer struct {
	repo      domain.OutboxRepository
	poster    Poster
	endpoints Endpoints
	log       *slog.Logger
}

// NewDrainer wires a drainer to the queue and its delivery endpoints.
func NewDrainer(repo domain.OutboxRepository, poster Poster, endpoints Endpoints, log *slog.Logger) *Drainer {
	if log == nil {
		log = slog.Default()
	}
	return &Drainer{repo: repo, poster: poster, endpoints: endpoints, log: log}
}

// Drain posts every pending record of the given kind. Per-record failures
// are logged and skipped; one failed record never blocks the rest. It
// returns the number of records delivered and removed.
func (d *Drainer) Drain(ctx context.Context, kind domain.FormKind) (int, error) {
	endpoint, ok := d.endpoints[kind]
	if !ok {
		return 0, fmt.Errorf("no endpoint for form kind %q", kind)
	}
	pending, err := d.repo.Pending(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("read pending %s: %w", kind, err)
	}

	delivered := 0
	for _, rec := range pending {
		status, err := d.poster.Post(ctx, endpoint, rec.Data)
		if err != nil {
			d.log.Error("deliver record", "kind", kind, "id", rec.ID, "error", err)
			continue
		}
		if status < 200 || status > 299 {
			d.log.Error("deliver record", "kind", kind, "id", rec.ID, "status", status)
			continue
		}
		if err := d.repo.Delete(ctx, rec.ID); err != nil {
			d.log.Error("delete delivered record", "kind", kind, "id", rec.ID, "error", err)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		d.log.Info("drained outbox", "kind", kind, "delivered", delivered, "pending", len(pending)-delivered)
	}
	return delivered, nil
}

// DrainAll drains every known form kind.
func (d *Drainer) DrainAll(ctx context.Context) error {
	for kind := range d.endpoints {
		if _, err := d.Drain(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}
