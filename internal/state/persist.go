package state

import (
	"context"
	"log/slog"

	"artesanal/internal/domain"
)

// Persister writes the durable slice of the store through a StateRepository
// whenever the store changes. It keeps persistence out of the mutation path:
// the store only emits snapshots, the persister owns the I/O.
type Persister struct {
	repo domain.StateRepository
	key  string
	log  *slog.Logger
}

// NewPersister returns a persister writing snapshots under the given key.
func NewPersister(repo domain.StateRepository, key string, log *slog.Logger) *Persister {
	if log == nil {
		log = slog.Default()
	}
	return &Persister{repo: repo, key: key, log: log}
}

// Attach subscribes the persister to the store. Every change rewrites the
// whole snapshot; write failures are logged, not surfaced to the mutator.
func (p *Persister) Attach(s *Store) {
	s.Subscribe(func(snap domain.Snapshot) {
		if err := p.repo.SaveSnapshot(context.Background(), p.key, snap); err != nil {
			p.log.Error("persist state snapshot", "key", p.key, "error", err)
		}
	})
}

// Restore rehydrates the store from the persisted snapshot, if one exists.
func (p *Persister) Restore(ctx context.Context, s *Store) error {
	snap, err := p.repo.LoadSnapshot(ctx, p.key)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	s.Rehydrate(*snap)
	return nil
}
