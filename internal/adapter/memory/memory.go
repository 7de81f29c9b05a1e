// Package memory implements the domain repositories in memory for
// development and testing.
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"artesanal/internal/domain"
)

// DB implements the domain repositories with in-memory storage.
type DB struct {
	mu        sync.Mutex
	users     []*domain.User
	products  []domain.Product
	snapshots map[string]domain.Snapshot
	outbox    []domain.OutboxRecord

	userIDCounter   int64
	outboxIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{snapshots: make(map[string]domain.Snapshot)}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.CatalogRepository = (*DB)(nil)
var _ domain.StateRepository = (*DB)(nil)
var _ domain.OutboxRepository = (*DB)(nil)

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, email, name, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// UpdateProfile shallow-merges the patch into the stored user.
func (db *DB) UpdateProfile(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.ID == id {
			patch.Apply(u)
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- CatalogRepository ---

// SeedProducts replaces the product catalog.
func (db *DB) SeedProducts(products []domain.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products = append([]domain.Product(nil), products...)
}

// ListProducts lists the whole catalog.
func (db *DB) ListProducts(ctx context.Context) ([]domain.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]domain.Product(nil), db.products...), nil
}

// GetProduct returns the product with the given id, or nil.
func (db *DB) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, p := range db.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// ListCategories lists distinct categories in sorted order.
func (db *DB) ListCategories(ctx context.Context) ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range db.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

// --- StateRepository ---

// SaveSnapshot stores the whole snapshot under the key.
func (db *DB) SaveSnapshot(ctx context.Context, key string, snap domain.Snapshot) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.snapshots[key] = snap
	return nil
}

// LoadSnapshot returns the stored snapshot, or nil when absent.
func (db *DB) LoadSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	snap, ok := db.snapshots[key]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// --- OutboxRepository ---

// Enqueue appends a form record and returns its id.
func (db *DB) Enqueue(ctx context.Context, kind domain.FormKind, data json.RawMessage) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.outboxIDCounter++
	rec := domain.OutboxRecord{
		ID:       db.outboxIDCounter,
		Kind:     kind,
		Data:     append(json.RawMessage(nil), data...),
		QueuedAt: time.Now().UTC(),
	}
	db.outbox = append(db.outbox, rec)
	return rec.ID, nil
}

// Pending returns the queued records of a kind in enqueue order.
func (db *DB) Pending(ctx context.Context, kind domain.FormKind) ([]domain.OutboxRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []domain.OutboxRecord
	for _, rec := range db.outbox {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Delete removes the record with the given id.
func (db *DB) Delete(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	kept := db.outbox[:0]
	for _, rec := range db.outbox {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	db.outbox = kept
	return nil
}
