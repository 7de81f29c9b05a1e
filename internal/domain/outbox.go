package domain

import (
	"context"
	"encoding/json"
	"time"
)

// FormKind names a queued form collection.
type FormKind string

// The two form collections drained by background sync.
const (
	FormContact    FormKind = "contact-form"
	FormNewsletter FormKind = "newsletter-signup"
)

// OutboxRecord is one queued form submission awaiting delivery. Records stay
// queued until delivery is acknowledged, so delivery is at-least-once.
type OutboxRecord struct {
	ID       int64           `json:"id"`
	Kind     FormKind        `json:"kind"`
	Data     json.RawMessage `json:"data"`
	QueuedAt time.Time       `json:"queuedAt"`
}

// OutboxRepository defines the port for the durable form queue. IDs are
// assigned by the repository in increasing order.
type OutboxRepository interface {
	Enqueue(ctx context.Context, kind FormKind, data json.RawMessage) (int64, error)
	Pending(ctx context.Context, kind FormKind) ([]OutboxRecord, error)
	Delete(ctx context.Context, id int64) error
}
