package domain

import "context"

// Snapshot is the durable slice of storefront state. The whole snapshot is
// rewritten on every change, never partially.
type Snapshot struct {
	Cart     []CartItem      `json:"cart"`
	Wishlist []WishlistEntry `json:"wishlist"`
	Session  Session         `json:"session"`
	Filters  Filters         `json:"filters"`
}

// StateRepository defines the port for snapshot persistence. Load returns
// (nil, nil) when no snapshot exists under the key.
type StateRepository interface {
	SaveSnapshot(ctx context.Context, key string, snap Snapshot) error
	LoadSnapshot(ctx context.Context, key string) (*Snapshot, error)
}
