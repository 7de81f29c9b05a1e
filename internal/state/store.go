// Package state implements the storefront state container: cart, wishlist,
// session, and catalog filters, with derived totals and change notification.
package state

import (
	"sync"

	"artesanal/internal/domain"
)

// Listener receives the durable snapshot after every completed mutation.
type Listener func(domain.Snapshot)

// Store holds all storefront state behind a single mutex. It is constructed
// explicitly and injected into its consumers; there is no package-level
// instance. Every mutation runs to completion under the lock, then notifies
// listeners with a copy of the durable slice.
type Store struct {
	mu        sync.Mutex
	cart      []domain.CartItem
	cartCount int
	cartTotal float64
	wishlist  []domain.WishlistEntry
	session   domain.Session
	filters   domain.Filters
	listeners []Listener
}

// New returns an empty store with default filters.
func New() *Store {
	return &Store{filters: domain.DefaultFilters()}
}

// Subscribe registers a listener for state changes. Listeners are invoked
// after the mutation completes, in registration order.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Rehydrate replaces the store contents from a persisted snapshot. Totals
// are recomputed rather than trusted from the snapshot. Listeners are not
// notified; rehydration restores state, it does not change it.
func (s *Store) Rehydrate(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = append([]domain.CartItem(nil), snap.Cart...)
	s.wishlist = append([]domain.WishlistEntry(nil), snap.Wishlist...)
	s.session = snap.Session
	s.filters = snap.Filters
	if s.filters == (domain.Filters{}) {
		s.filters = domain.DefaultFilters()
	}
	s.recomputeCart()
}

// --- Cart commands ---

// AddToCart adds a product to the cart, merging with an existing line for
// the same product id. Quantities below 1 are ignored.
func (s *Store) AddToCart(p domain.Product, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	merged := false
	for i := range s.cart {
		if s.cart[i].ProductID == p.ID {
			s.cart[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.cart = append(s.cart, domain.NewCartItem(p, quantity))
	}
	s.recomputeCart()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// RemoveFromCart deletes the cart line for the given product id.
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.recomputeCart()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// UpdateCartQuantity sets the quantity of an existing cart line. Quantities
// below 1 are silently ignored, as are unknown product ids.
func (s *Store) UpdateCartQuantity(productID int64, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	changed := false
	for i := range s.cart {
		if s.cart[i].ProductID == productID {
			s.cart[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.recomputeCart()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearCart empties the cart.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.recomputeCart()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// CompleteOrder empties the cart after checkout. No order entity is kept;
// the separate name exists for call-site clarity.
func (s *Store) CompleteOrder() {
	s.ClearCart()
}

// --- Wishlist commands ---

// AddToWishlist saves a product for later. Re-adding a present product id is
// a no-op.
func (s *Store) AddToWishlist(p domain.Product) {
	s.mu.Lock()
	for _, e := range s.wishlist {
		if e.ProductID == p.ID {
			s.mu.Unlock()
			return
		}
	}
	s.wishlist = append(s.wishlist, domain.NewWishlistEntry(p))
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// RemoveFromWishlist deletes the entry for the given product id.
func (s *Store) RemoveFromWishlist(productID int64) {
	s.mu.Lock()
	kept := s.wishlist[:0]
	for _, e := range s.wishlist {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	s.wishlist = kept
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearWishlist empties the wishlist.
func (s *Store) ClearWishlist() {
	s.mu.Lock()
	s.wishlist = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// --- Session commands ---

// Login replaces the whole session atomically.
func (s *Store) Login(u domain.User, token string) {
	s.mu.Lock()
	s.session = domain.NewSession(u, token)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Logout resets the session. Cart and wishlist persist across logout.
func (s *Store) Logout() {
	s.mu.Lock()
	s.session = domain.LoggedOut()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// UpdateUser shallow-merges the patch into the session user. No-op when
// logged out.
func (s *Store) UpdateUser(patch domain.UserPatch) {
	s.mu.Lock()
	u, ok := s.session.User()
	if !ok {
		s.mu.Unlock()
		return
	}
	patch.Apply(&u)
	s.session = s.session.WithUser(u)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// --- Filter commands ---

// UpdateFilters shallow-merges the patch into the filter tuple.
func (s *Store) UpdateFilters(patch domain.FilterPatch) {
	s.mu.Lock()
	patch.Apply(&s.filters)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ResetFilters restores the default filter tuple.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.filters = domain.DefaultFilters()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// ClearUserData resets session, cart, wishlist, and filters together. Used
// for full session teardown.
func (s *Store) ClearUserData() {
	s.mu.Lock()
	s.session = domain.LoggedOut()
	s.cart = nil
	s.wishlist = nil
	s.filters = domain.DefaultFilters()
	s.recomputeCart()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// --- Selectors ---

// CartItems returns a copy of the cart lines.
func (s *Store) CartItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.cart...)
}

// CartCount returns the sum of quantities across cart lines.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartCount
}

// CartTotal returns the sum of line totals.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartTotal
}

// WishlistItems returns a copy of the wishlist.
func (s *Store) WishlistItems() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistEntry(nil), s.wishlist...)
}

// IsInWishlist reports whether the product id is saved.
func (s *Store) IsInWishlist(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.wishlist {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// Session returns the current session.
func (s *Store) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Filters returns the current filter tuple.
func (s *Store) Filters() domain.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Snapshot returns the durable slice of the current state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// recomputeCart rebuilds line totals and both aggregates from scratch.
// Aggregates are never adjusted incrementally, so partial updates cannot
// drift.
func (s *Store) recomputeCart() {
	count := 0
	total := 0.0
	for i := range s.cart {
		s.cart[i].LineTotal = s.cart[i].Price * float64(s.cart[i].Quantity)
		count += s.cart[i].Quantity
		total += s.cart[i].LineTotal
	}
	s.cartCount = count
	s.cartTotal = total
}

func (s *Store) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Cart:     append([]domain.CartItem(nil), s.cart...),
		Wishlist: append([]domain.WishlistEntry(nil), s.wishlist...),
		Session:  s.session,
		Filters:  s.filters,
	}
}

func (s *Store) notify(snap domain.Snapshot) {
	s.mu.Lock()
	ls := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	for _, l := range ls {
		l(snap)
	}
}
