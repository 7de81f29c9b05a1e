package domain

// WishlistEntry is a product snapshot saved for later. There is at most one
// entry per product id.
type WishlistEntry struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

// NewWishlistEntry builds a wishlist entry from a product snapshot.
func NewWishlistEntry(p Product) WishlistEntry {
	return WishlistEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
	}
}
