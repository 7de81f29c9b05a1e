package domain

// CartItem is a product snapshot held in the cart. LineTotal is always
// recomputed from Price and Quantity, never mutated independently, and
// Quantity is at least 1 for any stored item.
type CartItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// NewCartItem builds a cart item from a product snapshot.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
		LineTotal: p.Price * float64(quantity),
	}
}
