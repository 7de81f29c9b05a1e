package adapthttp

import (
	"errors"
	"net/http"
)

type cartView struct {
	Items any     `json:"items"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

func (s *Server) cartView() cartView {
	return cartView{
		Items: s.store.CartItems(),
		Count: s.store.CartCount(),
		Total: s.store.CartTotal(),
	}
}

// handleCart serves the cart and its add/update operations.
func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.cartView())
	case http.MethodPost:
		s.handleCartAdd(w, r)
	case http.MethodPut:
		s.handleCartUpdate(w, r)
	case http.MethodDelete:
		s.store.ClearCart()
		writeJSON(w, http.StatusOK, s.cartView())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	p, err := s.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, errors.New("product not found"))
		return
	}
	s.store.AddToCart(*p, req.Quantity)
	writeJSON(w, http.StatusOK, s.cartView())
}

// handleCartUpdate sets a line quantity. Quantities below 1 are a no-op by
// design, so the response simply reflects the unchanged cart.
func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.store.UpdateCartQuantity(req.ProductID, req.Quantity)
	writeJSON(w, http.StatusOK, s.cartView())
}

// handleCartItem removes one line: DELETE /cart/{productId}.
func (s *Server) handleCartItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := idFromPath(r, "/cart/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.store.RemoveFromCart(id)
	writeJSON(w, http.StatusOK, s.cartView())
}

// handleCompleteOrder clears the cart after checkout. No order record is
// kept.
func (s *Server) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.store.CompleteOrder()
	writeJSON(w, http.StatusOK, s.cartView())
}
