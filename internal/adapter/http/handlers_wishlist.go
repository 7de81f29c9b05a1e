package adapthttp

import (
	"errors"
	"net/http"
)

// handleWishlist serves the wishlist and its add/clear operations.
func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"items": s.store.WishlistItems()})
	case http.MethodPost:
		var req struct {
			ProductID int64 `json:"productId"`
		}
		if err := parseJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
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
		s.store.AddToWishlist(*p)
		writeJSON(w, http.StatusOK, map[string]any{"items": s.store.WishlistItems()})
	case http.MethodDelete:
		s.store.ClearWishlist()
		writeJSON(w, http.StatusOK, map[string]any{"items": s.store.WishlistItems()})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleWishlistItem removes one entry: DELETE /wishlist/{productId}.
func (s *Server) handleWishlistItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := idFromPath(r, "/wishlist/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.store.RemoveFromWishlist(id)
	writeJSON(w, http.StatusOK, map[string]any{"items": s.store.WishlistItems()})
}
