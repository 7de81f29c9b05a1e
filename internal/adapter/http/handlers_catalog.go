package adapthttp

import (
	"errors"
	"net/http"

	"artesanal/internal/domain"
)

// handleProducts lists products. Query parameters override the stored
// filter tuple for this request only; without any, the store's filters
// apply.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	f := s.store.Filters()
	q := r.URL.Query()
	if q.Has("query") {
		f.Query = q.Get("query")
	}
	if q.Has("category") {
		f.Category = q.Get("category")
	}
	if q.Has("priceRange") {
		f.PriceRange = q.Get("priceRange")
	}
	if q.Has("artisan") {
		f.Artisan = q.Get("artisan")
	}
	if q.Has("sortBy") {
		f.SortBy = q.Get("sortBy")
	}

	products, err := s.catalog.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "filters": f})
}

func (s *Server) handleProductByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := idFromPath(r, "/products/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, errors.New("product not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// handleFilters reads, patches, or resets the stored filter tuple.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.store.Filters())
	case http.MethodPut:
		var patch domain.FilterPatch
		if err := parseJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.store.UpdateFilters(patch)
		writeJSON(w, http.StatusOK, s.store.Filters())
	case http.MethodDelete:
		s.store.ResetFilters()
		writeJSON(w, http.StatusOK, s.store.Filters())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
