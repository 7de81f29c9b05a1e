package domain

// Filters is the catalog search/filter tuple.
type Filters struct {
	Query      string `json:"query"`
	Category   string `json:"category"`
	PriceRange string `json:"priceRange"`
	Artisan    string `json:"artisan"`
	SortBy     string `json:"sortBy"`
}

// Sort keys accepted by the catalog.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortName      = "name"
	SortRating    = "rating"
)

// DefaultFilters returns the fixed default filter tuple.
func DefaultFilters() Filters {
	return Filters{SortBy: SortFeatured}
}

// FilterPatch holds a shallow partial update of the filter tuple.
type FilterPatch struct {
	Query      *string `json:"query,omitempty"`
	Category   *string `json:"category,omitempty"`
	PriceRange *string `json:"priceRange,omitempty"`
	Artisan    *string `json:"artisan,omitempty"`
	SortBy     *string `json:"sortBy,omitempty"`
}

// Apply merges the patch into f.
func (p FilterPatch) Apply(f *Filters) {
	if p.Query != nil {
		f.Query = *p.Query
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.PriceRange != nil {
		f.PriceRange = *p.PriceRange
	}
	if p.Artisan != nil {
		f.Artisan = *p.Artisan
	}
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
}
