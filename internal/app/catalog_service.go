package app

import (
	"context"
	"slices"
	"strings"

	"artesanal/internal/domain"
)

// Price bucket names accepted by the catalog filter.
const (
	PriceUnder50k = "under-50000"
	Price50to150k = "50000-150000"
	PriceOver150k = "over-150000"
)

// CatalogService serves product listings with the storefront filter tuple
// applied.
type CatalogService struct {
	repo domain.CatalogRepository
}

// NewCatalogService creates a CatalogService backed by the given repository.
func NewCatalogService(repo domain.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns the products matching the filter tuple, sorted by its sort
// key.
func (s *CatalogService) List(ctx context.Context, f domain.Filters) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesFilters(p, f) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, f.SortBy)
	return matched, nil
}

// Get returns the product with the given id, or nil when absent.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// Categories lists the distinct product categories.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func matchesFilters(p domain.Product, f domain.Filters) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		artisan := strings.ToLower(p.Artisan)
		if !strings.Contains(name, q) && !strings.Contains(desc, q) && !strings.Contains(artisan, q) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if a := strings.ToLower(strings.TrimSpace(f.Artisan)); a != "" {
		if !strings.Contains(strings.ToLower(p.Artisan), a) {
			return false
		}
	}
	return priceInRange(p.Price, f.PriceRange)
}

// priceInRange treats an unknown bucket name as "no price filter".
func priceInRange(price float64, bucket string) bool {
	switch bucket {
	case PriceUnder50k:
		return price < 50000
	case Price50to150k:
		return price >= 50000 && price <= 150000
	case PriceOver150k:
		return price > 150000
	default:
		return true
	}
}

func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareFloat(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareFloat(b.Price, a.Price)
		})
	case domain.SortName:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(a.Name, b.Name)
		})
	case domain.SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareFloat(b.Rating, a.Rating)
		})
	default:
		// featured: featured products first, highest rated within each group
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			if a.Featured != b.Featured {
				if a.Featured {
					return -1
				}
				return 1
			}
			return compareFloat(b.Rating, a.Rating)
		})
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
