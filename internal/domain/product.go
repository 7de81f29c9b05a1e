// Package domain contains the core business entities and interfaces.
package domain

import "context"

// Product represents a catalog item offered by an artisan.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Artisan     string  `json:"artisan"`
	Origin      string  `json:"origin"`
	Featured    bool    `json:"featured"`
	Rating      float64 `json:"rating"`
}

// CatalogRepository is the port for product catalog persistence.
type CatalogRepository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
