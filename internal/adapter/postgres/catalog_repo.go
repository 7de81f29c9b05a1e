package postgres

import (
	"context"
	"database/sql"

	"artesanal/internal/domain"
)

const productColumns = "id, name, description, price, image, category, artisan, origin, featured, rating"

// ListProducts lists the whole catalog.
func (d *DB) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Artisan, &p.Origin, &p.Featured, &p.Rating); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct returns the product with the given id, or nil.
func (d *DB) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := d.sql.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.Artisan, &p.Origin, &p.Featured, &p.Rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCategories lists distinct categories in sorted order.
func (d *DB) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
