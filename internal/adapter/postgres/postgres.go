// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"artesanal/internal/catalog"
	"artesanal/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.UserRepository = (*DB)(nil)
var _ domain.CatalogRepository = (*DB)(nil)
var _ domain.StateRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, email TEXT UNIQUE NOT NULL, name TEXT NOT NULL, phone TEXT NOT NULL DEFAULT '', address TEXT NOT NULL DEFAULT '', password_hash TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS products (id BIGINT PRIMARY KEY, name TEXT NOT NULL, description TEXT NOT NULL, price DOUBLE PRECISION NOT NULL, image TEXT NOT NULL, category TEXT NOT NULL, artisan TEXT NOT NULL, origin TEXT NOT NULL, featured BOOLEAN NOT NULL, rating DOUBLE PRECISION NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);",
		"CREATE TABLE IF NOT EXISTS state_snapshots (key TEXT PRIMARY KEY, snapshot JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Seed the catalog once, on an empty products table.
	var productCount int
	if err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM products;").Scan(&productCount); err != nil {
		return fmt.Errorf("migrate: count products: %w", err)
	}
	if productCount == 0 {
		for _, p := range catalog.Seed() {
			_, err := d.sql.ExecContext(ctx,
				"INSERT INTO products (id, name, description, price, image, category, artisan, origin, featured, rating) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
				p.ID, p.Name, p.Description, p.Price, p.Image, p.Category, p.Artisan, p.Origin, p.Featured, p.Rating,
			)
			if err != nil {
				return fmt.Errorf("migrate: seed products: %w", err)
			}
		}
	}
	return nil
}
