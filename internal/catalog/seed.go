// Package catalog holds the seed product data for the storefront.
package catalog

import "artesanal/internal/domain"

// Seed returns the artisan product catalog used to populate an empty store.
// Prices are in Colombian pesos.
func Seed() []domain.Product {
	return []domain.Product{
		{
			ID: 1, Name: "Barra de chocolate 70%",
			Description: "Dark chocolate bar from single-origin Chocó cacao.",
			Price:       28000, Image: "/images/products/barra-70.jpg",
			Category: "Chocolate", Artisan: "Asociación Chocolate Tumaco",
			Origin: "Quibdó", Featured: true, Rating: 4.8,
		},
		{
			ID: 2, Name: "Nibs de cacao tostado",
			Description: "Roasted cacao nibs, 250g.",
			Price:       22000, Image: "/images/products/nibs.jpg",
			Category: "Chocolate", Artisan: "Asociación Chocolate Tumaco",
			Origin: "Quibdó", Rating: 4.6,
		},
		{
			ID: 3, Name: "Cesta de werregue",
			Description: "Hand-woven werregue palm basket, natural dyes.",
			Price:       185000, Image: "/images/products/werregue.jpg",
			Category: "Cestería", Artisan: "Tejedoras del San Juan",
			Origin: "Litoral del San Juan", Featured: true, Rating: 4.9,
		},
		{
			ID: 4, Name: "Bolso de damagua",
			Description: "Bag made from damagua tree bark fiber.",
			Price:       95000, Image: "/images/products/damagua.jpg",
			Category: "Textiles", Artisan: "Manos del Atrato",
			Origin: "Bojayá", Rating: 4.5,
		},
		{
			ID: 5, Name: "Aretes de filigrana",
			Description: "Gold-plated filigree earrings, traditional Chocó design.",
			Price:       240000, Image: "/images/products/filigrana.jpg",
			Category: "Joyería", Artisan: "Orfebres de Condoto",
			Origin: "Condoto", Featured: true, Rating: 4.9,
		},
		{
			ID: 6, Name: "Cuenco de guayacán",
			Description: "Carved guayacán wood bowl.",
			Price:       68000, Image: "/images/products/cuenco.jpg",
			Category: "Madera", Artisan: "Talladores de Istmina",
			Origin: "Istmina", Rating: 4.4,
		},
		{
			ID: 7, Name: "Jabón de coco y cacao",
			Description: "Handmade soap with coconut oil and cacao butter.",
			Price:       14000, Image: "/images/products/jabon.jpg",
			Category: "Cuidado personal", Artisan: "Manos del Atrato",
			Origin: "Bojayá", Rating: 4.3,
		},
		{
			ID: 8, Name: "Marimba de chonta miniatura",
			Description: "Decorative miniature chonta-wood marimba.",
			Price:       120000, Image: "/images/products/marimba.jpg",
			Category: "Madera", Artisan: "Talladores de Istmina",
			Origin: "Istmina", Rating: 4.7,
		},
	}
}
