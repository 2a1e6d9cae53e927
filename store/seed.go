package store

import (
	"context"
	"fmt"

	"elbasta-backend/models"
)

// Seed fills an empty repository with a small demo menu: two branches, three
// categories, a handful of products and delivery tiers. It is used for the
// in-memory store so the storefront has something to show in development.
func Seed(ctx context.Context, repo Repository) error {
	hydra := &models.Location{
		ID:                  "hydra",
		Name:                "ElBasta Hydra",
		Address:             "Rue des Frères Oughlis, Hydra, Alger",
		Phone:               "0555123456",
		WhatsApp:            "213555123456",
		OpeningHours:        "Tous les jours 08:00 - 23:00",
		IsDeliveryAvailable: true,
		IsActive:            true,
	}
	babEzzouar := &models.Location{
		ID:                  "bab-ezzouar",
		Name:                "ElBasta Bab Ezzouar",
		Address:             "Cité 5 Juillet, Bab Ezzouar, Alger",
		Phone:               "0666123456",
		WhatsApp:            "213666123456",
		OpeningHours:        "Tous les jours 11:00 - 23:00",
		IsDeliveryAvailable: false,
		IsActive:            true,
	}
	for _, l := range []*models.Location{hydra, babEzzouar} {
		if err := repo.CreateLocation(ctx, l); err != nil {
			return fmt.Errorf("seed location %s: %w", l.ID, err)
		}
	}

	categories := []*models.Category{
		{ID: "tacos", Name: "Tacos", Order: 1},
		{ID: "pizzas", Name: "Pizzas", Order: 2},
		{ID: "boissons", Name: "Boissons", Order: 3},
	}
	for _, c := range categories {
		if err := repo.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}

	promo := 550
	products := []*models.Product{
		{
			ID: "tacos-poulet", Name: "Tacos poulet", Description: "Poulet mariné, frites, sauce fromagère",
			CategoryID: "tacos", Price: 600, Status: models.ProductStatusNew,
			LocationPrices: models.LocationPrices{
				"hydra":       {LocationID: "hydra", Price: 600, IsAvailable: true, Status: models.ProductStatusNew},
				"bab-ezzouar": {LocationID: "bab-ezzouar", Price: 650, IsAvailable: true},
			},
		},
		{
			ID: "tacos-viande-hachee", Name: "Tacos viande hachée", Description: "Viande hachée, frites, sauce algérienne",
			CategoryID: "tacos", Price: 700,
			LocationPrices: models.LocationPrices{
				"hydra": {LocationID: "hydra", Price: 700, IsAvailable: true, Status: models.ProductStatusPromotion, DiscountPrice: &promo},
			},
		},
		{
			ID: "pizza-margherita", Name: "Pizza margherita", Description: "Tomate, mozzarella, basilic",
			CategoryID: "pizzas", Price: 500,
			LocationPrices: models.LocationPrices{
				"hydra":       {LocationID: "hydra", Price: 500, IsAvailable: true},
				"bab-ezzouar": {LocationID: "bab-ezzouar", Price: 500, IsAvailable: false},
			},
		},
		{
			ID: "hamoud", Name: "Hamoud Boualem 33cl", CategoryID: "boissons", Price: 100,
			LocationPrices: models.LocationPrices{
				"hydra":       {LocationID: "hydra", Price: 100, IsAvailable: true},
				"bab-ezzouar": {LocationID: "bab-ezzouar", Price: 100, IsAvailable: true},
			},
		},
	}
	for _, p := range products {
		if err := repo.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}

	if _, err := repo.UpdateServiceFees(ctx, 50); err != nil {
		return fmt.Errorf("seed service fees: %w", err)
	}
	if _, err := repo.UpdateDeliverySettings(ctx, []models.DeliverySetting{
		{Min: 0, Max: 5, Fee: 100},
		{Min: 5, Max: 15, Fee: 300},
	}); err != nil {
		return fmt.Errorf("seed delivery settings: %w", err)
	}
	if _, err := repo.UpdatePromotedProducts(ctx, []string{"tacos-viande-hachee"}); err != nil {
		return fmt.Errorf("seed promoted products: %w", err)
	}
	return nil
}
