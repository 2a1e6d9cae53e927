package store

import (
	"context"
	"testing"

	"elbasta-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRepository runs the behaviour every Repository implementation shares.
func testRepository(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("products", func(t *testing.T) { testProducts(t, newRepo(t)) })
	t.Run("categories", func(t *testing.T) { testCategories(t, newRepo(t)) })
	t.Run("locations", func(t *testing.T) { testLocations(t, newRepo(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newRepo(t)) })
	t.Run("settings", func(t *testing.T) { testSettings(t, newRepo(t)) })
}

func testProducts(t *testing.T, repo Repository) {
	ctx := context.Background()
	discount := 450

	p := &models.Product{
		Name:       "Tacos poulet",
		CategoryID: "tacos",
		Price:      600,
		LocationPrices: models.LocationPrices{
			"A": {LocationID: "A", Price: 500, IsAvailable: true, Status: models.ProductStatusPromotion, DiscountPrice: &discount},
		},
	}
	require.NoError(t, repo.CreateProduct(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tacos poulet", got.Name)
	require.Contains(t, got.LocationPrices, "A")
	assert.Equal(t, 500, got.LocationPrices["A"].Price)
	require.NotNil(t, got.LocationPrices["A"].DiscountPrice)
	assert.Equal(t, 450, *got.LocationPrices["A"].DiscountPrice)

	require.NoError(t, repo.CreateProduct(ctx, &models.Product{Name: "Pizza", CategoryID: "pizzas"}))

	list, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := repo.CountProductsInCategory(ctx, "tacos")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got.Name = "Tacos poulet XL"
	got.LocationPrices["B"] = models.LocationPrice{LocationID: "B", Price: 700, IsAvailable: false}
	require.NoError(t, repo.UpdateProduct(ctx, &got))

	updated, err := repo.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tacos poulet XL", updated.Name)
	assert.Len(t, updated.LocationPrices, 2)
	assert.False(t, updated.LocationPrices["B"].IsAvailable)
	assert.True(t, updated.CreatedAt.Equal(got.CreatedAt), "created at must not change")

	missing := &models.Product{ID: "does-not-exist", Name: "x"}
	assert.ErrorIs(t, repo.UpdateProduct(ctx, missing), ErrNotFound)

	require.NoError(t, repo.DeleteProduct(ctx, p.ID))
	_, err = repo.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, p.ID), ErrNotFound)

	n, err = repo.CountProductsInCategory(ctx, "tacos")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func testCategories(t *testing.T, repo Repository) {
	ctx := context.Background()

	drinks := &models.Category{Name: "Boissons", Order: 3}
	tacos := &models.Category{Name: "Tacos", Order: 1}
	require.NoError(t, repo.CreateCategory(ctx, drinks))
	require.NoError(t, repo.CreateCategory(ctx, tacos))

	list, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Tacos", list[0].Name)
	assert.Equal(t, "Boissons", list[1].Name)

	drinks.Order = 0
	require.NoError(t, repo.UpdateCategory(ctx, drinks))
	list, err = repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Boissons", list[0].Name)

	require.NoError(t, repo.DeleteCategory(ctx, tacos.ID))
	_, err = repo.GetCategory(ctx, tacos.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testLocations(t *testing.T, repo Repository) {
	ctx := context.Background()

	l := &models.Location{Name: "Hydra", Address: "Alger", IsActive: true, IsDeliveryAvailable: false}
	require.NoError(t, repo.CreateLocation(ctx, l))

	got, err := repo.GetLocation(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsDeliveryAvailable)

	got.IsDeliveryAvailable = true
	got.OpeningHours = "11:00 - 23:00"
	require.NoError(t, repo.UpdateLocation(ctx, &got))

	got, err = repo.GetLocation(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeliveryAvailable)
	assert.Equal(t, "11:00 - 23:00", got.OpeningHours)

	list, err := repo.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteLocation(ctx, l.ID))
	assert.ErrorIs(t, repo.DeleteLocation(ctx, l.ID), ErrNotFound)
}

func testOrders(t *testing.T, repo Repository) {
	ctx := context.Background()
	distance := 2.5

	o := &models.Order{
		TrackingID:   "ELB1234",
		CustomerName: "Amine",
		Phone:        "0555123456",
		Address:      "Hydra",
		Method:       models.MethodDelivery,
		Items:        []models.OrderItem{{ID: "p1", Name: "Tacos", Price: 600, Quantity: 2}},
		Subtotal:     1200,
		ServiceFees:  50,
		DeliveryFee:  100,
		Total:        1350,
		DistanceKm:   &distance,
	}
	require.NoError(t, repo.CreateOrder(ctx, o))
	require.NotEmpty(t, o.ID)
	assert.Equal(t, models.OrderStatusPreparing, o.Status)

	require.NoError(t, repo.CreateOrder(ctx, &models.Order{
		TrackingID: "ELB5678",
		Method:     models.MethodPickup,
		Status:     models.OrderStatusDelivered,
		Items:      []models.OrderItem{},
	}))

	got, err := repo.GetOrderByTrackingID(ctx, "ELB1234")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	require.NotNil(t, got.DistanceKm)
	assert.InDelta(t, 2.5, *got.DistanceKm, 1e-9)

	_, err = repo.GetOrderByTrackingID(ctx, "ELB0000")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := repo.TrackingIDExists(ctx, "ELB1234")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.TrackingIDExists(ctx, "ELB9999")
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := repo.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	delivered, err := repo.ListOrders(ctx, OrderFilter{Status: models.OrderStatusDelivered})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "ELB5678", delivered[0].TrackingID)

	limited, err := repo.ListOrders(ctx, OrderFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	eta := "30 min"
	updated, err := repo.UpdateOrderStatus(ctx, o.ID, models.OrderStatusDelivering, &eta)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivering, updated.Status)
	assert.Equal(t, "30 min", updated.EstimatedTime)
	assert.Equal(t, 1350, updated.Total)

	updated, err = repo.UpdateOrderStatus(ctx, o.ID, models.OrderStatusDelivered, nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, "30 min", updated.EstimatedTime)

	_, err = repo.UpdateOrderStatus(ctx, "missing", models.OrderStatusCancelled, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testSettings(t *testing.T, repo Repository) {
	ctx := context.Background()

	s, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "08:00", s.StoreSettings.OpenTime)
	assert.Equal(t, "23:00", s.StoreSettings.CloseTime)
	assert.True(t, s.StoreSettings.IsDeliveryAvailable)
	assert.Empty(t, s.DeliverySettings)
	assert.EqualValues(t, 0, s.Version)

	s, err = repo.UpdateServiceFees(ctx, 150)
	require.NoError(t, err)
	assert.Equal(t, 150, s.ServiceFees)
	assert.EqualValues(t, 1, s.Version)

	tiers := []models.DeliverySetting{{Min: 0, Max: 5, Fee: 100}, {Min: 5, Max: 15, Fee: 300}}
	s, err = repo.UpdateDeliverySettings(ctx, tiers)
	require.NoError(t, err)
	assert.Equal(t, tiers, s.DeliverySettings)
	assert.Equal(t, 150, s.ServiceFees, "other groups are untouched")
	assert.EqualValues(t, 2, s.Version)

	s, err = repo.UpdateStoreSettings(ctx, models.StoreSettings{
		OpenTime:            "18:00",
		CloseTime:           "02:00",
		IsDeliveryAvailable: false,
		HeroSubtitle:        "Street food",
	})
	require.NoError(t, err)
	assert.Equal(t, "18:00", s.StoreSettings.OpenTime)
	assert.False(t, s.StoreSettings.IsDeliveryAvailable)
	assert.Equal(t, tiers, s.DeliverySettings)

	s, err = repo.UpdatePromotedProducts(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, s.PromotedProducts)
	assert.EqualValues(t, 4, s.Version)

	// last write wins within a group
	_, err = repo.UpdateServiceFees(ctx, 200)
	require.NoError(t, err)
	s, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, s.ServiceFees)
	assert.Equal(t, "02:00", s.StoreSettings.CloseTime)
	assert.EqualValues(t, 5, s.Version)
}
