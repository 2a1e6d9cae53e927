// Package store persists the catalog, orders and admin settings.
//
// Repository is implemented by Firestore (production), SQL (gorm, Postgres
// or SQLite) and Memory (development, tests and degraded mode). Fallback
// wraps a primary repository and serves from a secondary one when the
// primary is unreachable.
package store

import (
	"context"
	"errors"

	"elbasta-backend/models"
)

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CountProductsInCategory(ctx context.Context, categoryID string) (int, error)
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type LocationRepository interface {
	ListLocations(ctx context.Context) ([]models.Location, error)
	GetLocation(ctx context.Context, id string) (models.Location, error)
	CreateLocation(ctx context.Context, l *models.Location) error
	UpdateLocation(ctx context.Context, l *models.Location) error
	DeleteLocation(ctx context.Context, id string) error
}

// OrderFilter narrows ListOrders. Zero values mean no filter.
type OrderFilter struct {
	Status models.OrderStatus
	Limit  int
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
	GetOrderByTrackingID(ctx context.Context, trackingID string) (models.Order, error)
	TrackingIDExists(ctx context.Context, trackingID string) (bool, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus sets the status and, when estimatedTime is non-nil,
	// the estimated time. It returns the updated order.
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, estimatedTime *string) (models.Order, error)
}

// SettingsRepository stores the settings aggregate. Every Update method
// replaces one field group, bumps the version and returns the new aggregate.
// There is no version check: concurrent writers to the same group resolve
// last-write-wins.
type SettingsRepository interface {
	// GetSettings returns the defaults when nothing was saved yet.
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateServiceFees(ctx context.Context, fees int) (models.Settings, error)
	UpdatePromotedProducts(ctx context.Context, productIDs []string) (models.Settings, error)
	UpdateStoreSettings(ctx context.Context, ss models.StoreSettings) (models.Settings, error)
	UpdateDeliverySettings(ctx context.Context, tiers []models.DeliverySetting) (models.Settings, error)
}

type Repository interface {
	ProductRepository
	CategoryRepository
	LocationRepository
	OrderRepository
	SettingsRepository
	// Name identifies the backing driver in logs and the health check.
	Name() string
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*SQL)(nil)
	_ Repository = (*Firestore)(nil)
	_ Repository = (*Fallback)(nil)
)
