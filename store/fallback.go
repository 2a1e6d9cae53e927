package store

import (
	"context"
	"errors"

	"elbasta-backend/models"

	"go.uber.org/zap"
)

// Fallback serves every call from the primary repository and, when that fails
// for any reason other than a missing document or a cancelled request, logs
// the failure and retries the call on the secondary repository.
//
// Reads and writes served by the secondary are not replayed to the primary.
type Fallback struct {
	primary   Repository
	secondary Repository
	logger    *zap.Logger
}

func WithFallback(primary, secondary Repository, logger *zap.Logger) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

func (f *Fallback) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

func (f *Fallback) shouldFallback(ctx context.Context, err error) bool {
	if err == nil || errors.Is(err, ErrNotFound) {
		return false
	}
	return ctx.Err() == nil
}

func call[T any](ctx context.Context, f *Fallback, op string, fn func(Repository) (T, error)) (T, error) {
	v, err := fn(f.primary)
	if !f.shouldFallback(ctx, err) {
		return v, err
	}
	f.logger.Warn("primary store failed, using fallback",
		zap.String("op", op),
		zap.String("primary", f.primary.Name()),
		zap.String("fallback", f.secondary.Name()),
		zap.Error(err),
	)
	return fn(f.secondary)
}

func exec(ctx context.Context, f *Fallback, op string, fn func(Repository) error) error {
	_, err := call(ctx, f, op, func(r Repository) (struct{}, error) {
		return struct{}{}, fn(r)
	})
	return err
}

func (f *Fallback) ListProducts(ctx context.Context) ([]models.Product, error) {
	return call(ctx, f, "ListProducts", func(r Repository) ([]models.Product, error) { return r.ListProducts(ctx) })
}

func (f *Fallback) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return call(ctx, f, "GetProduct", func(r Repository) (models.Product, error) { return r.GetProduct(ctx, id) })
}

func (f *Fallback) CreateProduct(ctx context.Context, p *models.Product) error {
	return exec(ctx, f, "CreateProduct", func(r Repository) error { return r.CreateProduct(ctx, p) })
}

func (f *Fallback) UpdateProduct(ctx context.Context, p *models.Product) error {
	return exec(ctx, f, "UpdateProduct", func(r Repository) error { return r.UpdateProduct(ctx, p) })
}

func (f *Fallback) DeleteProduct(ctx context.Context, id string) error {
	return exec(ctx, f, "DeleteProduct", func(r Repository) error { return r.DeleteProduct(ctx, id) })
}

func (f *Fallback) CountProductsInCategory(ctx context.Context, categoryID string) (int, error) {
	return call(ctx, f, "CountProductsInCategory", func(r Repository) (int, error) { return r.CountProductsInCategory(ctx, categoryID) })
}

func (f *Fallback) ListCategories(ctx context.Context) ([]models.Category, error) {
	return call(ctx, f, "ListCategories", func(r Repository) ([]models.Category, error) { return r.ListCategories(ctx) })
}

func (f *Fallback) GetCategory(ctx context.Context, id string) (models.Category, error) {
	return call(ctx, f, "GetCategory", func(r Repository) (models.Category, error) { return r.GetCategory(ctx, id) })
}

func (f *Fallback) CreateCategory(ctx context.Context, c *models.Category) error {
	return exec(ctx, f, "CreateCategory", func(r Repository) error { return r.CreateCategory(ctx, c) })
}

func (f *Fallback) UpdateCategory(ctx context.Context, c *models.Category) error {
	return exec(ctx, f, "UpdateCategory", func(r Repository) error { return r.UpdateCategory(ctx, c) })
}

func (f *Fallback) DeleteCategory(ctx context.Context, id string) error {
	return exec(ctx, f, "DeleteCategory", func(r Repository) error { return r.DeleteCategory(ctx, id) })
}

func (f *Fallback) ListLocations(ctx context.Context) ([]models.Location, error) {
	return call(ctx, f, "ListLocations", func(r Repository) ([]models.Location, error) { return r.ListLocations(ctx) })
}

func (f *Fallback) GetLocation(ctx context.Context, id string) (models.Location, error) {
	return call(ctx, f, "GetLocation", func(r Repository) (models.Location, error) { return r.GetLocation(ctx, id) })
}

func (f *Fallback) CreateLocation(ctx context.Context, l *models.Location) error {
	return exec(ctx, f, "CreateLocation", func(r Repository) error { return r.CreateLocation(ctx, l) })
}

func (f *Fallback) UpdateLocation(ctx context.Context, l *models.Location) error {
	return exec(ctx, f, "UpdateLocation", func(r Repository) error { return r.UpdateLocation(ctx, l) })
}

func (f *Fallback) DeleteLocation(ctx context.Context, id string) error {
	return exec(ctx, f, "DeleteLocation", func(r Repository) error { return r.DeleteLocation(ctx, id) })
}

func (f *Fallback) CreateOrder(ctx context.Context, o *models.Order) error {
	return exec(ctx, f, "CreateOrder", func(r Repository) error { return r.CreateOrder(ctx, o) })
}

func (f *Fallback) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return call(ctx, f, "GetOrder", func(r Repository) (models.Order, error) { return r.GetOrder(ctx, id) })
}

func (f *Fallback) GetOrderByTrackingID(ctx context.Context, trackingID string) (models.Order, error) {
	return call(ctx, f, "GetOrderByTrackingID", func(r Repository) (models.Order, error) { return r.GetOrderByTrackingID(ctx, trackingID) })
}

func (f *Fallback) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	return call(ctx, f, "TrackingIDExists", func(r Repository) (bool, error) { return r.TrackingIDExists(ctx, trackingID) })
}

func (f *Fallback) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	return call(ctx, f, "ListOrders", func(r Repository) ([]models.Order, error) { return r.ListOrders(ctx, filter) })
}

func (f *Fallback) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, estimatedTime *string) (models.Order, error) {
	return call(ctx, f, "UpdateOrderStatus", func(r Repository) (models.Order, error) {
		return r.UpdateOrderStatus(ctx, id, status, estimatedTime)
	})
}

func (f *Fallback) GetSettings(ctx context.Context) (models.Settings, error) {
	return call(ctx, f, "GetSettings", func(r Repository) (models.Settings, error) { return r.GetSettings(ctx) })
}

func (f *Fallback) UpdateServiceFees(ctx context.Context, fees int) (models.Settings, error) {
	return call(ctx, f, "UpdateServiceFees", func(r Repository) (models.Settings, error) { return r.UpdateServiceFees(ctx, fees) })
}

func (f *Fallback) UpdatePromotedProducts(ctx context.Context, productIDs []string) (models.Settings, error) {
	return call(ctx, f, "UpdatePromotedProducts", func(r Repository) (models.Settings, error) {
		return r.UpdatePromotedProducts(ctx, productIDs)
	})
}

func (f *Fallback) UpdateStoreSettings(ctx context.Context, ss models.StoreSettings) (models.Settings, error) {
	return call(ctx, f, "UpdateStoreSettings", func(r Repository) (models.Settings, error) { return r.UpdateStoreSettings(ctx, ss) })
}

func (f *Fallback) UpdateDeliverySettings(ctx context.Context, tiers []models.DeliverySetting) (models.Settings, error) {
	return call(ctx, f, "UpdateDeliverySettings", func(r Repository) (models.Settings, error) {
		return r.UpdateDeliverySettings(ctx, tiers)
	})
}
