package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elbasta-backend/models"

	"gorm.io/gorm"
)

// SQL is a Repository on top of gorm. Nested values (location prices, order
// items, settings groups) are stored as JSON text columns.
type SQL struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Name() string { return s.db.Dialector.Name() }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// updateRow writes every column of v except the immutable ones and reports
// ErrNotFound when no row has the given id.
func (s *SQL) updateRow(ctx context.Context, model interface{}, id string, v interface{}) error {
	res := s.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQL) deleteRow(ctx context.Context, model interface{}, id string) error {
	res := s.db.WithContext(ctx).Delete(model, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Products

func (s *SQL) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *SQL) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

func (s *SQL) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *SQL) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now()
	if err := s.updateRow(ctx, &models.Product{}, p.ID, p); err != nil {
		return err
	}
	return s.db.WithContext(ctx).First(p, "id = ?", p.ID).Error
}

func (s *SQL) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteRow(ctx, &models.Product{}, id)
}

func (s *SQL) CountProductsInCategory(ctx context.Context, categoryID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return int(n), err
}

// Categories

func (s *SQL) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("sort_order").Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *SQL) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return models.Category{}, notFound(err)
	}
	return c, nil
}

func (s *SQL) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *SQL) UpdateCategory(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now()
	if err := s.updateRow(ctx, &models.Category{}, c.ID, c); err != nil {
		return err
	}
	return s.db.WithContext(ctx).First(c, "id = ?", c.ID).Error
}

func (s *SQL) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteRow(ctx, &models.Category{}, id)
}

// Locations

func (s *SQL) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.WithContext(ctx).Order("LOWER(name)").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (s *SQL) GetLocation(ctx context.Context, id string) (models.Location, error) {
	var l models.Location
	if err := s.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return models.Location{}, notFound(err)
	}
	return l, nil
}

func (s *SQL) CreateLocation(ctx context.Context, l *models.Location) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *SQL) UpdateLocation(ctx context.Context, l *models.Location) error {
	l.UpdatedAt = time.Now()
	if err := s.updateRow(ctx, &models.Location{}, l.ID, l); err != nil {
		return err
	}
	return s.db.WithContext(ctx).First(l, "id = ?", l.ID).Error
}

func (s *SQL) DeleteLocation(ctx context.Context, id string) error {
	return s.deleteRow(ctx, &models.Location{}, id)
}

// Orders

func (s *SQL) CreateOrder(ctx context.Context, o *models.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

func (s *SQL) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return models.Order{}, notFound(err)
	}
	return o, nil
}

func (s *SQL) GetOrderByTrackingID(ctx context.Context, trackingID string) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).
		Where("tracking_id = ?", trackingID).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		return models.Order{}, notFound(err)
	}
	return o, nil
}

func (s *SQL) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("tracking_id = ?", trackingID).Count(&n).Error
	return n > 0, err
}

func (s *SQL) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *SQL) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, estimatedTime *string) (models.Order, error) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if estimatedTime != nil {
		updates["estimated_time"] = *estimatedTime
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return models.Order{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Order{}, ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

// Settings

func (s *SQL) GetSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsDocumentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	settings.ApplyDefaults()
	return settings, nil
}

// updateSettings rewrites only the given columns of the settings row, creating
// the row from defaults on first write.
func (s *SQL) updateSettings(ctx context.Context, apply func(*models.Settings), columns ...string) (models.Settings, error) {
	var out models.Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current := models.DefaultSettings()
		if err := tx.Where("id = ?", models.SettingsDocumentID).FirstOrCreate(&current).Error; err != nil {
			return fmt.Errorf("load settings: %w", err)
		}

		apply(&current)
		current.Version++
		current.UpdatedAt = time.Now()

		if err := tx.Model(&current).Select(append(columns, "version", "updated_at")).Updates(&current).Error; err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		out = current
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	out.ApplyDefaults()
	return out, nil
}

func (s *SQL) UpdateServiceFees(ctx context.Context, fees int) (models.Settings, error) {
	return s.updateSettings(ctx, func(st *models.Settings) { st.ServiceFees = fees }, "service_fees")
}

func (s *SQL) UpdatePromotedProducts(ctx context.Context, productIDs []string) (models.Settings, error) {
	return s.updateSettings(ctx, func(st *models.Settings) { st.PromotedProducts = productIDs }, "promoted_products")
}

func (s *SQL) UpdateStoreSettings(ctx context.Context, ss models.StoreSettings) (models.Settings, error) {
	return s.updateSettings(ctx, func(st *models.Settings) { st.StoreSettings = ss }, "store_settings")
}

func (s *SQL) UpdateDeliverySettings(ctx context.Context, tiers []models.DeliverySetting) (models.Settings, error) {
	return s.updateSettings(ctx, func(st *models.Settings) { st.DeliverySettings = tiers }, "delivery_settings")
}
