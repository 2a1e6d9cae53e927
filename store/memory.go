package store

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"elbasta-backend/models"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process Repository. Values are copied in and
// out so callers never share state with the store.
type Memory struct {
	mu         sync.RWMutex
	products   map[string]models.Product
	categories map[string]models.Category
	locations  map[string]models.Location
	orders     map[string]models.Order
	settings   *models.Settings

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		products:   make(map[string]models.Product),
		categories: make(map[string]models.Category),
		locations:  make(map[string]models.Location),
		orders:     make(map[string]models.Order),
		now:        time.Now,
	}
}

func (m *Memory) Name() string { return "memory" }

func cloneProduct(p models.Product) models.Product {
	p.LocationPrices = maps.Clone(p.LocationPrices)
	for id, lp := range p.LocationPrices {
		if lp.DiscountPrice != nil {
			v := *lp.DiscountPrice
			lp.DiscountPrice = &v
			p.LocationPrices[id] = lp
		}
	}
	if p.DiscountPrice != nil {
		v := *p.DiscountPrice
		p.DiscountPrice = &v
	}
	return p
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	o.DistanceKm = cloneFloat(o.DistanceKm)
	o.Latitude = cloneFloat(o.Latitude)
	o.Longitude = cloneFloat(o.Longitude)
	return o
}

func cloneSettings(s models.Settings) models.Settings {
	s.PromotedProducts = slices.Clone(s.PromotedProducts)
	s.DeliverySettings = slices.Clone(s.DeliverySettings)
	return s
}

// Products

func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) GetProduct(ctx context.Context, id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return cloneProduct(p), nil
}

func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := m.now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = m.now()
	m.products[p.ID] = cloneProduct(*p)
	return nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *Memory) CountProductsInCategory(ctx context.Context, categoryID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// Categories

func (m *Memory) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Collect(maps.Values(m.categories))
	sortCategories(out)
	return out, nil
}

func sortCategories(cs []models.Category) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Order != cs[j].Order {
			return cs[i].Order < cs[j].Order
		}
		return cs[i].Name < cs[j].Name
	})
}

func (m *Memory) GetCategory(ctx context.Context, id string) (models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return models.Category{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) CreateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := m.now()
	c.CreatedAt, c.UpdatedAt = now, now
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) UpdateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = m.now()
	m.categories[c.ID] = *c
	return nil
}

func (m *Memory) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

// Locations

func (m *Memory) ListLocations(ctx context.Context) ([]models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Collect(maps.Values(m.locations))
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out, nil
}

func (m *Memory) GetLocation(ctx context.Context, id string) (models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.locations[id]
	if !ok {
		return models.Location{}, ErrNotFound
	}
	return l, nil
}

func (m *Memory) CreateLocation(ctx context.Context, l *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := m.now()
	l.CreatedAt, l.UpdatedAt = now, now
	m.locations[l.ID] = *l
	return nil
}

func (m *Memory) UpdateLocation(ctx context.Context, l *models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.locations[l.ID]
	if !ok {
		return ErrNotFound
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = m.now()
	m.locations[l.ID] = *l
	return nil
}

func (m *Memory) DeleteLocation(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.locations[id]; !ok {
		return ErrNotFound
	}
	delete(m.locations, id)
	return nil
}

// Orders

func (m *Memory) CreateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPreparing
	}
	now := m.now()
	o.CreatedAt, o.UpdatedAt = now, now
	m.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (m *Memory) GetOrder(ctx context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (m *Memory) GetOrderByTrackingID(ctx context.Context, trackingID string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		found models.Order
		ok    bool
	)
	for _, o := range m.orders {
		if o.TrackingID == trackingID && (!ok || o.CreatedAt.After(found.CreatedAt)) {
			found, ok = o, true
		}
	}
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(found), nil
}

func (m *Memory) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.TrackingID == trackingID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sortOrdersNewestFirst(out)
	return applyLimit(out, filter.Limit), nil
}

func sortOrdersNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}

func (m *Memory) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, estimatedTime *string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	o.Status = status
	if estimatedTime != nil {
		o.EstimatedTime = *estimatedTime
	}
	o.UpdatedAt = m.now()
	m.orders[id] = o
	return cloneOrder(o), nil
}

// Settings

func (m *Memory) GetSettings(ctx context.Context) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.settings == nil {
		return models.DefaultSettings(), nil
	}
	s := cloneSettings(*m.settings)
	s.ApplyDefaults()
	return s, nil
}

func (m *Memory) updateSettings(apply func(*models.Settings)) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		s := models.DefaultSettings()
		m.settings = &s
	}
	apply(m.settings)
	m.settings.Version++
	m.settings.UpdatedAt = m.now()

	s := cloneSettings(*m.settings)
	s.ApplyDefaults()
	return s, nil
}

func (m *Memory) UpdateServiceFees(ctx context.Context, fees int) (models.Settings, error) {
	return m.updateSettings(func(s *models.Settings) { s.ServiceFees = fees })
}

func (m *Memory) UpdatePromotedProducts(ctx context.Context, productIDs []string) (models.Settings, error) {
	ids := slices.Clone(productIDs)
	return m.updateSettings(func(s *models.Settings) { s.PromotedProducts = ids })
}

func (m *Memory) UpdateStoreSettings(ctx context.Context, ss models.StoreSettings) (models.Settings, error) {
	return m.updateSettings(func(s *models.Settings) { s.StoreSettings = ss })
}

func (m *Memory) UpdateDeliverySettings(ctx context.Context, tiers []models.DeliverySetting) (models.Settings, error) {
	list := slices.Clone(tiers)
	return m.updateSettings(func(s *models.Settings) { s.DeliverySettings = list })
}
