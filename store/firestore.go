package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elbasta-backend/models"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ordersCollection     = "orders"
	productsCollection   = "products"
	categoriesCollection = "categories"
	locationsCollection  = "locations"
	configCollection     = "config"
)

// Firestore is the production Repository. Each entity is one document; the
// settings aggregate lives in config/main.
type Firestore struct {
	client *firestore.Client
	now    func() time.Time
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client, now: time.Now}
}

func (s *Firestore) Name() string { return "firestore" }

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func mapErr(err error) error {
	if isNotFound(err) {
		return ErrNotFound
	}
	return err
}

// readAll decodes every document of the iterator and sets its id.
func readAll[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]T, error) {
	defer iter.Stop()

	out := []T{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.Path, err)
		}
		setID(&v, doc.Ref.ID)
		out = append(out, v)
	}
}

func readOne[T any](ctx context.Context, ref *firestore.DocumentRef, setID func(*T, string)) (T, error) {
	var v T
	doc, err := ref.Get(ctx)
	if err != nil {
		return v, mapErr(err)
	}
	if err := doc.DataTo(&v); err != nil {
		return v, fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	setID(&v, doc.Ref.ID)
	return v, nil
}

// replace overwrites an existing document. Firestore's Set would create a
// missing document, so existence is checked first.
func (s *Firestore) replace(ctx context.Context, ref *firestore.DocumentRef, v interface{}) error {
	if _, err := ref.Get(ctx); err != nil {
		return mapErr(err)
	}
	_, err := ref.Set(ctx, v)
	return err
}

func (s *Firestore) remove(ctx context.Context, ref *firestore.DocumentRef) error {
	_, err := ref.Delete(ctx, firestore.Exists)
	return mapErr(err)
}

func (s *Firestore) count(ctx context.Context, q firestore.Query) (int, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected count result %T", res["all"])
	}
	return int(v.GetIntegerValue()), nil
}

func setProductID(p *models.Product, id string)   { p.ID = id }
func setCategoryID(c *models.Category, id string) { c.ID = id }
func setLocationID(l *models.Location, id string) { l.ID = id }
func setOrderID(o *models.Order, id string)       { o.ID = id }

// Products

func (s *Firestore) ListProducts(ctx context.Context) ([]models.Product, error) {
	iter := s.client.Collection(productsCollection).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return readAll(iter, setProductID)
}

func (s *Firestore) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return readOne(ctx, s.client.Collection(productsCollection).Doc(id), setProductID)
}

func (s *Firestore) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.client.Collection(productsCollection).Doc(p.ID).Create(ctx, p)
	return err
}

func (s *Firestore) UpdateProduct(ctx context.Context, p *models.Product) error {
	existing, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	return s.replace(ctx, s.client.Collection(productsCollection).Doc(p.ID), p)
}

func (s *Firestore) DeleteProduct(ctx context.Context, id string) error {
	return s.remove(ctx, s.client.Collection(productsCollection).Doc(id))
}

func (s *Firestore) CountProductsInCategory(ctx context.Context, categoryID string) (int, error) {
	return s.count(ctx, s.client.Collection(productsCollection).Where("categoryId", "==", categoryID))
}

// Categories

func (s *Firestore) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := readAll(s.client.Collection(categoriesCollection).Documents(ctx), setCategoryID)
	if err != nil {
		return nil, err
	}
	sortCategories(categories)
	return categories, nil
}

func (s *Firestore) GetCategory(ctx context.Context, id string) (models.Category, error) {
	return readOne(ctx, s.client.Collection(categoriesCollection).Doc(id), setCategoryID)
}

func (s *Firestore) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := s.client.Collection(categoriesCollection).Doc(c.ID).Create(ctx, c)
	return err
}

func (s *Firestore) UpdateCategory(ctx context.Context, c *models.Category) error {
	existing, err := s.GetCategory(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now()
	return s.replace(ctx, s.client.Collection(categoriesCollection).Doc(c.ID), c)
}

func (s *Firestore) DeleteCategory(ctx context.Context, id string) error {
	return s.remove(ctx, s.client.Collection(categoriesCollection).Doc(id))
}

// Locations

func (s *Firestore) ListLocations(ctx context.Context) ([]models.Location, error) {
	iter := s.client.Collection(locationsCollection).OrderBy("name", firestore.Asc).Documents(ctx)
	return readAll(iter, setLocationID)
}

func (s *Firestore) GetLocation(ctx context.Context, id string) (models.Location, error) {
	return readOne(ctx, s.client.Collection(locationsCollection).Doc(id), setLocationID)
}

func (s *Firestore) CreateLocation(ctx context.Context, l *models.Location) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := s.now()
	l.CreatedAt, l.UpdatedAt = now, now
	_, err := s.client.Collection(locationsCollection).Doc(l.ID).Create(ctx, l)
	return err
}

func (s *Firestore) UpdateLocation(ctx context.Context, l *models.Location) error {
	existing, err := s.GetLocation(ctx, l.ID)
	if err != nil {
		return err
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = s.now()
	return s.replace(ctx, s.client.Collection(locationsCollection).Doc(l.ID), l)
}

func (s *Firestore) DeleteLocation(ctx context.Context, id string) error {
	return s.remove(ctx, s.client.Collection(locationsCollection).Doc(id))
}

// Orders

func (s *Firestore) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPreparing
	}
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	_, err := s.client.Collection(ordersCollection).Doc(o.ID).Create(ctx, o)
	return err
}

func (s *Firestore) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return readOne(ctx, s.client.Collection(ordersCollection).Doc(id), setOrderID)
}

func (s *Firestore) ordersByTrackingID(ctx context.Context, trackingID string) ([]models.Order, error) {
	iter := s.client.Collection(ordersCollection).Where("trackingId", "==", trackingID).Documents(ctx)
	return readAll(iter, setOrderID)
}

func (s *Firestore) GetOrderByTrackingID(ctx context.Context, trackingID string) (models.Order, error) {
	orders, err := s.ordersByTrackingID(ctx, trackingID)
	if err != nil {
		return models.Order{}, err
	}
	if len(orders) == 0 {
		return models.Order{}, ErrNotFound
	}
	sortOrdersNewestFirst(orders)
	return orders[0], nil
}

func (s *Firestore) TrackingIDExists(ctx context.Context, trackingID string) (bool, error) {
	n, err := s.count(ctx, s.client.Collection(ordersCollection).Where("trackingId", "==", trackingID))
	return n > 0, err
}

// ListOrders filters on the server and sorts in process so no composite
// index on (status, createdAt) is needed.
func (s *Firestore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.client.Collection(ordersCollection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	orders, err := readAll(q.Documents(ctx), setOrderID)
	if err != nil {
		return nil, err
	}
	sortOrdersNewestFirst(orders)
	return applyLimit(orders, filter.Limit), nil
}

func (s *Firestore) UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus, estimatedTime *string) (models.Order, error) {
	updates := []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: s.now()},
	}
	if estimatedTime != nil {
		updates = append(updates, firestore.Update{Path: "estimatedTime", Value: *estimatedTime})
	}

	ref := s.client.Collection(ordersCollection).Doc(id)
	if _, err := ref.Update(ctx, updates); err != nil {
		return models.Order{}, mapErr(err)
	}
	return s.GetOrder(ctx, id)
}

// Settings

func (s *Firestore) settingsRef() *firestore.DocumentRef {
	return s.client.Collection(configCollection).Doc(models.SettingsDocumentID)
}

func (s *Firestore) GetSettings(ctx context.Context) (models.Settings, error) {
	doc, err := s.settingsRef().Get(ctx)
	if isNotFound(err) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}

	var settings models.Settings
	if err := doc.DataTo(&settings); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	settings.ApplyDefaults()
	return settings, nil
}

// updateGroup merges one field group into config/main. Other groups are left
// untouched and the version is incremented on the server.
func (s *Firestore) updateGroup(ctx context.Context, field string, value interface{}) (models.Settings, error) {
	_, err := s.settingsRef().Set(ctx, map[string]interface{}{
		field:       value,
		"version":   firestore.Increment(1),
		"updatedAt": s.now(),
	}, firestore.MergeAll)
	if err != nil {
		return models.Settings{}, fmt.Errorf("update %s: %w", field, err)
	}
	return s.GetSettings(ctx)
}

func (s *Firestore) UpdateServiceFees(ctx context.Context, fees int) (models.Settings, error) {
	return s.updateGroup(ctx, "serviceFees", fees)
}

func (s *Firestore) UpdatePromotedProducts(ctx context.Context, productIDs []string) (models.Settings, error) {
	if productIDs == nil {
		productIDs = []string{}
	}
	return s.updateGroup(ctx, "promotedProducts", productIDs)
}

func (s *Firestore) UpdateStoreSettings(ctx context.Context, ss models.StoreSettings) (models.Settings, error) {
	return s.updateGroup(ctx, "storeSettings", ss)
}

func (s *Firestore) UpdateDeliverySettings(ctx context.Context, tiers []models.DeliverySetting) (models.Settings, error) {
	if tiers == nil {
		tiers = []models.DeliverySetting{}
	}
	return s.updateGroup(ctx, "deliverySettings", tiers)
}
