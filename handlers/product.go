package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"elbasta-backend/firebase"
	"elbasta-backend/models"
	"elbasta-backend/pricing"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Store store.Repository
	// Storage is optional; without it product images are never cleaned up.
	Storage firebase.StorageClient
	Logger  *zap.Logger
}

type productRequest struct {
	Name           string                `json:"name" binding:"required,max=120"`
	Description    string                `json:"description" binding:"max=2000"`
	Image          string                `json:"image" binding:"max=1024"`
	CategoryID     string                `json:"categoryId" binding:"required"`
	Price          int                   `json:"price" binding:"gte=0"`
	Status         models.ProductStatus  `json:"status"`
	DiscountPrice  *int                  `json:"discountPrice" binding:"omitempty,gte=0"`
	LocationPrices models.LocationPrices `json:"locationPrices"`
}

func requestFromProduct(p models.Product) productRequest {
	return productRequest{
		Name:           p.Name,
		Description:    p.Description,
		Image:          p.Image,
		CategoryID:     p.CategoryID,
		Price:          p.Price,
		Status:         p.Status,
		DiscountPrice:  p.DiscountPrice,
		LocationPrices: p.LocationPrices,
	}
}

func (r productRequest) apply(p *models.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Image = r.Image
	p.CategoryID = r.CategoryID
	p.Price = r.Price
	p.Status = r.Status
	p.DiscountPrice = r.DiscountPrice
	p.LocationPrices = r.LocationPrices
	if p.LocationPrices == nil {
		p.LocationPrices = models.LocationPrices{}
	}
}

// LocationProduct is a product as listed at one location.
type LocationProduct struct {
	models.Product
	Offer          pricing.Offer `json:"offer"`
	EffectivePrice int           `json:"effectivePrice"`
}

// GetProducts lists the catalog, optionally narrowed with ?categoryId=.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}

	if categoryID := c.Query("categoryId"); categoryID != "" {
		filtered := products[:0]
		for _, p := range products {
			if p.CategoryID == categoryID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.Store.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductsByLocation annotates every product with its offer at the
// location. ?available=true keeps only what can be ordered there.
func (h *ProductHandler) GetProductsByLocation(c *gin.Context) {
	ctx := c.Request.Context()
	location, err := h.Store.GetLocation(ctx, c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Location")
		return
	}

	products, err := h.Store.ListProducts(ctx)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}

	onlyAvailable := c.Query("available") == "true"
	listed := make([]LocationProduct, 0, len(products))
	for _, p := range products {
		offer := pricing.ResolveLocationPrice(p, location.ID)
		if onlyAvailable && !offer.Orderable() {
			continue
		}
		listed = append(listed, LocationProduct{Product: p, Offer: offer, EffectivePrice: offer.EffectivePrice()})
	}

	c.JSON(http.StatusOK, listed)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg, err := h.check(c.Request.Context(), req); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	} else if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var product models.Product
	req.apply(&product)
	if err := h.Store.CreateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges the body onto the stored product; fields left out of
// the body keep their value. locationPrices, when present, replaces the
// whole mapping.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}

	req := requestFromProduct(product)
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}
	if msg, err := h.check(ctx, req); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	} else if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	oldImage := product.Image
	req.apply(&product)
	if err := h.Store.UpdateProduct(ctx, &product); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}
	if oldImage != "" && oldImage != product.Image {
		h.deleteImage(ctx, oldImage)
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	product, err := h.Store.GetProduct(ctx, c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}

	if err := h.Store.DeleteProduct(ctx, product.ID); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Product")
		return
	}
	if product.Image != "" {
		h.deleteImage(ctx, product.Image)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// check validates references and per-location entries. A non-empty message
// is a client error; a non-nil error is a store failure.
func (h *ProductHandler) check(ctx context.Context, req productRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required", nil
	}
	if !req.Status.IsValid() {
		return fmt.Sprintf("Unknown status %q", req.Status), nil
	}
	if _, err := h.Store.GetCategory(ctx, req.CategoryID); err != nil {
		if isNotFound(err) {
			return "Category not found", nil
		}
		return "", err
	}

	for id, lp := range req.LocationPrices {
		if lp.Price < 0 {
			return fmt.Sprintf("Price for location %s must not be negative", id), nil
		}
		if lp.DiscountPrice != nil && *lp.DiscountPrice < 0 {
			return fmt.Sprintf("Discount price for location %s must not be negative", id), nil
		}
		if !lp.Status.IsValid() {
			return fmt.Sprintf("Unknown status %q for location %s", lp.Status, id), nil
		}
		if _, err := h.Store.GetLocation(ctx, id); err != nil {
			if isNotFound(err) {
				return fmt.Sprintf("Location %s not found", id), nil
			}
			return "", err
		}
	}
	return "", nil
}

// deleteImage removes an image we uploaded ourselves. Foreign URLs and
// storage failures are logged and ignored.
func (h *ProductHandler) deleteImage(ctx context.Context, imageURL string) {
	if h.Storage == nil {
		return
	}
	logger := loggerOrNop(h.Logger)
	objectPath, err := utils.ExtractObjectPath(imageURL)
	if err != nil {
		logger.Debug("image not in our bucket, keeping", zap.String("url", imageURL))
		return
	}
	if err := h.Storage.DeleteFile(ctx, objectPath); err != nil {
		logger.Warn("failed to delete image", zap.String("object", objectPath), zap.Error(err))
		return
	}
	logger.Info("deleted image", zap.String("object", objectPath))
}
