package handlers

import (
	"net/http"
	"strings"

	"elbasta-backend/models"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	Store  store.Repository
	Logger *zap.Logger
}

type categoryRequest struct {
	Name  string `json:"name" binding:"required,max=80"`
	Image string `json:"image" binding:"max=1024"`
	Order int    `json:"order" binding:"gte=0"`
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.Store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.Store.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	category := models.Category{Name: strings.TrimSpace(req.Name), Image: req.Image, Order: req.Order}
	if err := h.Store.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := h.Store.GetCategory(ctx, c.Param("id"))
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	req := categoryRequest{Name: category.Name, Image: category.Image, Order: category.Order}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	category.Image = req.Image
	category.Order = req.Order
	if err := h.Store.UpdateCategory(ctx, &category); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory refuses to remove a category that products still reference.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.Store.GetCategory(ctx, id); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	count, err := h.Store.CountProductsInCategory(ctx, id)
	if err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete category with associated products", "productCount": count})
		return
	}

	if err := h.Store.DeleteCategory(ctx, id); err != nil {
		respondError(c, loggerOrNop(h.Logger), err, "Category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
