package routes

import (
	"time"

	"elbasta-backend/firebase"
	"elbasta-backend/handlers"
	"elbasta-backend/middleware"
	"elbasta-backend/notify"
	"elbasta-backend/pricing"
	"elbasta-backend/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies is everything the handlers need.
type Dependencies struct {
	Store    store.Repository
	Resolver *pricing.Resolver
	// Storage may be nil when no bucket is configured.
	Storage           firebase.StorageClient
	Notifier          notify.Notifier
	Logger            *zap.Logger
	AdminUsername     string
	AdminPasswordHash string
	WhatsAppNumber    string
}

// SetupRoutes registers the API on r. The returned function stops the rate
// limiters' background cleanup.
func SetupRoutes(r *gin.Engine, deps Dependencies) (stop func()) {
	configHandler := &handlers.ConfigHandler{Store: deps.Store, Resolver: deps.Resolver, Logger: deps.Logger}
	productHandler := &handlers.ProductHandler{Store: deps.Store, Storage: deps.Storage, Logger: deps.Logger}
	categoryHandler := &handlers.CategoryHandler{Store: deps.Store, Logger: deps.Logger}
	locationHandler := &handlers.LocationHandler{Store: deps.Store, Logger: deps.Logger}
	orderHandler := &handlers.OrderHandler{
		Store:          deps.Store,
		Resolver:       deps.Resolver,
		Notifier:       deps.Notifier,
		WhatsAppNumber: deps.WhatsAppNumber,
		Logger:         deps.Logger,
	}
	authHandler := &handlers.AuthHandler{
		Username:     deps.AdminUsername,
		PasswordHash: deps.AdminPasswordHash,
		Logger:       deps.Logger,
	}
	uploadHandler := &handlers.UploadHandler{Storage: deps.Storage, Logger: deps.Logger}
	healthHandler := &handlers.HealthHandler{Store: deps.Store}

	orderLimiter := middleware.NewRateLimiter(10, time.Minute)
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

		api.GET("/config", configHandler.GetConfig)
		api.GET("/store/status", configHandler.GetStoreStatus)

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/products/location/:id", productHandler.GetProductsByLocation)

		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)

		api.GET("/locations", locationHandler.GetLocations)
		api.GET("/locations/:id", locationHandler.GetLocation)

		api.POST("/checkout/quote", orderHandler.Quote)
		api.POST("/orders", orderLimiter.Middleware(), orderHandler.CreateOrder)
		api.GET("/orders/track/:trackingId", orderHandler.TrackOrder)
	}

	// Admin routes (require admin role)
	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/config", configHandler.UpdateConfig)

		admin.GET("/orders", orderHandler.GetOrders)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)

		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.POST("/locations", locationHandler.CreateLocation)
		admin.PUT("/locations/:id", locationHandler.UpdateLocation)
		admin.DELETE("/locations/:id", locationHandler.DeleteLocation)

		admin.POST("/upload", uploadHandler.Upload)
	}

	r.GET("/health", healthHandler.Health)

	return func() {
		orderLimiter.Stop()
		loginLimiter.Stop()
	}
}
