package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"sync"
	"testing"
	"time"

	"elbasta-backend/middleware"
	"elbasta-backend/models"
	"elbasta-backend/pricing"
	"elbasta-backend/store"
	"elbasta-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "correct-horse-battery"
)

var testAdminHash string

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		panic("failed to hash admin password: " + err.Error())
	}
	testAdminHash = string(hash)

	os.Exit(m.Run())
}

// noon is a Monday lunchtime in Algiers, inside the default 08:00-23:00 window.
var noon = time.Date(2025, time.March, 10, 12, 0, 0, 0, pricing.StoreLocation())

// testEnv wires every handler against a seeded in-memory store.
type testEnv struct {
	store    *store.Memory
	storage  *mockStorage
	notifier *recordingNotifier
	router   *gin.Engine
	token    string

	mu  sync.Mutex
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	if err := store.Seed(context.Background(), mem); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := &testEnv{
		store:    mem,
		storage:  newMockStorage(),
		notifier: &recordingNotifier{},
		now:      noon,
	}
	resolver := &pricing.Resolver{Store: pricing.DefaultStorePoint, Now: env.clock}

	token, err := utils.GenerateToken(testAdminUsername, utils.RoleAdmin)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	env.token = token
	env.router = setupRouter(mem, resolver, env.storage, env.notifier)
	return env
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) setTime(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = t
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// setupRouter mirrors the production route table.
func setupRouter(repo store.Repository, resolver *pricing.Resolver, storage *mockStorage, notifier *recordingNotifier) *gin.Engine {
	r := gin.New()

	configHandler := &ConfigHandler{Store: repo, Resolver: resolver}
	productHandler := &ProductHandler{Store: repo, Storage: storage}
	categoryHandler := &CategoryHandler{Store: repo}
	locationHandler := &LocationHandler{Store: repo}
	orderHandler := &OrderHandler{Store: repo, Resolver: resolver, Notifier: notifier, WhatsAppNumber: "0555000000"}
	authHandler := &AuthHandler{Username: testAdminUsername, PasswordHash: testAdminHash}
	uploadHandler := &UploadHandler{Storage: storage}
	healthHandler := &HealthHandler{Store: repo}

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
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
	api.POST("/orders", orderHandler.CreateOrder)
	api.GET("/orders/track/:trackingId", orderHandler.TrackOrder)
	api.POST("/auth/login", authHandler.Login)

	admin := api.Group("")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
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

	return r
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
}

func (n *recordingNotifier) placed() []models.Order {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Order(nil), n.orders...)
}

// ==================== Request Helpers ====================

// jsonRequest creates an HTTP request with JSON body.
func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authRequest creates an HTTP request with JSON body and Authorization header.
func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// multipartRequest builds an upload request. files maps field names to file
// names; every part carries contentType and a few bytes of dummy data.
func multipartRequest(url string, fields map[string]string, files map[string]string, contentType, token string) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, val := range fields {
		_ = writer.WriteField(key, val)
	}

	for fieldName, filename := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, filename))
		h.Set("Content-Type", contentType)

		part, err := writer.CreatePart(h)
		if err != nil {
			panic("failed to create multipart file part: " + err.Error())
		}
		part.Write([]byte("fake image data"))
	}

	writer.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ==================== Response Helpers ====================

// parseResponse reads the response body into a map.
func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// parseResponseArray reads the response body into a slice.
func parseResponseArray(w *httptest.ResponseRecorder) []interface{} {
	var result []interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// problemCodes collects the codes of a validation error response.
func problemCodes(w *httptest.ResponseRecorder) []string {
	var body struct {
		Details []pricing.Problem `json:"details"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	codes := make([]string, 0, len(body.Details))
	for _, p := range body.Details {
		codes = append(codes, p.Code)
	}
	return codes
}
