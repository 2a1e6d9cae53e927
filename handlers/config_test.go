package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"elbasta-backend/pricing"
)

func TestGetConfigWholeAggregate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest("GET", "/api/config", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["serviceFees"] != float64(50) {
		t.Errorf("expected serviceFees 50, got %v", resp["serviceFees"])
	}
	tiers, _ := resp["deliverySettings"].([]interface{})
	if len(tiers) != 2 {
		t.Errorf("expected 2 delivery tiers, got %v", resp["deliverySettings"])
	}
	store, _ := resp["storeSettings"].(map[string]interface{})
	if store["openTime"] != "08:00" || store["closeTime"] != "23:00" {
		t.Errorf("expected default hours, got %v", store)
	}
}

func TestGetConfigByType(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest("GET", "/api/config?type=promotedProducts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	promoted, _ := parseResponse(w)["promotedProducts"].([]interface{})
	if len(promoted) != 1 || promoted[0] != "tacos-viande-hachee" {
		t.Errorf("unexpected promotedProducts: %v", promoted)
	}

	w = env.do(jsonRequest("GET", "/api/config?type=bogus", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown type, got %d", w.Code)
	}
}

func TestUpdateConfigServiceFees(t *testing.T) {
	env := newTestEnv(t)
	before, _ := env.store.GetSettings(context.Background())

	w := env.do(authRequest("POST", "/api/config", map[string]interface{}{"serviceFees": 150}, env.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	after, _ := env.store.GetSettings(context.Background())
	if after.ServiceFees != 150 {
		t.Errorf("expected serviceFees 150, got %d", after.ServiceFees)
	}
	if after.Version != before.Version+1 {
		t.Errorf("expected version to bump from %d, got %d", before.Version, after.Version)
	}
	if len(after.DeliverySettings) != 2 {
		t.Error("updating service fees must not touch delivery settings")
	}
}

func TestUpdateConfigRejectsMultipleGroups(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(authRequest("POST", "/api/config", map[string]interface{}{
		"serviceFees":      100,
		"promotedProducts": []string{},
	}, env.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/api/config", map[string]interface{}{}, env.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty body, got %d", w.Code)
	}

	w = env.do(authRequest("POST", "/api/config", map[string]interface{}{"heroTitle": "x"}, env.token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown group, got %d", w.Code)
	}
}

func TestUpdateConfigValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"negative fees", map[string]interface{}{"serviceFees": -1}},
		{"fees not a number", map[string]interface{}{"serviceFees": "cent"}},
		{"bad open time", map[string]interface{}{"storeSettings": map[string]interface{}{"openTime": "8h", "closeTime": "23:00"}}},
		{"bad close time", map[string]interface{}{"storeSettings": map[string]interface{}{"openTime": "08:00", "closeTime": "25:00"}}},
		{"inverted tier", map[string]interface{}{"deliverySettings": []map[string]interface{}{{"min": 5, "max": 2, "fee": 100}}}},
		{"no tiers", map[string]interface{}{"deliverySettings": []map[string]interface{}{}}},
		{"unknown promoted product", map[string]interface{}{"promotedProducts": []string{"does-not-exist"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(authRequest("POST", "/api/config", tc.body, env.token))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUpdateConfigKeepsOverlappingTiersInOrder(t *testing.T) {
	env := newTestEnv(t)

	tiers := []map[string]interface{}{
		{"min": 0, "max": 10, "fee": 250},
		{"min": 0, "max": 5, "fee": 100},
	}
	w := env.do(authRequest("POST", "/api/config", map[string]interface{}{"deliverySettings": tiers}, env.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	settings, _ := env.store.GetSettings(context.Background())
	if len(settings.DeliverySettings) != 2 || settings.DeliverySettings[0].Fee != 250 {
		t.Fatalf("tiers not stored as sent: %+v", settings.DeliverySettings)
	}
}

func TestUpdateConfigPromotedProductsDeduplicates(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(authRequest("POST", "/api/config", map[string]interface{}{
		"promotedProducts": []string{"hamoud", "tacos-poulet", "hamoud", " "},
	}, env.token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	settings, _ := env.store.GetSettings(context.Background())
	if len(settings.PromotedProducts) != 2 {
		t.Errorf("expected 2 promoted products, got %v", settings.PromotedProducts)
	}
}

func TestUpdateConfigRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest("POST", "/api/config", map[string]interface{}{"serviceFees": 0}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestGetStoreStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonRequest("GET", "/api/store/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["isClosed"] != false {
		t.Errorf("expected store open at noon, got %v", resp["isClosed"])
	}
	if resp["isDeliveryAvailable"] != true {
		t.Errorf("expected delivery available, got %v", resp["isDeliveryAvailable"])
	}

	env.setTime(time.Date(2025, time.March, 10, 23, 30, 0, 0, pricing.StoreLocation()))
	w = env.do(jsonRequest("GET", "/api/store/status", nil))
	if resp := parseResponse(w); resp["isClosed"] != true {
		t.Errorf("expected store closed at 23:30, got %v", resp["isClosed"])
	}
}

func TestGetStoreStatusInvalidHours(t *testing.T) {
	env := newTestEnv(t)
	ss, _ := env.store.GetSettings(context.Background())
	broken := ss.StoreSettings
	broken.OpenTime = "midi"
	if _, err := env.store.UpdateStoreSettings(context.Background(), broken); err != nil {
		t.Fatal(err)
	}

	w := env.do(jsonRequest("GET", "/api/store/status", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "invalid configuration" {
		t.Errorf("expected 'invalid configuration', got %v", resp["error"])
	}
}
