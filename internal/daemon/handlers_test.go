package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cognisance/atelier/internal/config"
	"github.com/cognisance/atelier/internal/domain"
	"github.com/cognisance/atelier/internal/queue"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.DefaultLocalConfig()
	srv, err := NewServer(context.Background(), ServerConfig{
		Config:  cfg,
		DataDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body map[string]any
	decodeBody(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", body["status"])
	}
}

func TestHandleListProducts(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/catalog", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body struct {
		Products []map[string]any `json:"products"`
	}
	decodeBody(t, rec, &body)
	if len(body.Products) != 6 {
		t.Errorf("len(products) = %d; want 6", len(body.Products))
	}
}

func TestHandleListProducts_CategoryFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/catalog?category=evening", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body struct {
		Products []map[string]any `json:"products"`
	}
	decodeBody(t, rec, &body)
	if len(body.Products) != 2 {
		t.Errorf("len(evening products) = %d; want 2", len(body.Products))
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/catalog?category=vintage", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status for unknown category = %d; want 400", rec.Code)
	}
}

func TestHandleListProducts_Search(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/catalog?q=gown", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body struct {
		Products []map[string]any `json:"products"`
	}
	decodeBody(t, rec, &body)
	if len(body.Products) != 2 {
		t.Errorf("len(gown matches) = %d; want 2", len(body.Products))
	}
}

func TestHandleGetProduct(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/catalog/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var product map[string]any
	decodeBody(t, rec, &product)
	if product["name"] != "Elegant Evening Gown" {
		t.Errorf("name = %v; want Elegant Evening Gown", product["name"])
	}

	if rec := doJSON(t, srv, http.MethodGet, "/v1/catalog/99", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown product = %d; want 404", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodGet, "/v1/catalog/abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("status for bad id = %d; want 400", rec.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	srv := newTestServer(t)

	// Fresh daemon: no session.
	rec := doJSON(t, srv, http.MethodGet, "/v1/session", nil)
	var state map[string]any
	decodeBody(t, rec, &state)
	if state["authenticated"] != false {
		t.Errorf("authenticated = %v; want false", state["authenticated"])
	}

	// Empty credentials are rejected.
	rec = doJSON(t, srv, http.MethodPost, "/v1/session/login", map[string]string{
		"email": "demo@user.com",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status for empty password = %d; want 401", rec.Code)
	}

	// Valid login.
	rec = doJSON(t, srv, http.MethodPost, "/v1/session/login", map[string]string{
		"email":    "demo@user.com",
		"password": "password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; want 200", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/session", nil)
	state = map[string]any{}
	decodeBody(t, rec, &state)
	if state["authenticated"] != true {
		t.Errorf("authenticated = %v; want true after login", state["authenticated"])
	}

	// Logout clears it.
	rec = doJSON(t, srv, http.MethodPost, "/v1/session/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d; want 200", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/session", nil)
	state = map[string]any{}
	decodeBody(t, rec, &state)
	if state["authenticated"] != false {
		t.Errorf("authenticated = %v; want false after logout", state["authenticated"])
	}
}

func TestCartFlow(t *testing.T) {
	srv := newTestServer(t)

	// Add a product twice; the line merges.
	rec := doJSON(t, srv, http.MethodPost, "/v1/cart/items", map[string]int{
		"product_id": 1, "quantity": 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d; want 200", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodPost, "/v1/cart/items", map[string]int{
		"product_id": 1, "quantity": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second add status = %d; want 200", rec.Code)
	}

	var summary struct {
		Lines []struct {
			ProductID int `json:"product_id"`
			Quantity  int `json:"quantity"`
		} `json:"lines"`
		ItemCount int `json:"item_count"`
	}
	decodeBody(t, rec, &summary)
	if len(summary.Lines) != 1 {
		t.Fatalf("len(lines) = %d; want 1 merged line", len(summary.Lines))
	}
	if summary.Lines[0].Quantity != 3 || summary.ItemCount != 3 {
		t.Errorf("quantity = %d, item_count = %d; want 3, 3", summary.Lines[0].Quantity, summary.ItemCount)
	}

	// Quantity zero removes the line.
	rec = doJSON(t, srv, http.MethodPut, "/v1/cart/items/1", map[string]int{"quantity": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("set quantity status = %d; want 200", rec.Code)
	}
	summary.Lines = nil
	decodeBody(t, rec, &summary)
	if len(summary.Lines) != 0 {
		t.Errorf("len(lines) = %d; want 0 after quantity 0", len(summary.Lines))
	}

	// Unknown product is a 404.
	rec = doJSON(t, srv, http.MethodPost, "/v1/cart/items", map[string]int{"product_id": 99})
	if rec.Code != http.StatusNotFound {
		t.Errorf("add unknown product status = %d; want 404", rec.Code)
	}
}

func TestHandleCheckout(t *testing.T) {
	srv := newTestServer(t)

	// Empty cart cannot check out.
	rec := doJSON(t, srv, http.MethodPost, "/v1/checkout", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty checkout status = %d; want 422", rec.Code)
	}

	doJSON(t, srv, http.MethodPost, "/v1/cart/items", map[string]int{"product_id": 3, "quantity": 2})

	rec = doJSON(t, srv, http.MethodPost, "/v1/checkout", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d; want 201", rec.Code)
	}

	var placed struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Total  int64  `json:"total"`
	}
	decodeBody(t, rec, &placed)
	if placed.Status != "pending" {
		t.Errorf("status = %q; want pending", placed.Status)
	}
	// 2 x GH₵350 in pesewas.
	if placed.Total != 70000 {
		t.Errorf("total = %d; want 70000", placed.Total)
	}

	// Cart is now empty.
	rec = doJSON(t, srv, http.MethodGet, "/v1/cart", nil)
	var summary struct {
		ItemCount int `json:"item_count"`
	}
	decodeBody(t, rec, &summary)
	if summary.ItemCount != 0 {
		t.Errorf("item_count = %d; want 0 after checkout", summary.ItemCount)
	}

	// The order appears first in the history.
	rec = doJSON(t, srv, http.MethodGet, "/v1/orders", nil)
	var history struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
	}
	decodeBody(t, rec, &history)
	if len(history.Orders) != 4 {
		t.Fatalf("len(orders) = %d; want 4 (3 fixtures + 1 placed)", len(history.Orders))
	}
	if history.Orders[0].ID != placed.ID {
		t.Errorf("orders[0].ID = %q; want %q", history.Orders[0].ID, placed.ID)
	}
}

func TestHandleUpdateOrderStatus(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/v1/orders/ORD-002/status", map[string]string{"status": "delivered"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var updated struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &updated)
	if updated.Status != "delivered" {
		t.Errorf("order status = %q; want delivered", updated.Status)
	}

	// Backward and skipping transitions conflict.
	rec = doJSON(t, srv, http.MethodPut, "/v1/orders/ORD-003/status", map[string]string{"status": "delivered"})
	if rec.Code != http.StatusConflict {
		t.Errorf("skip transition status = %d; want 409", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/v1/orders/ORD-003/status", map[string]string{"status": "express"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d; want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPut, "/v1/orders/ORD-999/status", map[string]string{"status": "shipped"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown order status = %d; want 404", rec.Code)
	}
}

func TestViewFlow(t *testing.T) {
	srv := newTestServer(t)

	// Logged out: landing.
	rec := doJSON(t, srv, http.MethodGet, "/v1/view", nil)
	var state struct {
		Screen  string          `json:"screen"`
		Product json.RawMessage `json:"product"`
	}
	decodeBody(t, rec, &state)
	if state.Screen != "landing" {
		t.Errorf("screen = %q; want landing", state.Screen)
	}

	// Log in: shop.
	doJSON(t, srv, http.MethodPost, "/v1/session/login", map[string]string{
		"email": "demo@user.com", "password": "password",
	})
	rec = doJSON(t, srv, http.MethodGet, "/v1/view", nil)
	decodeBody(t, rec, &state)
	if state.Screen != "shop" {
		t.Errorf("screen = %q; want shop", state.Screen)
	}

	// Select a product, then cover it with the orders overlay.
	rec = doJSON(t, srv, http.MethodPost, "/v1/view/product/4", nil)
	decodeBody(t, rec, &state)
	if state.Screen != "product" {
		t.Errorf("screen = %q; want product", state.Screen)
	}

	rec = doJSON(t, srv, http.MethodPut, "/v1/view/overlay", map[string]string{"overlay": "orders"})
	decodeBody(t, rec, &state)
	if state.Screen != "orders" {
		t.Errorf("screen = %q; want orders overlay", state.Screen)
	}

	// Closing the overlay reveals the product again.
	rec = doJSON(t, srv, http.MethodPut, "/v1/view/overlay", map[string]string{"overlay": ""})
	decodeBody(t, rec, &state)
	if state.Screen != "product" {
		t.Errorf("screen = %q; want product after overlay close", state.Screen)
	}

	// Logout tears selections down.
	doJSON(t, srv, http.MethodPost, "/v1/session/logout", nil)
	rec = doJSON(t, srv, http.MethodGet, "/v1/view", nil)
	decodeBody(t, rec, &state)
	if state.Screen != "landing" {
		t.Errorf("screen = %q; want landing after logout", state.Screen)
	}
}

func TestHandleSetOverlay_Invalid(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/v1/view/overlay", map[string]string{"overlay": "wishlist"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", rec.Code)
	}
}

func TestHandleChatLink(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/v1/contact/chat-link", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var body struct {
		URL string `json:"url"`
	}
	decodeBody(t, rec, &body)
	want := "https://wa.me/233242650165?text=Hello%20Cognisance%20Fashion!"
	if body.URL != want {
		t.Errorf("url = %q; want %q", body.URL, want)
	}
}

func TestSessionPersistsAcrossServers(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.DefaultLocalConfig()

	srv, err := NewServer(context.Background(), ServerConfig{Config: cfg, DataDir: dataDir})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", map[string]string{
		"email": "demo@user.com", "password": "password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; want 200", rec.Code)
	}

	// A second server over the same data dir restores the session.
	srv2, err := NewServer(context.Background(), ServerConfig{Config: cfg, DataDir: dataDir})
	if err != nil {
		t.Fatalf("NewServer() second error = %v", err)
	}

	rec = doJSON(t, srv2, http.MethodGet, "/v1/session", nil)
	var state struct {
		Authenticated bool `json:"authenticated"`
		Session       struct {
			Email string `json:"email"`
		} `json:"session"`
	}
	decodeBody(t, rec, &state)
	if !state.Authenticated {
		t.Fatal("session should be restored from the durable slot")
	}
	if state.Session.Email != "demo@user.com" {
		t.Errorf("email = %q; want demo@user.com", state.Session.Email)
	}
}

func TestSQLiteBackend(t *testing.T) {
	dataDir := t.TempDir()
	cfg := config.DefaultLocalConfig()
	cfg.Storage.Backend = config.StorageSQLite
	cfg.Storage.Path = fmt.Sprintf("%s/atelier.db", dataDir)

	srv, err := NewServer(context.Background(), ServerConfig{Config: cfg, DataDir: dataDir})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	defer srv.Shutdown(context.Background())

	rec := doJSON(t, srv, http.MethodPost, "/v1/session/login", map[string]string{
		"email": "demo@user.com", "password": "password",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d; want 200", rec.Code)
	}
}

type statusRecorder struct {
	updates []string
}

func (r *statusRecorder) OrderConfirmation(ctx context.Context, order domain.Order) error {
	return nil
}

func (r *statusRecorder) OrderStatusUpdate(ctx context.Context, order domain.Order, previous domain.Status) error {
	r.updates = append(r.updates, fmt.Sprintf("%s:%s->%s", order.ID, previous, order.Status))
	return nil
}

func TestHandleOrderEvent_StatusChangeNotifies(t *testing.T) {
	srv := newTestServer(t)
	recorder := &statusRecorder{}
	srv.notifier = recorder

	// ORD-002 ships in the seeded history.
	err := srv.handleOrderEvent(context.Background(), &queue.OrderEvent{
		Type:           queue.EventOrderStatusChanged,
		OrderID:        "ORD-002",
		Status:         domain.StatusShipped,
		PreviousStatus: domain.StatusProcessing,
	})
	if err != nil {
		t.Fatalf("handleOrderEvent() error = %v", err)
	}

	if len(recorder.updates) != 1 || recorder.updates[0] != "ORD-002:processing->shipped" {
		t.Errorf("updates = %v; want [ORD-002:processing->shipped]", recorder.updates)
	}
}

func TestHandleOrderEvent_PlacedIsIgnored(t *testing.T) {
	srv := newTestServer(t)
	recorder := &statusRecorder{}
	srv.notifier = recorder

	err := srv.handleOrderEvent(context.Background(), &queue.OrderEvent{
		Type:    queue.EventOrderPlaced,
		OrderID: "ORD-001",
		Status:  domain.StatusPending,
	})
	if err != nil {
		t.Fatalf("handleOrderEvent() error = %v", err)
	}

	if len(recorder.updates) != 0 {
		t.Errorf("updates = %v; confirmations are sent at checkout, not from the queue", recorder.updates)
	}
}

func TestHandleOrderEvent_UnknownOrder(t *testing.T) {
	srv := newTestServer(t)
	srv.notifier = &statusRecorder{}

	err := srv.handleOrderEvent(context.Background(), &queue.OrderEvent{
		Type:    queue.EventOrderStatusChanged,
		OrderID: "ORD-999",
		Status:  domain.StatusShipped,
	})
	if err == nil {
		t.Fatal("handleOrderEvent() error = nil; want error for unknown order")
	}
}
