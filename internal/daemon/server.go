package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cognisance/atelier/internal/cart"
	"github.com/cognisance/atelier/internal/catalog"
	"github.com/cognisance/atelier/internal/checkout"
	"github.com/cognisance/atelier/internal/config"
	"github.com/cognisance/atelier/internal/domain"
	"github.com/cognisance/atelier/internal/identity"
	"github.com/cognisance/atelier/internal/notify"
	"github.com/cognisance/atelier/internal/order"
	"github.com/cognisance/atelier/internal/queue"
	"github.com/cognisance/atelier/internal/storage/sqlite"
	"github.com/cognisance/atelier/internal/view"
)

// Server represents the atelier daemon HTTP server
type Server struct {
	cfg    *config.LocalConfig
	server *http.Server
	router *http.ServeMux

	// Services
	catalog         *catalog.Registry
	identityService *identity.Service
	cartService     *cart.Service
	orderService    *order.Service
	checkoutService *checkout.Service
	viewController  *view.Controller
	notifier        notify.Notifier

	// Infrastructure held for shutdown
	sqliteDB      *sqlite.DB
	pgPool        *pgxpool.Pool
	queueConn     *queue.Connection
	queueConsumer *queue.Consumer
}

// ServerConfig holds configuration for creating a new server
type ServerConfig struct {
	Config  *config.LocalConfig
	DataDir string // Overrides ~/.atelier/data when set (tests)
}

// NewServer creates a new daemon server
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	s := &Server{
		cfg:    cfg.Config,
		router: http.NewServeMux(),
	}

	// Product catalog: configured collection file or the built-in one.
	products := catalog.StudioCollection()
	if cfg.Config.Catalog.Path != "" {
		collection, err := catalog.LoadCollection(cfg.Config.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load collection: %w", err)
		}
		products = collection.Products
		slog.Info("loaded product collection", "id", collection.ID, "products", len(products))
	}
	registry, err := catalog.NewRegistry(products)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	s.catalog = registry

	dataDir := cfg.DataDir
	if dataDir == "" {
		atelierDir, err := config.AtelierDir()
		if err != nil {
			return nil, fmt.Errorf("get atelier dir: %w", err)
		}
		dataDir = filepath.Join(atelierDir, "data")
	}

	slot, err := s.setupSlot(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("setup session storage: %w", err)
	}

	s.identityService = identity.NewService(slot)
	if err := s.identityService.Restore(ctx); err != nil {
		slog.Warn("failed to restore session", "error", err)
	}

	s.cartService = cart.NewService(registry)

	s.orderService = order.NewService()
	if err := s.orderService.Seed(order.SampleOrders(time.Now())...); err != nil {
		return nil, fmt.Errorf("seed orders: %w", err)
	}

	s.checkoutService = checkout.NewService(s.cartService, s.orderService)
	if cfg.Config.Notify.WebhookURL != "" {
		resilientCfg := notify.DefaultResilientConfig()
		resilientCfg.Logger = slog.Default()
		s.notifier = notify.NewResilientNotifier(
			notify.NewWebhookNotifier(cfg.Config.Notify.WebhookURL),
			resilientCfg,
		)
		s.checkoutService.SetNotifier(s.notifier)
	}

	// Broker is optional; without it order events stay local.
	if cfg.Config.Queue.URL != "" {
		conn, err := queue.NewConnection(cfg.Config.Queue.URL)
		if err != nil {
			slog.Warn("queue unavailable, order events disabled", "error", err)
		} else {
			s.queueConn = conn
			s.orderService.SetEventSink(queue.NewSink(conn))
		}
	}

	// With both a broker and a webhook, consume order events back off the
	// queue and turn status changes into customer messages.
	if s.queueConn != nil && s.notifier != nil {
		s.queueConsumer = queue.NewConsumer(s.queueConn, s.handleOrderEvent, queue.ConsumerConfig{
			Workers: cfg.Config.Queue.Workers,
		})
		if err := s.queueConsumer.Start(ctx); err != nil {
			slog.Warn("queue consumer unavailable, status notifications disabled", "error", err)
			s.queueConsumer = nil
		}
	}

	s.viewController = view.NewController(registry)

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Config.Daemon.Bind, cfg.Config.Daemon.Port)
	handler := recoveryMiddleware(loggingMiddleware(correlationIDMiddleware(s.router)))
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// setupSlot builds the durable session slot for the configured backend.
func (s *Server) setupSlot(ctx context.Context, dataDir string) (identity.Slot, error) {
	switch s.cfg.Storage.Backend {
	case config.StorageSQLite:
		path := s.cfg.Storage.Path
		if path == "" {
			path = filepath.Join(dataDir, "atelier.db")
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		s.sqliteDB = db
		return sqlite.NewSlotStore(db), nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, s.cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		slot := identity.NewPostgresSlot(pool)
		if err := slot.Ensure(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure slot table: %w", err)
		}
		s.pgPool = pool
		return slot, nil

	default:
		slot, err := identity.NewLocalSlot(dataDir)
		if err != nil {
			return nil, fmt.Errorf("create local slot: %w", err)
		}
		return slot, nil
	}
}

// handleOrderEvent dispatches consumed order events to the notifier. Only
// status changes are forwarded; confirmations go out synchronously at
// checkout, so forwarding order.placed here would message the customer twice.
func (s *Server) handleOrderEvent(ctx context.Context, event *queue.OrderEvent) error {
	if event.Type != queue.EventOrderStatusChanged {
		return nil
	}
	if s.notifier == nil {
		return nil
	}

	placed, err := s.orderService.Get(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", event.OrderID, err)
	}

	return s.notifier.OrderStatusUpdate(ctx, placed, event.PreviousStatus)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health & status
	s.router.HandleFunc("GET /v1/health", s.handleHealth)
	s.router.HandleFunc("GET /v1/status", s.handleStatus)

	// Catalog
	s.router.HandleFunc("GET /v1/catalog", s.handleListProducts)
	s.router.HandleFunc("GET /v1/catalog/{id}", s.handleGetProduct)

	// Session
	s.router.HandleFunc("POST /v1/session/login", s.handleLogin)
	s.router.HandleFunc("POST /v1/session/logout", s.handleLogout)
	s.router.HandleFunc("GET /v1/session", s.handleGetSession)

	// Cart
	s.router.HandleFunc("GET /v1/cart", s.handleGetCart)
	s.router.HandleFunc("POST /v1/cart/items", s.handleAddCartItem)
	s.router.HandleFunc("PUT /v1/cart/items/{id}", s.handleSetCartQuantity)
	s.router.HandleFunc("DELETE /v1/cart/items/{id}", s.handleRemoveCartItem)
	s.router.HandleFunc("DELETE /v1/cart", s.handleClearCart)

	// Checkout
	s.router.HandleFunc("POST /v1/checkout", s.handleCheckout)

	// Orders
	s.router.HandleFunc("GET /v1/orders", s.handleListOrders)
	s.router.HandleFunc("GET /v1/orders/{id}", s.handleGetOrder)
	s.router.HandleFunc("PUT /v1/orders/{id}/status", s.handleUpdateOrderStatus)

	// View
	s.router.HandleFunc("GET /v1/view", s.handleGetView)
	s.router.HandleFunc("POST /v1/view/product/{id}", s.handleSelectProduct)
	s.router.HandleFunc("DELETE /v1/view/product", s.handleClearProduct)
	s.router.HandleFunc("PUT /v1/view/overlay", s.handleSetOverlay)
	s.router.HandleFunc("POST /v1/view/reset", s.handleResetView)

	// Contact
	s.router.HandleFunc("GET /v1/contact/chat-link", s.handleChatLink)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	slog.Info("starting atelier daemon",
		"addr", s.server.Addr,
		"products", s.catalog.Len(),
		"storage", s.cfg.Storage.Backend,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down daemon...")

	if s.queueConsumer != nil {
		s.queueConsumer.Stop()
	}
	if s.queueConn != nil {
		if err := s.queueConn.Close(); err != nil {
			slog.Warn("failed to close queue connection", "error", err)
		}
	}
	if s.sqliteDB != nil {
		if err := s.sqliteDB.Close(); err != nil {
			slog.Warn("failed to close sqlite", "error", err)
		}
	}
	if s.pgPool != nil {
		s.pgPool.Close()
	}

	return s.server.Shutdown(ctx)
}

// Handler implementations

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":        "running",
		"version":       "0.1.0",
		"products":      s.catalog.Len(),
		"storage":       s.cfg.Storage.Backend,
		"queue_enabled": s.queueConn != nil,
		"authenticated": s.identityService.IsAuthenticated(),
	})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.List()

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, "invalid category", err)
			return
		}
		products = s.catalog.ByCategory(category)
	} else if q := r.URL.Query().Get("q"); q != "" {
		products = s.catalog.Search(q)
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	product, err := s.catalog.Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.jsonError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to get product", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, product)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := s.identityService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.jsonError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.identityService.Logout(r.Context())
	s.viewController.Reset()
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"authenticated": false,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.identityService.Current()
	if !ok {
		s.jsonResponse(w, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"session":       session,
	})
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.cartService.Summary())
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	summary, err := s.cartService.Add(req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.jsonError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		if errors.Is(err, domain.ErrInvalidQuantity) {
			s.jsonError(w, http.StatusBadRequest, "quantity must be at least 1", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to add to cart", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handleSetCartQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.cartService.SetQuantity(id, req.Quantity))
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.cartService.Remove(id))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	s.cartService.Clear()
	s.jsonResponse(w, http.StatusOK, s.cartService.Summary())
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	placed, err := s.checkoutService.PlaceOrder(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			s.jsonError(w, http.StatusUnprocessableEntity, "cart is empty", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "checkout failed", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, placed)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"orders": s.orderService.List(r.Context()),
	})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	placed, err := s.orderService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.jsonError(w, http.StatusNotFound, "order not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to get order", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, placed)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid status", err)
		return
	}

	updated, err := s.orderService.UpdateStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.jsonError(w, http.StatusNotFound, "order not found", nil)
			return
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.jsonError(w, http.StatusConflict, "status can only advance one step forward", err)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to update status", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.viewController.Resolve(s.identityService.IsAuthenticated()))
}

func (s *Server) handleSelectProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid product id", err)
		return
	}

	if err := s.viewController.SelectProduct(id); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.jsonError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		s.jsonError(w, http.StatusInternalServerError, "failed to select product", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.viewController.Resolve(s.identityService.IsAuthenticated()))
}

func (s *Server) handleClearProduct(w http.ResponseWriter, r *http.Request) {
	s.viewController.ClearProduct()
	s.jsonResponse(w, http.StatusOK, s.viewController.Resolve(s.identityService.IsAuthenticated()))
}

func (s *Server) handleSetOverlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Overlay string `json:"overlay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	overlay, err := view.ParseOverlay(req.Overlay)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid overlay", err)
		return
	}

	s.viewController.SetOverlay(overlay)
	s.jsonResponse(w, http.StatusOK, s.viewController.Resolve(s.identityService.IsAuthenticated()))
}

func (s *Server) handleResetView(w http.ResponseWriter, r *http.Request) {
	s.viewController.Reset()
	s.jsonResponse(w, http.StatusOK, s.viewController.Resolve(s.identityService.IsAuthenticated()))
}

func (s *Server) handleChatLink(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"url": notify.ChatLink(s.cfg.Notify.WhatsAppPhone, s.cfg.Notify.WhatsAppGreeting),
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
