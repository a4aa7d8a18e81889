package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/acmeshop/storefront/internal/catalog/domain"
	"github.com/acmeshop/storefront/internal/catalog/usecase/command"
	"github.com/acmeshop/storefront/internal/catalog/usecase/query"
	"github.com/acmeshop/storefront/pkg/auth"
	"github.com/acmeshop/storefront/pkg/logger"
)

// CatalogHandler handles HTTP requests for products and inventory
type CatalogHandler struct {
	// Command handlers
	createHandler      *command.CreateProductHandler
	updateHandler      *command.UpdateProductHandler
	deactivateHandler  *command.DeactivateProductHandler
	adjustStockHandler *command.AdjustStockHandler

	// Query handlers
	getProductHandler  *query.GetProductHandler
	listHandler        *query.ListProductsHandler
	stockAlertsHandler *query.StockAlertsHandler

	tokens *auth.TokenManager

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	products domain.ProductRepository,
	inventory domain.InventoryRepository,
	tokens *auth.TokenManager,
) *CatalogHandler {
	return NewCatalogHandlerWithDI(
		command.NewCreateProductHandler(products),
		command.NewUpdateProductHandler(products),
		command.NewDeactivateProductHandler(products),
		command.NewAdjustStockHandler(products, inventory),
		query.NewGetProductHandler(products, inventory),
		query.NewListProductsHandler(products, inventory),
		query.NewStockAlertsHandler(inventory),
		tokens,
	)
}

// NewCatalogHandlerWithDI creates a new catalog handler from prebuilt
// command and query handlers. Used by Wire.
func NewCatalogHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deactivateHandler *command.DeactivateProductHandler,
	adjustStockHandler *command.AdjustStockHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	stockAlertsHandler *query.StockAlertsHandler,
	tokens *auth.TokenManager,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests to the catalog endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		createHandler:      createHandler,
		updateHandler:      updateHandler,
		deactivateHandler:  deactivateHandler,
		adjustStockHandler: adjustStockHandler,
		getProductHandler:  getProductHandler,
		listHandler:        listHandler,
		stockAlertsHandler: stockAlertsHandler,
		tokens:             tokens,
		requestCounter:     requestCounter,
		requestLatency:     requestLatency,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers the catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	admin := AdminMiddleware(h.tokens)

	// Public routes
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", admin(h.CreateProduct))).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", admin(h.UpdateProduct))).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", admin(h.DeactivateProduct))).Methods("DELETE")
	router.HandleFunc("/api/products/{id}/stock", h.metricsMiddleware("/api/products/{id}/stock", admin(h.AdjustStock))).Methods("PATCH")
	router.HandleFunc("/api/admin/inventory/low-stock", h.metricsMiddleware("/api/admin/inventory/low-stock", admin(h.ListLowStock))).Methods("GET")
	router.HandleFunc("/api/admin/inventory/out-of-stock", h.metricsMiddleware("/api/admin/inventory/out-of-stock", admin(h.ListOutOfStock))).Methods("GET")
}

// RegisterHealthCheck registers the health endpoint backed by a DB ping
func (h *CatalogHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Storefront is healthy",
		})
	}).Methods("GET")
}

// CreateProduct handles POST /api/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string  `json:"name"`
		Description       string  `json:"description"`
		PriceCAD          float64 `json:"price_cad"`
		ImageURL          string  `json:"image_url"`
		Specifications    string  `json:"specifications"`
		IsActive          bool    `json:"is_active"`
		InitialStock      int     `json:"initial_stock"`
		LowStockThreshold int     `json:"low_stock_threshold"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.createHandler.Handle(command.CreateProductCommand{
		Name:              req.Name,
		Description:       req.Description,
		PriceCAD:          req.PriceCAD,
		ImageURL:          req.ImageURL,
		Specifications:    req.Specifications,
		IsActive:          req.IsActive,
		InitialStock:      req.InitialStock,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	activeOnly := true
	if v := r.URL.Query().Get("active_only"); v != "" {
		activeOnly, _ = strconv.ParseBool(v)
	}

	result, err := h.listHandler.Handle(query.ListProductsQuery{
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list products")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list products",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ID: id})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Logger.Error().Err(err).Msg("Failed to get product")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to get product",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// UpdateProduct handles PUT /api/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		PriceCAD       *float64 `json:"price_cad"`
		ImageURL       *string  `json:"image_url"`
		Specifications *string  `json:"specifications"`
		IsActive       *bool    `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, err := h.updateHandler.Handle(command.UpdateProductCommand{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		PriceCAD:       req.PriceCAD,
		ImageURL:       req.ImageURL,
		Specifications: req.Specifications,
		IsActive:       req.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Logger.Error().Err(err).Msg("Failed to update product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeactivateProduct handles DELETE /api/products/{id}
func (h *CatalogHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.deactivateHandler.Handle(command.DeactivateProductCommand{ID: id}); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Logger.Error().Err(err).Msg("Failed to deactivate product")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deactivated successfully",
	})
}

// AdjustStock handles PATCH /api/products/{id}/stock
func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int  `json:"quantity"`
		Absolute bool `json:"absolute"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	err := h.adjustStockHandler.Handle(command.AdjustStockCommand{
		ProductID: id,
		Quantity:  req.Quantity,
		Absolute:  req.Absolute,
	})
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Product not found",
			})
			return
		}
		logger.Logger.Error().Err(err).Msg("Failed to adjust stock")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock updated successfully",
	})
}

// ListLowStock handles GET /api/admin/inventory/low-stock
func (h *CatalogHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	h.listAlerts(w, false)
}

// ListOutOfStock handles GET /api/admin/inventory/out-of-stock
func (h *CatalogHandler) ListOutOfStock(w http.ResponseWriter, r *http.Request) {
	h.listAlerts(w, true)
}

func (h *CatalogHandler) listAlerts(w http.ResponseWriter, outOfStockOnly bool) {
	alerts, err := h.stockAlertsHandler.Handle(query.StockAlertsQuery{OutOfStockOnly: outOfStockOnly})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to list stock alerts")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list stock alerts",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    alerts,
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid product ID",
		})
		return 0, false
	}
	return uint(id), true
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
