package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"security-shop-service/internal/domain"
	"security-shop-service/internal/payment"
	"security-shop-service/internal/store"
)

const (
	defaultProductLimit = 24
	defaultServiceLimit = 50
	defaultMinPrice     = "0"
	defaultMaxPrice     = "999999999"
)

// PaymentCreator is the outbound gateway dependency, an interface so
// handler tests can substitute a fake.
type PaymentCreator interface {
	Create(ctx context.Context, params payment.CreateParams) (*payment.Payment, error)
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	catalogStore store.CatalogStorer
	orderStore   store.OrderStorer
	seeder       store.Seeder
	payments     PaymentCreator
	seedTargets  store.SeedTargets
	validate     *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies. payments may
// be nil when gateway credentials are not configured; the payment endpoint
// then reports a configuration error per request.
func NewHTTPHandler(cs store.CatalogStorer, ords store.OrderStorer, seeder store.Seeder, payments PaymentCreator, seedTargets store.SeedTargets) *HTTPHandler {
	return &HTTPHandler{
		catalogStore: cs,
		orderStore:   ords,
		seeder:       seeder,
		payments:     payments,
		seedTargets:  seedTargets,
		validate:     validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("ERROR: Failed to encode JSON response: %v", err)
			http.Error(w, `{"error": "Internal server error during JSON encoding"}`, http.StatusInternalServerError)
		}
	}
}

// --- Catalog Handlers ---

// CatalogResponse is the product listing envelope.
type CatalogResponse struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Pages    int              `json:"pages"`
}

func (h *HTTPHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	page := parsePositiveInt(qParams.Get("page"), 1)
	limit := parsePositiveInt(qParams.Get("limit"), defaultProductLimit)
	minPrice, maxPrice := parsePriceRange(
		queryValue(qParams.Get("min_price"), defaultMinPrice),
		queryValue(qParams.Get("max_price"), defaultMaxPrice),
	)

	filter := store.ProductFilter{
		Search:      qParams.Get("search"),
		CategoryIDs: parseIDList(qParams.Get("categories")),
		BrandIDs:    parseIDList(qParams.Get("brands")),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}

	products, totalCount, err := h.catalogStore.ListProducts(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR: ListCatalog store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respondWithJSON(w, http.StatusOK, CatalogResponse{
		Products: products,
		Total:    totalCount,
		Page:     page,
		Limit:    limit,
		Pages:    totalPages(totalCount, limit),
	})
}

// ServicesResponse is the service listing envelope.
type ServicesResponse struct {
	Services []domain.Service `json:"services"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Pages    int              `json:"pages"`
}

func (h *HTTPHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	page := parsePositiveInt(qParams.Get("page"), 1)
	limit := parsePositiveInt(qParams.Get("limit"), defaultServiceLimit)

	filter := store.ServiceFilter{
		Category: qParams.Get("category"),
		Search:   qParams.Get("search"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	services, totalCount, err := h.catalogStore.ListServices(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR: ListServices store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	respondWithJSON(w, http.StatusOK, ServicesResponse{
		Services: services,
		Total:    totalCount,
		Page:     page,
		Limit:    limit,
		Pages:    totalPages(totalCount, limit),
	})
}

func (h *HTTPHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.catalogStore.GetMetadata(r.Context())
	if err != nil {
		log.Printf("ERROR: GetMetadata store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve catalog metadata")
		return
	}
	respondWithJSON(w, http.StatusOK, meta)
}

// --- Order + Payment Handler ---

// OrderItemInput is one line of an incoming order. Exactly one of
// ProductID/ServiceID is expected to be set by the caller.
type OrderItemInput struct {
	ProductID *int64  `json:"productId"`
	ServiceID *int64  `json:"serviceId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}

// CreatePaymentInput is the order-creation request body. Customer fields
// may be empty; the receipt is only attached when an email is present.
type CreatePaymentInput struct {
	CustomerName  string           `json:"customerName"`
	CustomerEmail string           `json:"customerEmail"`
	CustomerPhone string           `json:"customerPhone"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1"`
	TotalAmount   float64          `json:"totalAmount" validate:"required,gt=0"`
}

// CreatePaymentResponse reports the persisted order and the gateway's
// redirect target.
type CreatePaymentResponse struct {
	Success         bool   `json:"success"`
	OrderID         int64  `json:"orderId"`
	OrderNumber     string `json:"orderNumber"`
	PaymentID       string `json:"paymentId"`
	ConfirmationURL string `json:"confirmationUrl"`
}

// newOrderNumber builds a human-readable order number with a random
// 8-character uppercase hex suffix. Collisions are left to the database's
// unique constraint; the probability is negligible and not retried.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// CreatePayment persists the order and its items as one transaction, then
// makes a single best-effort payment-creation call. A gateway failure after
// the order write leaves the order visible in pending state with no payment
// id; that window is accepted and never compensated.
func (h *HTTPHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		respondWithError(w, http.StatusInternalServerError, "Payment credentials not configured")
		return
	}

	var input CreatePaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order data")
		return
	}

	order := &domain.Order{
		OrderNumber:   newOrderNumber(),
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		TotalAmount:   input.TotalAmount,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	receiptItems := make([]payment.ReceiptItem, 0, len(input.Items))
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			ServiceID: item.ServiceID,
			Quantity:  quantity,
			Price:     item.Price,
		})
		receiptItems = append(receiptItems, payment.ReceiptItem{
			Name:     item.Name,
			Quantity: quantity,
			Price:    item.Price,
		})
	}

	orderID, err := h.orderStore.CreateOrder(r.Context(), order, items)
	if err != nil {
		log.Printf("ERROR: CreatePayment failed to persist order %s: %v", order.OrderNumber, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	pay, err := h.payments.Create(r.Context(), payment.CreateParams{
		OrderID:       orderID,
		OrderNumber:   order.OrderNumber,
		TotalAmount:   input.TotalAmount,
		CustomerEmail: input.CustomerEmail,
		Items:         receiptItems,
	})
	if err != nil {
		// The order stays pending with no payment id. That state is
		// visible and intentionally not rolled back or retried.
		var gatewayErr *payment.GatewayError
		if errors.As(err, &gatewayErr) {
			log.Printf("ERROR: CreatePayment gateway rejected order %s: status %d", order.OrderNumber, gatewayErr.StatusCode)
			respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:   "Payment creation failed",
				Details: gatewayErr.Body,
			})
			return
		}
		log.Printf("ERROR: CreatePayment gateway call failed for order %s: %v", order.OrderNumber, err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.orderStore.SetOrderPayment(r.Context(), orderID, pay.ID); err != nil {
		// The payment already exists at the gateway, so the call still
		// succeeds; the missing link is only logged.
		log.Printf("ERROR: CreatePayment failed to link payment %s to order %d: %v", pay.ID, orderID, err)
	}

	respondWithJSON(w, http.StatusOK, CreatePaymentResponse{
		Success:         true,
		OrderID:         orderID,
		OrderNumber:     order.OrderNumber,
		PaymentID:       pay.ID,
		ConfirmationURL: pay.ConfirmationURL,
	})
}

// --- Seed Handler ---

// SeedResponse reports the catalog totals after a seeding run.
type SeedResponse struct {
	Success  bool   `json:"success"`
	Products int    `json:"products"`
	Services int    `json:"services"`
	Message  string `json:"message"`
}

func (h *HTTPHandler) SeedDatabase(w http.ResponseWriter, r *http.Request) {
	result, err := h.seeder.Seed(r.Context(), h.seedTargets)
	if err != nil {
		log.Printf("ERROR: SeedDatabase store operation failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}

	respondWithJSON(w, http.StatusOK, SeedResponse{
		Success:  true,
		Products: result.Products,
		Services: result.Services,
		Message:  fmt.Sprintf("Database seeded: %d products, %d services", result.Products, result.Services),
	})
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service. Unmatched methods
// get chi's default 405; OPTIONS preflight is handled by the CORS middleware
// installed in main.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/catalog", h.ListCatalog)
	r.Get("/api/v1/services", h.ListServices)
	r.Get("/api/v1/metadata", h.GetMetadata)
	r.Post("/api/v1/payment", h.CreatePayment)
	r.Post("/api/v1/seed", h.SeedDatabase)
}
