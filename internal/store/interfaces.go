package store

import (
	"context"

	"security-shop-service/internal/domain"
)

// ProductFilter holds parameters for listing products. Unset fields impose
// no constraint: empty id slices do not filter, and the price bounds are
// applied only when both were supplied (possibly as defaults) and parseable.
type ProductFilter struct {
	Search      string
	CategoryIDs []int64
	BrandIDs    []int64
	MinPrice    *float64
	MaxPrice    *float64
	Limit       int
	Offset      int
}

// ServiceFilter holds parameters for listing services.
type ServiceFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// SeedTargets are the desired catalog row counts for a seeding run.
// Seeding only tops rows up to the target; it never deletes.
type SeedTargets struct {
	Products int
	Services int
}

// CatalogStorer defines the read-side database operations for the catalog.
type CatalogStorer interface {
	// ListProducts returns the matching page and the total count computed
	// with the same predicate without pagination.
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	ListServices(ctx context.Context, filter ServiceFilter) ([]domain.Service, int, error)
	GetMetadata(ctx context.Context) (*domain.Metadata, error)
}

// OrderStorer defines the database operations for orders.
type OrderStorer interface {
	// CreateOrder persists the order header and all items as one
	// transaction and returns the generated order id.
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)
	// SetOrderPayment links the gateway's payment identifier back onto a
	// previously created order.
	SetOrderPayment(ctx context.Context, orderID int64, paymentID string) error
}

// Seeder fills the catalog tables with synthetic demo data.
type Seeder interface {
	Seed(ctx context.Context, targets SeedTargets) (*domain.SeedResult, error)
}
