package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"security-shop-service/internal/domain"
)

// Predefined errors for store operations
var (
	ErrOrderNotFound     = errors.New("store: order not found")
	ErrOrderNumberExists = errors.New("store: order number already exists")
)

// PostgresStore implements the CatalogStorer, OrderStorer and Seeder
// interfaces using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// --- CatalogStorer Implementation ---

// ListProducts retrieves a filtered, paginated product page together with
// the total count over the identical predicate. Only active products are
// eligible; category and brand names come from LEFT JOINs so products
// without either still appear.
func (s *PostgresStore) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error) {
	whereClauses := []string{"p.is_active = TRUE"}
	var queryArgs []interface{}
	argID := 1

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("p.name ILIKE $%d", argID))
		queryArgs = append(queryArgs, "%"+filter.Search+"%")
		argID++
	}
	if len(filter.CategoryIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("p.category_id = ANY($%d)", argID))
		queryArgs = append(queryArgs, pq.Array(filter.CategoryIDs))
		argID++
	}
	if len(filter.BrandIDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("p.brand_id = ANY($%d)", argID))
		queryArgs = append(queryArgs, pq.Array(filter.BrandIDs))
		argID++
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.price BETWEEN $%d AND $%d", argID, argID+1))
		queryArgs = append(queryArgs, *filter.MinPrice, *filter.MaxPrice)
		argID += 2
	}

	whereCondition := " WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM products p" + whereCondition
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to count products: %w", err)
	}

	if totalCount == 0 {
		return []domain.Product{}, 0, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT p.id, p.name, p.price, p.image_url, p.rating, p.specs, p.stock_quantity,
			c.name AS category_name, c.id AS category_id,
			b.name AS brand_name, b.id AS brand_id
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		LEFT JOIN brands b ON p.brand_id = b.id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, whereCondition, argID, argID+1)

	finalQueryArgs := append(queryArgs, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, dataQuery, finalQueryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}

	return products, totalCount, nil
}

// scanProduct maps one joined catalog row onto a domain.Product, applying
// the API's NULL conventions: a missing image becomes the placeholder, a
// missing rating becomes 0 and specs default to an empty list.
func scanProduct(rows *sql.Rows) (domain.Product, error) {
	var p domain.Product
	var imageURL sql.NullString
	var rating sql.NullFloat64
	var specsRaw []byte
	var categoryName, brandName sql.NullString
	var categoryID, brandID sql.NullInt64

	if err := rows.Scan(
		&p.ID, &p.Name, &p.Price, &imageURL, &rating, &specsRaw, &p.Stock,
		&categoryName, &categoryID, &brandName, &brandID,
	); err != nil {
		return domain.Product{}, err
	}

	p.Image = "/placeholder.svg"
	if imageURL.Valid && imageURL.String != "" {
		p.Image = imageURL.String
	}
	if rating.Valid {
		p.Rating = rating.Float64
	}
	p.Specs = []string{}
	if len(specsRaw) > 0 {
		if err := json.Unmarshal(specsRaw, &p.Specs); err != nil {
			return domain.Product{}, fmt.Errorf("invalid specs payload: %w", err)
		}
	}
	if categoryName.Valid {
		p.Category = &categoryName.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if brandName.Valid {
		p.Brand = &brandName.String
	}
	if brandID.Valid {
		p.BrandID = &brandID.Int64
	}
	return p, nil
}

// ListServices retrieves a filtered, paginated service page plus the total
// count over the identical predicate. Services are sorted by category tag
// then price ascending.
func (s *PostgresStore) ListServices(ctx context.Context, filter ServiceFilter) ([]domain.Service, int, error) {
	whereClauses := []string{"is_active = TRUE"}
	var queryArgs []interface{}
	argID := 1

	if filter.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argID))
		queryArgs = append(queryArgs, filter.Category)
		argID++
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argID))
		queryArgs = append(queryArgs, "%"+filter.Search+"%")
		argID++
	}

	whereCondition := " WHERE " + strings.Join(whereClauses, " AND ")

	countQuery := "SELECT COUNT(*) FROM services" + whereCondition
	var totalCount int
	if err := s.db.QueryRowContext(ctx, countQuery, queryArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("store: ListServices failed to count services: %w", err)
	}

	if totalCount == 0 {
		return []domain.Service{}, 0, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT id, name, description, price, category, duration_hours
		FROM services
		%s
		ORDER BY category, price
		LIMIT $%d OFFSET $%d`, whereCondition, argID, argID+1)

	finalQueryArgs := append(queryArgs, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, dataQuery, finalQueryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: ListServices failed to query services: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0, filter.Limit)
	for rows.Next() {
		var svc domain.Service
		var description sql.NullString
		if err := rows.Scan(&svc.ID, &svc.Name, &description, &svc.Price, &svc.Category, &svc.Duration); err != nil {
			return nil, 0, fmt.Errorf("store: ListServices failed to scan service row: %w", err)
		}
		if description.Valid {
			svc.Description = &description.String
		}
		services = append(services, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: ListServices iteration error: %w", err)
	}

	return services, totalCount, nil
}

// GetMetadata aggregates categories with live product counts (zero counts
// included), brands with nonzero counts only, and the global price range
// over active products (0/0 when the catalog is empty).
func (s *PostgresStore) GetMetadata(ctx context.Context) (*domain.Metadata, error) {
	meta := &domain.Metadata{
		Categories: []domain.Category{},
		Brands:     []domain.Brand{},
	}

	categoryQuery := `
		SELECT c.id, c.name, c.slug, c.icon, COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id AND p.is_active = TRUE
		GROUP BY c.id, c.name, c.slug, c.icon
		ORDER BY c.name`
	rows, err := s.db.QueryContext(ctx, categoryQuery)
	if err != nil {
		return nil, fmt.Errorf("store: GetMetadata failed to query categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon, &c.Count); err != nil {
			return nil, fmt.Errorf("store: GetMetadata failed to scan category row: %w", err)
		}
		meta.Categories = append(meta.Categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetMetadata category iteration error: %w", err)
	}

	brandQuery := `
		SELECT b.id, b.name, COUNT(p.id) AS product_count
		FROM brands b
		LEFT JOIN products p ON p.brand_id = b.id AND p.is_active = TRUE
		GROUP BY b.id, b.name
		HAVING COUNT(p.id) > 0
		ORDER BY b.name`
	brandRows, err := s.db.QueryContext(ctx, brandQuery)
	if err != nil {
		return nil, fmt.Errorf("store: GetMetadata failed to query brands: %w", err)
	}
	defer brandRows.Close()

	for brandRows.Next() {
		var b domain.Brand
		if err := brandRows.Scan(&b.ID, &b.Name, &b.Count); err != nil {
			return nil, fmt.Errorf("store: GetMetadata failed to scan brand row: %w", err)
		}
		meta.Brands = append(meta.Brands, b)
	}
	if err = brandRows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetMetadata brand iteration error: %w", err)
	}

	priceQuery := `SELECT MIN(price), MAX(price) FROM products WHERE is_active = TRUE`
	var minPrice, maxPrice sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, priceQuery).Scan(&minPrice, &maxPrice); err != nil {
		return nil, fmt.Errorf("store: GetMetadata failed to query price range: %w", err)
	}
	if minPrice.Valid {
		meta.PriceRange.Min = minPrice.Float64
	}
	if maxPrice.Valid {
		meta.PriceRange.Max = maxPrice.Float64
	}

	return meta, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
		log.Println("INFO: Database connection pool closed successfully.")
	}
	return nil
}
