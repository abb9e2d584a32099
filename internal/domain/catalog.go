package domain

// Product is a single catalog row as served by the API. Category and brand
// names come from LEFT JOINs, so a product may carry neither.
type Product struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Image      string   `json:"image"`
	Rating     float64  `json:"rating"`
	Specs      []string `json:"specs"`
	Stock      int32    `json:"stock"`
	Category   *string  `json:"category"`
	CategoryID *int64   `json:"category_id"`
	Brand      *string  `json:"brand"`
	BrandID    *int64   `json:"brand_id"`
}

// Category carries a derived count of active products referencing it.
// A count of zero is valid and still listed in metadata.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// Brand also carries a derived active-product count; brands with a zero
// count are excluded from metadata output entirely.
type Brand struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Service is an installation/delivery/maintenance offering. Category here is
// a free-form tag, not a foreign key.
type Service struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Duration    int32   `json:"duration"`
}

// PriceRange is the global min/max over active products, 0/0 when the
// catalog is empty.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Metadata is the read-side aggregation returned by the metadata endpoint.
type Metadata struct {
	Categories []Category `json:"categories"`
	Brands     []Brand    `json:"brands"`
	PriceRange PriceRange `json:"priceRange"`
}
