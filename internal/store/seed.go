package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"security-shop-service/internal/domain"
)

// Fixed reference data for seeding. Categories and brands are inserted once;
// repeated seeding runs only top product/service rows up to the targets.
var seedCategories = [][4]string{
	{"Video Cameras", "videocameras", "Camera", "IP cameras, analog cameras, PTZ cameras"},
	{"Gate Automation", "gate-automation", "DoorOpen", "Drives for sliding and swing gates"},
	{"Barriers", "barriers", "Construction", "Automatic barriers"},
	{"Fire Alarm", "fire-alarm", "Flame", "Detectors, panels, sounders"},
	{"Accessories", "accessories", "Wrench", "Cables, power supplies, mounts"},
	{"Video Recorders", "dvr", "HardDrive", "NVR, DVR, hybrid recorders"},
	{"Intercoms", "intercoms", "Phone", "Video intercoms, door phones"},
	{"Access Control", "access-control", "KeyRound", "ACS, locks, readers"},
}

var seedBrands = []string{
	"Hikvision", "Dahua", "Axis", "Bolid", "CAME", "Nice", "BFT", "Bosch",
	"Samsung", "Uniview", "Polyvision", "RVI", "Novicam", "Tantos", "FAAC",
	"DoorHan", "Roger", "Rubezh", "Esser", "Honeywell", "Satel", "Paradox",
}

type productTemplate struct {
	pattern  string
	minPrice int
	maxPrice int
	variants []string
	options  []string
}

var productTemplates = []productTemplate{
	{"IP camera %s %s %sMP", 8000, 95000, []string{"2", "4", "5", "8"}, []string{"Bullet", "Dome", "PTZ"}},
	{"Gate drive %s %s", 15000, 85000, []string{"sliding", "swing"}, []string{"up to 400kg", "up to 600kg", "up to 1000kg"}},
	{"Barrier %s %s", 35000, 120000, []string{"3m", "4m", "5m", "6m"}, []string{"standard", "heavy-duty"}},
	{"Fire detector %s %s", 500, 15000, []string{"smoke", "heat", "combined"}, []string{"IP20", "IP54"}},
	{"Video recorder %s %s", 12000, 180000, []string{"4-channel", "8-channel", "16-channel", "32-channel"}, []string{"NVR", "DVR"}},
	{"Cable %s %sm", 50, 5000, []string{"UTP", "coaxial", "power"}, []string{"100", "305", "500"}},
	{"Intercom %s %s", 8500, 45000, []string{"video", "audio"}, []string{"color", "monochrome", "IP"}},
	{"Controller %s %s", 7500, 65000, []string{"2-door", "4-door"}, []string{"standalone", "networked"}},
}

type serviceTemplate struct {
	pattern  string
	minPrice int
	maxPrice int
	category string
	duration int32
	variants []string
}

var serviceTemplates = []serviceTemplate{
	{"Delivery %s", 500, 15000, "delivery", 1, []string{"city", "regional", "nationwide", "express"}},
	{"Installation of %s", 2000, 25000, "installation", 4, []string{"video camera", "intercom", "barrier", "gate", "access control"}},
	{"Configuration of %s", 1500, 12000, "setup", 2, []string{"video surveillance", "access control", "fire alarm"}},
	{"Mounting of %s", 3000, 35000, "installation", 6, []string{"video surveillance", "gate automation", "intercom", "access control"}},
	{"Commissioning of %s", 5000, 45000, "commissioning", 8, []string{"security system", "automatic gate", "barrier"}},
	{"Maintenance of %s", 2500, 18000, "maintenance", 3, []string{"video surveillance", "access control", "gate", "barrier"}},
	{"Specialist consulting on %s", 1000, 8000, "consulting", 1, []string{"video surveillance", "gate automation", "access control"}},
	{"Design of %s", 15000, 150000, "design", 40, []string{"security system", "video surveillance", "access control"}},
}

const seedBatchSize = 500

// Seed idempotently fills the catalog with synthetic demo data: the fixed
// category and brand sets when empty, then products and services topped up
// to the requested targets. Returns the resulting row totals.
func (s *PostgresStore) Seed(ctx context.Context, targets SeedTargets) (*domain.SeedResult, error) {
	if err := s.seedReferenceData(ctx); err != nil {
		return nil, err
	}

	categoryIDs, err := s.collectIDs(ctx, "SELECT id FROM categories")
	if err != nil {
		return nil, fmt.Errorf("store: Seed failed to load category ids: %w", err)
	}
	brandIDs, brandNames, err := s.collectBrands(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: Seed failed to load brands: %w", err)
	}

	if err := s.seedProducts(ctx, targets.Products, categoryIDs, brandIDs, brandNames); err != nil {
		return nil, err
	}
	if err := s.seedServices(ctx, targets.Services); err != nil {
		return nil, err
	}

	result := &domain.SeedResult{}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&result.Products); err != nil {
		return nil, fmt.Errorf("store: Seed failed to count products: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&result.Services); err != nil {
		return nil, fmt.Errorf("store: Seed failed to count services: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) seedReferenceData(ctx context.Context) error {
	var categoryCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&categoryCount); err != nil {
		return fmt.Errorf("store: Seed failed to count categories: %w", err)
	}
	if categoryCount == 0 {
		for _, cat := range seedCategories {
			_, err := s.db.ExecContext(ctx,
				"INSERT INTO categories (name, slug, icon, description) VALUES ($1, $2, $3, $4)",
				cat[0], cat[1], cat[2], cat[3])
			if err != nil {
				return fmt.Errorf("store: Seed failed to insert category: %w", err)
			}
		}
	}

	var brandCount int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM brands").Scan(&brandCount); err != nil {
		return fmt.Errorf("store: Seed failed to count brands: %w", err)
	}
	if brandCount == 0 {
		for _, brand := range seedBrands {
			if _, err := s.db.ExecContext(ctx, "INSERT INTO brands (name) VALUES ($1)", brand); err != nil {
				return fmt.Errorf("store: Seed failed to insert brand: %w", err)
			}
		}
	}
	return nil
}

func (s *PostgresStore) collectIDs(ctx context.Context, query string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) collectBrands(ctx context.Context) ([]int64, map[int64]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM brands")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ids []int64
	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		names[id] = name
	}
	return ids, names, rows.Err()
}

func (s *PostgresStore) seedProducts(ctx context.Context, target int, categoryIDs, brandIDs []int64, brandNames map[int64]string) error {
	var existing int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		return fmt.Errorf("store: Seed failed to count products: %w", err)
	}
	if existing >= target || len(categoryIDs) == 0 || len(brandIDs) == 0 {
		return nil
	}

	modelPrefixes := []string{"DS", "IPC", "SD", "BX", "VR", "KD", "C"}

	const cols = 8
	var batch []interface{}
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		query := buildBatchInsert(
			"INSERT INTO products (name, slug, price, category_id, brand_id, specs, rating, stock_quantity) VALUES ",
			cols, len(batch)/cols)
		if _, err := s.db.ExecContext(ctx, query, batch...); err != nil {
			return fmt.Errorf("store: Seed failed to insert product batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < target-existing; i++ {
		tmpl := productTemplates[i%len(productTemplates)]
		brandID := brandIDs[rand.Intn(len(brandIDs))]
		categoryID := categoryIDs[rand.Intn(len(categoryIDs))]
		price := tmpl.minPrice + rand.Intn(tmpl.maxPrice-tmpl.minPrice+1)
		model := fmt.Sprintf("%s-%d", modelPrefixes[rand.Intn(len(modelPrefixes))], 100+rand.Intn(9900))

		var name string
		switch {
		case strings.Count(tmpl.pattern, "%s") == 3:
			name = fmt.Sprintf(tmpl.pattern, brandNames[brandID], model, tmpl.variants[rand.Intn(len(tmpl.variants))])
		case strings.HasPrefix(tmpl.pattern, "Cable"):
			name = fmt.Sprintf(tmpl.pattern, tmpl.variants[rand.Intn(len(tmpl.variants))], tmpl.options[rand.Intn(len(tmpl.options))])
		default:
			name = fmt.Sprintf(tmpl.pattern, brandNames[brandID], model)
		}

		specs := pickSpecs(tmpl.variants, tmpl.options)
		specsJSON, err := json.Marshal(specs)
		if err != nil {
			return fmt.Errorf("store: Seed failed to encode specs: %w", err)
		}

		slug := fmt.Sprintf("%s-%d", strings.ReplaceAll(strings.ToLower(name), " ", "-"), existing+i)
		rating := 4.0 + rand.Float64()
		stock := rand.Intn(200)

		batch = append(batch, name, slug, price, categoryID, brandID, specsJSON, rating, stock)
		if len(batch)/cols >= seedBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (s *PostgresStore) seedServices(ctx context.Context, target int) error {
	var existing int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM services").Scan(&existing); err != nil {
		return fmt.Errorf("store: Seed failed to count services: %w", err)
	}
	if existing >= target {
		return nil
	}

	const cols = 5
	var batch []interface{}
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		query := buildBatchInsert(
			"INSERT INTO services (name, slug, price, category, duration_hours) VALUES ",
			cols, len(batch)/cols)
		if _, err := s.db.ExecContext(ctx, query, batch...); err != nil {
			return fmt.Errorf("store: Seed failed to insert service batch: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for i := 0; i < target-existing; i++ {
		tmpl := serviceTemplates[i%len(serviceTemplates)]
		price := tmpl.minPrice + rand.Intn(tmpl.maxPrice-tmpl.minPrice+1)
		name := fmt.Sprintf(tmpl.pattern, tmpl.variants[rand.Intn(len(tmpl.variants))])
		slug := fmt.Sprintf("%s-%d", strings.ReplaceAll(strings.ToLower(name), " ", "-"), existing+i)

		batch = append(batch, name, slug, price, tmpl.category, tmpl.duration)
		if len(batch)/cols >= seedBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// pickSpecs draws up to three distinct entries from the combined variant and
// option pools.
func pickSpecs(variants, options []string) []string {
	pool := make([]string, 0, len(variants)+len(options))
	pool = append(pool, variants...)
	pool = append(pool, options...)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := 3
	if len(pool) < n {
		n = len(pool)
	}
	return pool[:n]
}

// buildBatchInsert appends rowCount placeholder groups of colCount positional
// args each to the given INSERT preamble.
func buildBatchInsert(preamble string, colCount, rowCount int) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	arg := 1
	for row := 0; row < rowCount; row++ {
		if row > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for col := 0; col < colCount; col++ {
			if col > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", arg)
			arg++
		}
		sb.WriteString(")")
	}
	return sb.String()
}
