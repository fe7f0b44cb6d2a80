package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tably/internal/stock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Collection names in import order. Ingredients and menu items first so
// later collections land in a store that already has its reference data.
var collections = []string{"ingredients", "menu_items", "expenses", "orders"}

// Collections returns the importable collection names in import order.
func Collections() []string {
	out := make([]string, len(collections))
	copy(out, collections)
	return out
}

// Importer copies legacy backups into the structured store. Each collection
// is imported in its own transaction and recorded in import_log inside that
// transaction, so a crash mid-import leaves finished collections marked and
// unfinished ones untouched; rerunning resumes exactly where it stopped.
type Importer struct {
	pool   *pgxpool.Pool
	loader Loader
	logger zerolog.Logger
}

// NewImporter creates a new legacy backup importer.
func NewImporter(pool *pgxpool.Pool, loader Loader, logger zerolog.Logger) *Importer {
	return &Importer{
		pool:   pool,
		loader: loader,
		logger: logger.With().Str("component", "legacy-importer").Logger(),
	}
}

// Run imports every collection that has a source and is not yet recorded in
// import_log. sources maps collection name to the loader source (file path
// or S3 key).
func (i *Importer) Run(ctx context.Context, sources map[string]string) error {
	for _, collection := range collections {
		source, ok := sources[collection]
		if !ok {
			continue
		}

		done, err := i.alreadyImported(ctx, collection)
		if err != nil {
			return err
		}
		if done {
			i.logger.Info().Str("collection", collection).Msg("collection already imported, skipping")
			continue
		}

		records, err := i.loader.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to load backup for %s: %w", collection, err)
		}

		if err := i.importCollection(ctx, collection, records); err != nil {
			return err
		}

		i.logger.Info().
			Str("collection", collection).
			Int("records", len(records)).
			Msg("collection imported")
	}

	return nil
}

func (i *Importer) alreadyImported(ctx context.Context, collection string) (bool, error) {
	var count int
	err := i.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM import_log WHERE collection = $1`, collection,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check import log for %s: %w", collection, err)
	}
	return count > 0, nil
}

func (i *Importer) importCollection(ctx context.Context, collection string, records [][]byte) error {
	tx, err := i.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var insert func(context.Context, pgx.Tx, []byte) error
	switch collection {
	case "ingredients":
		insert = insertIngredient
	case "menu_items":
		insert = insertMenuItem
	case "expenses":
		insert = insertExpense
	case "orders":
		insert = insertOrder
	default:
		return fmt.Errorf("unknown collection %q", collection)
	}

	for n, record := range records {
		if err := insert(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to import %s record %d: %w", collection, n, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO import_log (collection, record_count) VALUES ($1, $2)`,
		collection, len(records),
	); err != nil {
		return fmt.Errorf("failed to record import of %s: %w", collection, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit import of %s: %w", collection, err)
	}

	return nil
}

// Legacy record shapes, as written by the old flat key/value export.
// Timestamps are RFC 3339 strings; missing ones default to the import time.

type legacyIngredient struct {
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	MinThreshold float64 `json:"minThreshold"`
	LastUpdated  string  `json:"lastUpdated"`
}

type legacyMenuItem struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Available *bool   `json:"available"`
}

type legacyExpense struct {
	Item       string  `json:"item"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	UnitWeight *string `json:"unitWeight"`
	Cost       float64 `json:"cost"`
	Supplier   *string `json:"supplier"`
	Date       string  `json:"date"`
	Notes      *string `json:"notes"`
}

type legacyOrder struct {
	TableNumber int     `json:"tableNumber"`
	Status      string  `json:"status"`
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	CreatedAt   string  `json:"createdAt"`
	Items       []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
}

func insertIngredient(ctx context.Context, tx pgx.Tx, record []byte) error {
	var ing legacyIngredient
	if err := json.Unmarshal(record, &ing); err != nil {
		return fmt.Errorf("invalid ingredient record: %w", err)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO ingredients (id, name, normalized_name, quantity, unit, min_threshold, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.New(), ing.Name, stock.Normalize(ing.Name), ing.Quantity, ing.Unit,
		ing.MinThreshold, parseLegacyTime(ing.LastUpdated),
	)
	return err
}

func insertMenuItem(ctx context.Context, tx pgx.Tx, record []byte) error {
	var item legacyMenuItem
	if err := json.Unmarshal(record, &item); err != nil {
		return fmt.Errorf("invalid menu item record: %w", err)
	}

	available := true
	if item.Available != nil {
		available = *item.Available
	}

	now := time.Now()
	_, err := tx.Exec(ctx, `
		INSERT INTO menu_items (id, name, category, price, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.New(), item.Name, item.Category, item.Price, available, now, now,
	)
	return err
}

func insertExpense(ctx context.Context, tx pgx.Tx, record []byte) error {
	var exp legacyExpense
	if err := json.Unmarshal(record, &exp); err != nil {
		return fmt.Errorf("invalid expense record: %w", err)
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO expenses (id, item, quantity, unit, unit_weight, cost, supplier, date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		uuid.New(), exp.Item, exp.Quantity, exp.Unit, exp.UnitWeight, exp.Cost,
		exp.Supplier, parseLegacyTime(exp.Date), exp.Notes, time.Now(),
	)
	return err
}

func insertOrder(ctx context.Context, tx pgx.Tx, record []byte) error {
	var order legacyOrder
	if err := json.Unmarshal(record, &order); err != nil {
		return fmt.Errorf("invalid order record: %w", err)
	}

	status := order.Status
	if status == "" {
		status = "pending"
	}

	orderID := uuid.New()
	createdAt := parseLegacyTime(order.CreatedAt)

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (id, table_number, status, subtotal, tax, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		orderID, order.TableNumber, status, order.Subtotal, order.Tax, order.Total,
		createdAt, createdAt,
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`,
			uuid.New(), orderID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func parseLegacyTime(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t
}
