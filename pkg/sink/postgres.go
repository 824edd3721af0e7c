package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Schema creates the catalog tables if they do not exist yet. Column order follows the
// generated file layout so COPY can load table rows as-is.
const Schema = `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		parent_id INTEGER REFERENCES categories(id),
		name VARCHAR(120) NOT NULL,
		slug VARCHAR(120) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		first_name VARCHAR(60) NOT NULL,
		last_name VARCHAR(60) NOT NULL,
		address VARCHAR(255),
		city VARCHAR(120),
		state VARCHAR(120),
		country VARCHAR(120),
		postcode VARCHAR(20),
		phone VARCHAR(20),
		dob DATE,
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT,
		stock INTEGER NOT NULL DEFAULT 0,
		price NUMERIC(10,2) NOT NULL,
		brand_id INTEGER,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		product_image_id VARCHAR(40),
		is_location_offer BOOLEAN NOT NULL DEFAULT FALSE,
		is_rental BOOLEAN NOT NULL DEFAULT FALSE,
		co2_rating VARCHAR(40)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		invoice_date TIMESTAMP NOT NULL,
		invoice_number VARCHAR(30) NOT NULL,
		billing_address VARCHAR(255),
		billing_city VARCHAR(120),
		billing_state VARCHAR(120),
		billing_country VARCHAR(120),
		billing_postcode VARCHAR(20),
		total NUMERIC(10,2) NOT NULL,
		payment_method VARCHAR(40) NOT NULL,
		payment_account_name VARCHAR(255),
		payment_account_number VARCHAR(40),
		created_at TIMESTAMP NOT NULL,
		status VARCHAR(40) NOT NULL,
		purchased_items JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
`

// Postgres bulk-loads tables with COPY, one database transaction per table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Connect opens and pings a pool for url.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the catalog tables.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create catalog tables: %w", err)
	}
	return nil
}

// Truncate empties every catalog table.
func (s *Postgres) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "TRUNCATE transactions, products, users, categories CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate catalog tables: %w", err)
	}
	return nil
}

// Write copies the table rows into the table of the same name.
func (s *Postgres) Write(ctx context.Context, table Table) (Written, error) {
	rows := make([][]any, len(table.Rows))
	for i, row := range table.Rows {
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = pgValue(v)
		}
		rows[i] = values
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Written{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return Written{}, fmt.Errorf("failed to copy into %s: %w", table.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Written{}, fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}

	return Written{Table: table.Name, Destination: "postgres:" + table.Name, Rows: int(n)}, nil
}

// Count returns the number of rows currently in table.
func (s *Postgres) Count(ctx context.Context, table string) (int, error) {
	var n int
	query := "SELECT COUNT(*) FROM " + pgx.Identifier{table}.Sanitize()
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// pgValue converts a cell into a value pgx can encode in the binary COPY format.
func pgValue(v any) any {
	switch c := v.(type) {
	case decimal.Decimal:
		return pgtype.Numeric{Int: c.Coefficient(), Exp: c.Exponent(), Valid: true}
	case Date:
		return pgtype.Date{Time: time.Time(c), Valid: true}
	case Timestamp:
		return pgtype.Timestamp{Time: time.Time(c), Valid: true}
	case JSON:
		return string(c)
	default:
		return v
	}
}
