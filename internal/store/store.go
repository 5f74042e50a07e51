package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Schemas names the PostgreSQL namespaces the tables live in.
type Schemas struct {
	Inventory string
	Orders    string
	Supplier  string
}

// DefaultSchemas matches the deployed database layout.
var DefaultSchemas = Schemas{
	Inventory: "inventario_ms",
	Orders:    "pedidos_ms",
	Supplier:  "pedidos_ms",
}

type tables struct {
	warehouse string
	product   string
	inventory string
	order     string
	supplier  string
}

func newTables(s Schemas) tables {
	return tables{
		warehouse: qualify(s.Inventory, "bodega"),
		product:   qualify(s.Inventory, "producto"),
		inventory: qualify(s.Inventory, "inventario"),
		order:     qualify(s.Orders, "pedido"),
		supplier:  qualify(s.Supplier, "proveedor"),
	}
}

func qualify(schema, table string) string {
	if schema == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

type Store struct {
	db *sqlx.DB
	t  tables
}

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// NewStore creates a new database store
func NewStore(databaseURL string, schemas Schemas, opts Options) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(db, schemas), nil
}

// New wraps an existing connection.
func New(db *sqlx.DB, schemas Schemas) *Store {
	return &Store{db: db, t: newTables(schemas)}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks that the database answers
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// deleteByID removes one row and reports ErrNotFound when nothing matched.
func (s *Store) deleteByID(ctx context.Context, table, column string, id interface{}) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, column)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
