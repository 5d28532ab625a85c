// Package sqlstore is the MySQL backend. Favorites live in their own table
// keyed by (client_id, product_id); its auto-increment id keeps insertion
// order.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"bazar-backend/internal/store"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	errDuplicateEntry   = 1062
	errForeignKeyFailed = 1452
)

type Store struct {
	db *sqlx.DB
}

// Open connects using a go-sql-driver DSN and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	// Report matched rather than changed rows so updates can detect misses.
	cfg.ClientFoundRows = true

	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Clients() store.ClientRepository   { return &clientRepo{db: s.db} }
func (s *Store) Users() store.UserRepository       { return &userRepo{db: s.db} }
func (s *Store) Products() store.ProductRepository { return &productRepo{db: s.db} }
func (s *Store) Sales() store.SaleRepository       { return &saleRepo{db: s.db} }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return store.ErrDuplicate
		case errForeignKeyFailed:
			return store.ErrNotFound
		}
	}
	return err
}

// setClause collects "col = ?" pairs for a partial UPDATE.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setClause) empty() bool {
	return len(s.cols) == 0
}

// update runs UPDATE table SET ... WHERE id = ? and reports ErrNotFound when
// no row matched.
func (s *setClause) update(ctx context.Context, db sqlx.ExecerContext, table, id string) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(s.cols, ", "))
	res, err := db.ExecContext(ctx, query, append(s.args, id)...)
	if err != nil {
		return mapErr(err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
