// Package pgx implements the gateway's storage ports on PostgreSQL via
// pgxpool. The pool is safe for concurrent use and is the shared durable
// resource of every request handler.
package pgx

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/engramhq/engram/adapters/pgx/migrations"
	"github.com/engramhq/engram/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{pool: pool}
}

// RunMigrations applies the embedded schema migrations. It opens its own
// database/sql handle because goose drives migrations through the stdlib
// driver; the handle is closed before the pool takes over.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
