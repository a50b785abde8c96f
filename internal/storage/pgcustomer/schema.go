package pgcustomer

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{version: 1, name: "create customers", stmts: []string{
		`
CREATE TABLE IF NOT EXISTS customers (
  id BIGSERIAL PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NULL,
  email TEXT NULL,
  phone_number TEXT NULL,
  company_name TEXT NULL,
  qr_url TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
	}},
	{version: 2, name: "redirect codes", stmts: []string{
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS redirect_code TEXT NULL`,
		// Rows that predate redirect codes get one derived from their id.
		`UPDATE customers SET redirect_code = substr(md5(id::text || clock_timestamp()::text), 1, 8)
		 WHERE redirect_code IS NULL OR redirect_code = ''`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_redirect_code ON customers(redirect_code)`,
	}},
	{version: 3, name: "tracking fields", stmts: []string{
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS utm_source TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS utm_medium TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS utm_campaign TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS utm_term TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS utm_content TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS tracking_id TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS notes TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS category TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS store_number TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS location_id TEXT NULL`,
		`ALTER TABLE customers ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ NULL`,
	}},
	{version: 4, name: "created_at index", stmts: []string{
		`CREATE INDEX IF NOT EXISTS idx_customers_created_at ON customers(created_at DESC)`,
	}},
}

func (s *Storage) migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		return errors.Wrap(err, "init schema_migrations")
	}

	for _, m := range migrations {
		if err := s.applyMigration(ctx, m); err != nil {
			return errors.Wrapf(err, "migration %d (%s)", m.version, m.name)
		}
	}
	return nil
}

func (s *Storage) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialises concurrent starts against the same database.
	if _, err := tx.Exec(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return errors.Wrap(err, "lock schema_migrations")
	}

	var applied bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied); err != nil {
		return errors.Wrap(err, "check version")
	}
	if applied {
		return nil
	}

	for _, q := range m.stmts {
		if _, err := tx.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "exec")
		}
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)`,
		m.version, m.name, s.now()); err != nil {
		return errors.Wrap(err, "record version")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
