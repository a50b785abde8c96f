package sqlitecustomer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// Migrations are additive only. Column additions check table_info first so
// databases created by the older manual ALTER TABLE scripts upgrade in place.
func (s *Storage) migrations() []migration {
	return []migration{
		{version: 1, name: "create customers", apply: migrateCreateCustomers},
		{version: 2, name: "redirect codes", apply: s.migrateRedirectCodes},
		{version: 3, name: "tracking fields", apply: migrateTrackingFields},
		{version: 4, name: "created_at index", apply: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_customers_created_at ON customers(created_at)`)
			return err
		}},
	}
}

func (s *Storage) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL
)`); err != nil {
		return errors.Wrap(err, "init schema_migrations")
	}

	for _, m := range s.migrations() {
		if err := s.applyMigration(ctx, m); err != nil {
			return errors.Wrapf(err, "migration %d (%s)", m.version, m.name)
		}
	}
	return nil
}

func (s *Storage) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&n); err != nil {
		return errors.Wrap(err, "check version")
	}
	if n > 0 {
		return nil
	}

	if err := m.apply(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, s.now()); err != nil {
		return errors.Wrap(err, "record version")
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}

func migrateCreateCustomers(ctx context.Context, tx *sql.Tx) error {
	// AUTOINCREMENT keeps deleted ids from being handed out again.
	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT,
  last_name TEXT,
  email TEXT,
  phone_number TEXT,
  company_name TEXT,
  qr_url TEXT,
  created_at DATETIME
)`); err != nil {
		return errors.Wrap(err, "create customers")
	}

	cols, err := tableColumns(ctx, tx, "customers")
	if err != nil {
		return err
	}
	for _, c := range []string{"last_name", "email", "phone_number", "company_name"} {
		if err := addColumnIfMissing(ctx, tx, cols, c, "TEXT"); err != nil {
			return err
		}
	}
	if err := addColumnIfMissing(ctx, tx, cols, "created_at", "DATETIME"); err != nil {
		return err
	}
	if !cols["qr_url"] {
		if err := addColumnIfMissing(ctx, tx, cols, "qr_url", "TEXT"); err != nil {
			return err
		}
		// Early databases stored the destination in "url".
		if cols["url"] {
			if _, err := tx.ExecContext(ctx, `UPDATE customers SET qr_url = url WHERE qr_url IS NULL`); err != nil {
				return errors.Wrap(err, "copy url to qr_url")
			}
		}
	}
	return nil
}

func (s *Storage) migrateRedirectCodes(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "customers")
	if err != nil {
		return err
	}
	if err := addColumnIfMissing(ctx, tx, cols, "redirect_code", "TEXT"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_redirect_code ON customers(redirect_code)`); err != nil {
		return errors.Wrap(err, "create redirect_code index")
	}

	// Rows created before codes existed get one now so every record is reachable.
	rows, err := tx.QueryContext(ctx, `SELECT id FROM customers WHERE redirect_code IS NULL OR redirect_code = ''`)
	if err != nil {
		return errors.Wrap(err, "select rows without code")
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return errors.Wrap(err, "scan id")
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if rows.Err() != nil {
		return errors.Wrap(rows.Err(), "rows")
	}

	for _, id := range ids {
		if err := s.backfillCode(ctx, tx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) backfillCode(ctx context.Context, tx *sql.Tx, id int64) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE customers SET redirect_code = ? WHERE id = ?`, code, id)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return errors.Wrap(err, "backfill redirect code")
		}
	}
	return errors.Errorf("backfill redirect code for %d: %d collisions", id, maxCodeAttempts)
}

func migrateTrackingFields(ctx context.Context, tx *sql.Tx) error {
	cols, err := tableColumns(ctx, tx, "customers")
	if err != nil {
		return err
	}
	for _, c := range trackingColumns {
		if err := addColumnIfMissing(ctx, tx, cols, c, "TEXT"); err != nil {
			return err
		}
	}
	return addColumnIfMissing(ctx, tx, cols, "updated_at", "DATETIME")
}

func tableColumns(ctx context.Context, tx *sql.Tx, table string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, errors.Wrap(err, "table_info")
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, errors.Wrap(err, "scan table_info")
		}
		cols[name] = true
	}
	return cols, errors.Wrap(rows.Err(), "rows")
}

func addColumnIfMissing(ctx context.Context, tx *sql.Tx, cols map[string]bool, name, ctype string) error {
	if cols[name] {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE customers ADD COLUMN %s %s", name, ctype)); err != nil {
		return errors.Wrapf(err, "add column %s", name)
	}
	cols[name] = true
	return nil
}
