package sqlitecustomer

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/redirectcode"
)

type Storage struct {
	db      *sql.DB
	newCode redirectcode.Generator
	now     func() time.Time
}

type Option func(*Storage)

// WithCodeGenerator replaces the redirect code source.
func WithCodeGenerator(g redirectcode.Generator) Option {
	return func(s *Storage) { s.newCode = g }
}

func New(path string, opts ...Option) (*Storage, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}

	s := &Storage{
		db:      db,
		newCode: redirectcode.Generate,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}

	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}
