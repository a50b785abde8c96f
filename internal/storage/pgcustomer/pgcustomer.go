package pgcustomer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/redirectcode"
)

type Storage struct {
	db      *pgxpool.Pool
	newCode redirectcode.Generator
	now     func() time.Time
}

type Option func(*Storage)

func WithCodeGenerator(g redirectcode.Generator) Option {
	return func(s *Storage) { s.newCode = g }
}

func New(connString string, opts ...Option) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.Wrap(err, "parse pg config")
	}

	db, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect pg")
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
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
