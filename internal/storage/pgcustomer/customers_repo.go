package pgcustomer

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/models"
)

const (
	maxCodeAttempts = 5

	pgUniqueViolation = "23505"
)

const customerColumns = `id, first_name, last_name, email, phone_number, company_name,
  qr_url, redirect_code, created_at, updated_at`

func (s *Storage) CreateCustomer(ctx context.Context, in models.CustomerCreateInput) (*models.CustomerCreated, error) {
	if err := models.ValidateCreate(in); err != nil {
		return nil, err
	}

	now := s.now()
	t := in.Tracking
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}

		var id int64
		err = s.db.QueryRow(ctx, `
INSERT INTO customers (
  first_name, last_name, email, phone_number, company_name, qr_url, redirect_code, created_at,
  utm_source, utm_medium, utm_campaign, utm_term, utm_content,
  tracking_id, notes, category, store_number, location_id
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8, $9,$10,$11,$12,$13, $14,$15,$16,$17,$18)
RETURNING id
`, in.FirstName, in.LastName, in.Email, in.PhoneNumber, in.CompanyName, in.QRURL, code, now,
			t.UTMSource, t.UTMMedium, t.UTMCampaign, t.UTMTerm, t.UTMContent,
			t.TrackingID, t.Notes, t.Category, t.StoreNumber, t.LocationID).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, errors.Wrap(err, "insert customer")
		}
		return &models.CustomerCreated{ID: id, RedirectCode: code, CreatedAt: now}, nil
	}
	return nil, errors.Errorf("insert customer: redirect code collided %d times", maxCodeAttempts)
}

func (s *Storage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.queryCustomers(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC, id DESC`)
}

func (s *Storage) SearchCustomers(ctx context.Context, f models.CustomerSearchFilter) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE TRUE`
	var args []any
	for _, c := range []struct{ col, v string }{
		{"company_name", f.CompanyName},
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
	} {
		if strings.TrimSpace(c.v) == "" {
			continue
		}
		args = append(args, likePattern(c.v))
		query += ` AND COALESCE(` + c.col + `, '') ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return s.queryCustomers(ctx, query, args...)
}

func (s *Storage) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	row := s.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}
	return c, nil
}

func (s *Storage) UpdateCustomer(ctx context.Context, id int64, in models.CustomerUpdateInput) (string, error) {
	if err := models.ValidateUpdate(in); err != nil {
		return "", err
	}

	var code *string
	var err error
	if in.IsEmpty() {
		err = s.db.QueryRow(ctx, `SELECT redirect_code FROM customers WHERE id = $1`, id).Scan(&code)
	} else {
		sets, args := updateSet(in)
		args = append(args, s.now())
		sets = append(sets, "updated_at = $"+strconv.Itoa(len(args)))
		args = append(args, id)
		err = s.db.QueryRow(ctx,
			`UPDATE customers SET `+strings.Join(sets, ", ")+
				` WHERE id = $`+strconv.Itoa(len(args))+` RETURNING redirect_code`,
			args...).Scan(&code)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "update customer")
	}
	return deref(code), nil
}

func (s *Storage) DeleteCustomer(ctx context.Context, id int64) (string, bool, error) {
	var code *string
	err := s.db.QueryRow(ctx, `DELETE FROM customers WHERE id = $1 RETURNING redirect_code`, id).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "delete customer")
	}
	return deref(code), true, nil
}

func (s *Storage) FindQRURLByRedirectCode(ctx context.Context, code string) (string, error) {
	var qrURL *string
	err := s.db.QueryRow(ctx, `SELECT qr_url FROM customers WHERE redirect_code = $1`, code).Scan(&qrURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "select by redirect code")
	}
	if deref(qrURL) == "" {
		return "", models.ErrNotFound
	}
	return *qrURL, nil
}

func (s *Storage) queryCustomers(ctx context.Context, query string, args ...any) ([]*models.Customer, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select customers")
	}
	defer rows.Close()

	out := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func scanCustomer(r pgx.Row) (*models.Customer, error) {
	var c models.Customer
	var qrURL, code *string
	if err := r.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.CompanyName,
		&qrURL, &code, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.QRURL = deref(qrURL)
	c.RedirectCode = deref(code)
	c.CreatedAt = c.CreatedAt.UTC()
	if c.UpdatedAt != nil {
		t := c.UpdatedAt.UTC()
		c.UpdatedAt = &t
	}
	return &c, nil
}

func updateSet(in models.CustomerUpdateInput) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
		}
	}
	add("company_name", in.CompanyName)
	add("first_name", in.FirstName)
	add("last_name", in.LastName)
	add("email", in.Email)
	add("phone_number", in.PhoneNumber)
	add("qr_url", in.QRURL)
	for _, col := range in.Clear {
		sets = append(sets, col+" = NULL")
	}
	return sets, args
}

func likePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(v)) + "%"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
