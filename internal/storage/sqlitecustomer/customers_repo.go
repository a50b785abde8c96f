package sqlitecustomer

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/models"
)

const maxCodeAttempts = 5

var trackingColumns = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"tracking_id", "notes", "category", "store_number", "location_id",
}

const customerColumns = `id, first_name, last_name, email, phone_number, company_name,
  qr_url, redirect_code, created_at, updated_at`

// Legacy rows store created_at as "T"-separated ISO text, so ordering
// goes through julianday instead of comparing strings.
const newestFirst = ` ORDER BY julianday(created_at) DESC, id DESC`

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

		res, err := s.db.ExecContext(ctx, `
INSERT INTO customers (
  first_name, last_name, email, phone_number, company_name, qr_url, redirect_code, created_at,
  utm_source, utm_medium, utm_campaign, utm_term, utm_content,
  tracking_id, notes, category, store_number, location_id
)
VALUES (?,?,?,?,?,?,?,?, ?,?,?,?,?, ?,?,?,?,?)
`, in.FirstName, in.LastName, in.Email, in.PhoneNumber, in.CompanyName, in.QRURL, code, now,
			t.UTMSource, t.UTMMedium, t.UTMCampaign, t.UTMTerm, t.UTMContent,
			t.TrackingID, t.Notes, t.Category, t.StoreNumber, t.LocationID)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, errors.Wrap(err, "insert customer")
		}

		id, err := res.LastInsertId()
		if err != nil {
			return nil, errors.Wrap(err, "last insert id")
		}
		return &models.CustomerCreated{ID: id, RedirectCode: code, CreatedAt: now}, nil
	}
	return nil, errors.Errorf("insert customer: redirect code collided %d times", maxCodeAttempts)
}

func (s *Storage) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.queryCustomers(ctx, `SELECT `+customerColumns+` FROM customers`+newestFirst)
}

func (s *Storage) SearchCustomers(ctx context.Context, f models.CustomerSearchFilter) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE 1=1`
	var args []any
	for _, c := range []struct{ col, v string }{
		{"company_name", f.CompanyName},
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
	} {
		if strings.TrimSpace(c.v) == "" {
			continue
		}
		query += ` AND LOWER(COALESCE(` + c.col + `, '')) LIKE ? ESCAPE '\'`
		args = append(args, likePattern(c.v))
	}
	query += newestFirst
	return s.queryCustomers(ctx, query, args...)
}

func (s *Storage) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
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

	var code sql.NullString
	var err error
	if in.IsEmpty() {
		err = s.db.QueryRowContext(ctx, `SELECT redirect_code FROM customers WHERE id = ?`, id).Scan(&code)
	} else {
		sets, args := updateSet(in)
		sets = append(sets, "updated_at = ?")
		args = append(args, s.now(), id)
		err = s.db.QueryRowContext(ctx,
			`UPDATE customers SET `+strings.Join(sets, ", ")+` WHERE id = ? RETURNING redirect_code`,
			args...).Scan(&code)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "update customer")
	}
	return code.String, nil
}

func (s *Storage) DeleteCustomer(ctx context.Context, id int64) (string, bool, error) {
	var code sql.NullString
	err := s.db.QueryRowContext(ctx, `DELETE FROM customers WHERE id = ? RETURNING redirect_code`, id).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "delete customer")
	}
	return code.String, true, nil
}

func (s *Storage) FindQRURLByRedirectCode(ctx context.Context, code string) (string, error) {
	var qrURL sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT qr_url FROM customers WHERE redirect_code = ?`, code).Scan(&qrURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "select by redirect code")
	}
	if !qrURL.Valid || qrURL.String == "" {
		return "", models.ErrNotFound
	}
	return qrURL.String, nil
}

func (s *Storage) queryCustomers(ctx context.Context, query string, args ...any) ([]*models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(r rowScanner) (*models.Customer, error) {
	var c models.Customer
	var firstName, lastName, email, phone, company, qrURL, code sql.NullString
	var createdAt, updatedAt sql.NullTime
	if err := r.Scan(&c.ID, &firstName, &lastName, &email, &phone, &company,
		&qrURL, &code, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.FirstName = firstName.String
	c.LastName = nullable(lastName)
	c.Email = nullable(email)
	c.PhoneNumber = nullable(phone)
	c.CompanyName = nullable(company)
	c.QRURL = qrURL.String
	c.RedirectCode = code.String
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time.UTC()
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		c.UpdatedAt = &t
	}
	return &c, nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func updateSet(in models.CustomerUpdateInput) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
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
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(v))) + "%"
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
