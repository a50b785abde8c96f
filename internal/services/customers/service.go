package customers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/BearBump/QRLink/internal/broker/messages"
	"github.com/BearBump/QRLink/internal/cache"
	"github.com/BearBump/QRLink/internal/integrations/qrcode"
	"github.com/BearBump/QRLink/internal/models"
)

type Repository interface {
	CreateCustomer(ctx context.Context, in models.CustomerCreateInput) (*models.CustomerCreated, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	SearchCustomers(ctx context.Context, f models.CustomerSearchFilter) ([]*models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in models.CustomerUpdateInput) (string, error)
	DeleteCustomer(ctx context.Context, id int64) (string, bool, error)
	FindQRURLByRedirectCode(ctx context.Context, code string) (string, error)
}

type EventPublisher interface {
	PublishCustomerEvent(ctx context.Context, topic string, ev messages.CustomerEvent) error
}

type Config struct {
	// BaseURL is the public prefix of redirect links, e.g. http://192.168.1.10:8000.
	BaseURL string
	// CacheTTL of resolved redirects; zero disables the cache.
	CacheTTL time.Duration
	// EventsTopic; empty disables publishing.
	EventsTopic string
	// InvalidationHold is how long an updated or deleted code stays
	// uncacheable. It must outlast the slowest store read.
	InvalidationHold time.Duration
}

const (
	defaultInvalidationHold = 30 * time.Second

	// Not a valid URL, so it never collides with a cached destination.
	redirectTombstone = "\x00"
)

type Service struct {
	repo   Repository
	qr     qrcode.Encoder
	cache  cache.BytesCache
	events EventPublisher
	cfg    Config
	now    func() time.Time
}

// New wires the service. cache and events may be nil.
func New(repo Repository, qr qrcode.Encoder, c cache.BytesCache, events EventPublisher, cfg Config) *Service {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Service{
		repo:   repo,
		qr:     qr,
		cache:  c,
		events: events,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type CreateResult struct {
	ID           int64
	RedirectCode string
	RedirectURL  string
	QRImage      []byte
	CreatedAt    time.Time
}

func (s *Service) BaseURL() string {
	return s.cfg.BaseURL
}

func (s *Service) RedirectURL(code string) string {
	return s.cfg.BaseURL + "/r/" + code
}

func (s *Service) CreateCustomer(ctx context.Context, in models.CustomerCreateInput) (*CreateResult, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.QRURL = strings.TrimSpace(in.QRURL)
	if err := models.ValidateCreate(in); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCustomer(ctx, in)
	if err != nil {
		return nil, err
	}

	redirectURL := s.RedirectURL(created.RedirectCode)
	png, err := s.qr.EncodePNG(ctx, redirectURL)
	if err != nil {
		// Без картинки запись бесполезна: откатываем вручную.
		if _, _, derr := s.repo.DeleteCustomer(ctx, created.ID); derr != nil {
			slog.WarnContext(ctx, "rollback customer after qr failure", "id", created.ID, "err", derr)
		}
		return nil, errors.Wrap(err, "generate qr code")
	}

	s.publish(ctx, messages.CustomerCreated, created.ID, created.RedirectCode)

	return &CreateResult{
		ID:           created.ID,
		RedirectCode: created.RedirectCode,
		RedirectURL:  redirectURL,
		QRImage:      png,
		CreatedAt:    created.CreatedAt,
	}, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) SearchCustomers(ctx context.Context, f models.CustomerSearchFilter) ([]*models.Customer, error) {
	return s.repo.SearchCustomers(ctx, f)
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	if id <= 0 {
		return nil, models.ErrNotFound
	}
	return s.repo.GetCustomer(ctx, id)
}

// UpdateCustomer writes the supplied fields and returns the unchanged redirect code.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, in models.CustomerUpdateInput) (string, error) {
	if err := models.ValidateUpdate(in); err != nil {
		return "", err
	}
	if id <= 0 {
		return "", models.ErrNotFound
	}

	code, err := s.repo.UpdateCustomer(ctx, id, in)
	if err != nil {
		return "", err
	}
	if in.IsEmpty() {
		return code, nil
	}

	s.invalidate(ctx, code)
	s.publish(ctx, messages.CustomerUpdated, id, code)
	return code, nil
}

// DeleteCustomer reports whether a row was removed. A missing id is not an error.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	code, deleted, err := s.repo.DeleteCustomer(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	s.invalidate(ctx, code)
	s.publish(ctx, messages.CustomerDeleted, id, code)
	return true, nil
}

func (s *Service) ResolveRedirect(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", models.ErrNotFound
	}

	if s.cacheEnabled() {
		b, ok, err := s.cache.Get(ctx, redirectKey(code))
		if err != nil {
			slog.WarnContext(ctx, "redirect cache get", "code", code, "err", err)
		} else if ok && len(b) > 0 && string(b) != redirectTombstone {
			return string(b), nil
		}
	}

	url, err := s.repo.FindQRURLByRedirectCode(ctx, code)
	if err != nil {
		return "", err
	}

	// SetNX never overwrites a tombstone left by a concurrent update or
	// delete, so a stale read cannot repopulate the cache.
	if s.cacheEnabled() {
		if _, err := s.cache.SetNX(ctx, redirectKey(code), []byte(url), s.cfg.CacheTTL); err != nil {
			slog.WarnContext(ctx, "redirect cache set", "code", code, "err", err)
		}
	}
	return url, nil
}

// EncodeQR renders arbitrary text, for clients that need a code outside a customer record.
func (s *Service) EncodeQR(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text", "is required")
	}
	png, err := s.qr.EncodePNG(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "generate qr code")
	}
	return png, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.cfg.CacheTTL > 0
}

// invalidate replaces the cached redirect with a tombstone. Until it
// expires, resolves go to the store and do not fill the cache.
func (s *Service) invalidate(ctx context.Context, code string) {
	if s.cache == nil || code == "" {
		return
	}
	if err := s.cache.Set(ctx, redirectKey(code), []byte(redirectTombstone), s.tombstoneTTL()); err != nil {
		slog.WarnContext(ctx, "redirect cache invalidate", "code", code, "err", err)
	}
}

func (s *Service) tombstoneTTL() time.Duration {
	if s.cfg.InvalidationHold > 0 {
		return s.cfg.InvalidationHold
	}
	return defaultInvalidationHold
}

func (s *Service) publish(ctx context.Context, t messages.CustomerEventType, id int64, code string) {
	if s.events == nil || s.cfg.EventsTopic == "" {
		return
	}
	ev := messages.NewCustomerEvent(t, id, code, s.now())
	if err := s.events.PublishCustomerEvent(ctx, s.cfg.EventsTopic, ev); err != nil {
		slog.WarnContext(ctx, "publish customer event", "type", t, "id", id, "err", err)
	}
}

func redirectKey(code string) string {
	return "redirect:" + code
}
