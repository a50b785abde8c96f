package pgcustomer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BearBump/QRLink/internal/models"
	"github.com/BearBump/QRLink/internal/redirectcode"
)

func strPtr(s string) *string { return &s }

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "admin",
			"POSTGRES_PASSWORD": "admin",
			"POSTGRES_DB":       "qrlink_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return "postgres://admin:admin@" + host + ":" + port.Port() + "/qrlink_test?sslmode=disable"
}

func TestPGCustomers_RepoFlow(t *testing.T) {
	ctx := context.Background()
	dsn := startPostgres(t)

	codes := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	i := 0
	st, err := New(dsn, WithCodeGenerator(func() (string, error) {
		if i < len(codes) {
			i++
			return codes[i-1], nil
		}
		return redirectcode.Generate()
	}))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	ada, err := st.CreateCustomer(ctx, models.CustomerCreateInput{
		FirstName:   "Ada",
		Email:       strPtr("ada@example.com"),
		CompanyName: strPtr("Acme"),
		QRURL:       "https://example.com/ada",
		Tracking:    models.Tracking{UTMCampaign: strPtr("launch")},
	})
	require.NoError(t, err)
	require.Equal(t, "aaaaaaaa", ada.RedirectCode)

	// Second insert collides once and retries.
	bob, err := st.CreateCustomer(ctx, models.CustomerCreateInput{FirstName: "Bob", QRURL: "https://example.com/bob"})
	require.NoError(t, err)
	require.Equal(t, "bbbbbbbb", bob.RedirectCode)

	_, err = st.CreateCustomer(ctx, models.CustomerCreateInput{FirstName: " ", QRURL: "https://x"})
	require.True(t, models.IsValidationError(err))

	list, err := st.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, bob.ID, list[0].ID)

	found, err := st.SearchCustomers(ctx, models.CustomerSearchFilter{CompanyName: "ACM"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, ada.ID, found[0].ID)

	url, err := st.FindQRURLByRedirectCode(ctx, ada.RedirectCode)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/ada", url)

	code, err := st.UpdateCustomer(ctx, ada.ID, models.CustomerUpdateInput{QRURL: strPtr("https://example.com/ada-v2")})
	require.NoError(t, err)
	require.Equal(t, ada.RedirectCode, code)

	got, err := st.GetCustomer(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/ada-v2", got.QRURL)
	require.Equal(t, "ada@example.com", *got.Email)
	require.NotNil(t, got.UpdatedAt)
	require.WithinDuration(t, ada.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = st.UpdateCustomer(ctx, 424242, models.CustomerUpdateInput{FirstName: strPtr("X")})
	require.ErrorIs(t, err, models.ErrNotFound)

	code, deleted, err := st.DeleteCustomer(ctx, ada.ID)
	require.NoError(t, err)
	require.True(t, deleted)
	require.Equal(t, ada.RedirectCode, code)

	_, deleted, err = st.DeleteCustomer(ctx, ada.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	_, err = st.FindQRURLByRedirectCode(ctx, ada.RedirectCode)
	require.ErrorIs(t, err, models.ErrNotFound)
	_, err = st.GetCustomer(ctx, ada.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	// Reopening against a migrated database is a no-op.
	st2, err := New(dsn)
	require.NoError(t, err)
	st2.Close()

	var n int
	require.NoError(t, st.db.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	require.Equal(t, len(migrations), n)
}
