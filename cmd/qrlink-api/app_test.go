package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/BearBump/QRLink/config"
	qrfake "github.com/BearBump/QRLink/internal/integrations/qrcode/fake"
	"github.com/BearBump/QRLink/internal/services/customers"
	"github.com/BearBump/QRLink/internal/storage/sqlitecustomer"
)

func newTestService(t *testing.T) *customers.Service {
	t.Helper()
	st, err := sqlitecustomer.New(filepath.Join(t.TempDir(), "customers.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return customers.New(st, qrfake.New(), nil, nil, customers.Config{BaseURL: "http://localhost:8000"})
}

func TestRunQRLinkAPI_SwaggerServed(t *testing.T) {
	dir := t.TempDir()
	sw := filepath.Join(dir, "swagger.json")
	require.NoError(t, os.WriteFile(sw, []byte(`{"swagger":"2.0"}`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	opts := qrlinkAPIOpts{
		httpAddr:    "127.0.0.1:0",
		swaggerPath: sw,
		onListen:    func(httpAddr string) { addrCh <- httpAddr },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- runQRLinkAPI(ctx, opts, newTestService(t), nil)
	}()

	httpAddr := <-addrCh

	resp, err := http.Get("http://" + httpAddr + "/swagger.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Contains(t, string(body), "\"swagger\"")

	resp2, err := http.Get("http://" + httpAddr + "/healthz")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, 200, resp2.StatusCode)

	cancel()
	select {
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting server to stop")
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestRunQRLinkAPI_NoSwagger(t *testing.T) {
	h := newRouter(qrlinkAPIOpts{}, newTestService(t), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger.json", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunQRLinkAPI_MissingSwaggerFile(t *testing.T) {
	err := runQRLinkAPI(context.Background(), qrlinkAPIOpts{
		httpAddr:    "127.0.0.1:0",
		swaggerPath: filepath.Join(t.TempDir(), "missing.json"),
	}, newTestService(t), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "swagger file not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &config.Config{}
	applyDefaults(cfg)

	require.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	require.Equal(t, defaultSQLitePath, cfg.Database.Path)
	require.Equal(t, ":8000", cfg.QRLink.HTTPAddr)
	require.Equal(t, "http://localhost:8000", cfg.QRLink.BaseURL)
	require.Equal(t, 600, cfg.QRLink.RedirectCacheTTLSeconds)
	require.Equal(t, 600, cfg.QRLink.RedirectRateLimitPerMinute)
	require.Equal(t, "qrlink.customer_events", cfg.Kafka.CustomerEventsTopicName)

	cfg = &config.Config{QRLink: config.QRLinkConfig{HTTPAddr: ":9000", BaseURL: "http://10.0.0.5:9000"}}
	applyDefaults(cfg)
	require.Equal(t, "http://10.0.0.5:9000", cfg.QRLink.BaseURL)
}

func TestMustOpenStore_UnknownDriver(t *testing.T) {
	require.Panics(t, func() { mustOpenStore(config.DatabaseConfig{Driver: "mysql"}) })
}

func TestBootstrap_SQLiteWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := strings.Cut(mr.Addr(), ":")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
database:
  driver: sqlite
  path: `+filepath.Join(dir, "customers.db")+`
redis:
  host: `+host+`
  port: `+port+`
qrlink:
  http_addr: "127.0.0.1:0"
  base_url: "http://qr.example.test"
`), 0o600))
	t.Setenv("configPath", cfgPath)
	t.Setenv("swaggerPath", "")

	app := mustBootstrapQRLinkAPI()
	require.NotNil(t, app.limiter)
	require.Equal(t, "http://qr.example.test", app.svc.BaseURL())

	addrCh := make(chan string, 1)
	app.opts.onListen = func(addr string) { addrCh <- addr }

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run() }()
	addr := <-addrCh

	resp, err := http.Post("http://"+addr+"/api/customers", "application/json",
		strings.NewReader(`{"first_name":"Ada","qr_url":"https://example.com/ada"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	app.Close()
	select {
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting app to stop")
	case <-errCh:
	}
}

func TestBootstrap_RequiresConfigPath(t *testing.T) {
	t.Setenv("configPath", "")
	require.Panics(t, func() { mustBootstrapQRLinkAPI() })
}
