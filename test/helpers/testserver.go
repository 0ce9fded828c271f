package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/app"
	"github.com/loki1512/MS-Fitness-Gym/internal/config"
	"github.com/loki1512/MS-Fitness-Gym/internal/email"

	"gorm.io/gorm"
)

// TestDatabaseEnv names the variable holding the DSN of a disposable
// PostgreSQL database. Integration tests skip when it is unset.
const TestDatabaseEnv = "TEST_DATABASE_URL"

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Mail   *app.LogEmailProvider
	Config *config.Config
}

// TestConfig is the configuration the integration server runs with.
func TestConfig(dsn string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = database.DriverPostgres
	cfg.Database.DSN = dsn
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLife = time.Minute
	cfg.Database.AutoMigrate = true
	cfg.JWT.Secret = "integration_test_secret_key_12345"
	cfg.JWT.TTL = 60
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

// NewTestServer migrates the test database and serves the full router
// through httptest.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s is not set", TestDatabaseEnv)
	}

	cfg := TestConfig(dsn)
	app.Configure(cfg)

	db, err := app.OpenDatabase(t.Context(), cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	templates, err := email.NewDefaultTemplateManager("")
	if err != nil {
		t.Fatalf("failed to load email templates: %v", err)
	}
	mail := app.NewLogEmailProvider(templates)
	router := app.SetupRouter(cfg, db, mail)
	server := httptest.NewServer(router)

	log.Printf("test server listening on %s", server.URL)

	return &TestServer{
		Server: server,
		DB:     db,
		Mail:   mail,
		Config: cfg,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables empties every application table and restores the role rows.
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()

	err := ts.DB.Exec("TRUNCATE TABLE payments, memberships, user_roles, users, plans, roles CASCADE").Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	if err := database.SeedRoles(ts.DB); err != nil {
		t.Fatalf("failed to reseed roles: %v", err)
	}
}

// SendRequest issues a JSON request and returns the response with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	return res, string(resBody)
}

// DecodeJSON unmarshals a response body or fails the test.
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
}
