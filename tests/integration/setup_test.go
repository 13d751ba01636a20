package integration

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"ledger/internal/config"
	"ledger/internal/database"
	"ledger/internal/events"
	"ledger/internal/logger"
	"ledger/internal/models"
	"ledger/internal/repository"
	"ledger/internal/server"
	"ledger/internal/services"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store  repository.Store
	Router *gin.Engine
	Events *eventLog
}

// eventLog is a Publisher that keeps every event in memory.
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) Publish(_ context.Context, e events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *eventLog) Close() error { return nil }

func (l *eventLog) actions() []events.Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]events.Action, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Action)
	}
	return out
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupApp builds the stack over a migrated SQLite file in a temp dir.
func setupApp(t *testing.T, vocab models.TypeVocabulary) *testApp {
	t.Helper()

	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "ledger.db"),
		MigrationsPath: filepath.Join("..", "..", "migrations"),
	}
	store, closeStore, err := database.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = closeStore(context.Background()) })

	return newApp(store, vocab)
}

func newApp(store repository.Store, vocab models.TypeVocabulary) *testApp {
	log := &eventLog{}
	svc := services.NewTransactionService(store, vocab, log)
	router := server.NewRouter(svc, server.Options{CORSOrigin: "http://localhost:4200"})
	return &testApp{Store: store, Router: router, Events: log}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// parseList parses the response body into a list of transactions.
func parseList(t *testing.T, rec *httptest.ResponseRecorder) []models.Transaction {
	t.Helper()
	var result []models.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON list: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := parseJSON(t, rec)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// create posts body and returns the new record's ID.
func (app *testApp) create(t *testing.T, body string) string {
	t.Helper()
	rec := app.request("POST", "/transactions", body)
	if rec.Code != 201 {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	id, _ := parseJSON(t, rec)["id"].(string)
	if id == "" {
		t.Fatalf("create returned no id: %s", rec.Body.String())
	}
	return id
}
