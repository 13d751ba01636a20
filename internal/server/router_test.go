package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"ledger/internal/models"
	"ledger/internal/repository"
	"ledger/internal/services"
	"ledger/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_TypeRoutesFollowVocabulary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	testutil.CreateTestTransaction(t, db, "ENTRADA123", 10)
	testutil.CreateTestTransaction(t, db, "saida", 5)

	svc := services.NewTransactionService(repository.NewGormStore(db), models.VocabularyEntrada, nil)
	r := NewRouter(svc, Options{CORSOrigin: "http://localhost:4200"})

	rec := serve(r, http.MethodGet, "/transactions/type/entrada", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var txs []models.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != "ENTRADA123" {
		t.Errorf("unexpected result: %+v", txs)
	}

	if rec := serve(r, http.MethodGet, "/transactions/type/saida", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200 for expense route, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/transactions/type/Receita", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a variant outside the vocabulary, got %d", rec.Code)
	}
}

func TestNewRouter_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	created := testutil.CreateTestTransactionInCategory(t, db, "Receita", 100, "Work")

	svc := services.NewTransactionService(repository.NewGormStore(db), models.VocabularyReceita, nil)
	r := NewRouter(svc, Options{CORSOrigin: "http://localhost:4200"})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/transactions", "", http.StatusOK},
		{http.MethodGet, "/transactions/" + created.ID, "", http.StatusOK},
		{http.MethodGet, "/transactions/bogus", "", http.StatusBadRequest},
		{http.MethodGet, "/transactions/category/Work", "", http.StatusOK},
		{http.MethodGet, "/transactions/type/Receita", "", http.StatusOK},
		{http.MethodGet, "/transactions/type/Despesa", "", http.StatusOK},
		{http.MethodGet, "/balance", "", http.StatusOK},
		{http.MethodPut, "/transactions/" + created.ID, `{"name":"Bonus"}`, http.StatusOK},
		{http.MethodOptions, "/transactions", "", http.StatusNoContent},
		{http.MethodDelete, "/transactions/" + created.ID, "", http.StatusOK},
		{http.MethodDelete, "/transactions/" + created.ID, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := serve(r, tt.method, tt.path, tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.want, rec.Code, rec.Body.String())
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
			t.Errorf("%s %s: missing CORS header", tt.method, tt.path)
		}
	}
}

func TestNewRouter_Swagger(t *testing.T) {
	svc := services.NewTransactionService(repository.Unavailable(nil), models.VocabularyReceita, nil)

	r := NewRouter(svc, Options{Swagger: true})
	if rec := serve(r, http.MethodGet, "/swagger/doc.json", ""); rec.Code != http.StatusOK {
		t.Errorf("expected swagger doc to be served, got %d", rec.Code)
	}

	r = NewRouter(svc, Options{})
	if rec := serve(r, http.MethodGet, "/swagger/doc.json", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected swagger to be disabled, got %d", rec.Code)
	}
}

func TestNewRouter_UnavailableStore(t *testing.T) {
	svc := services.NewTransactionService(repository.Unavailable(nil), models.VocabularyReceita, nil)
	r := NewRouter(svc, Options{})

	if rec := serve(r, http.MethodGet, "/", ""); rec.Code != http.StatusOK {
		t.Errorf("expected root to stay up, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/transactions", ""); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/health", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestNewRouter_CategoryWithSlash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	rent := testutil.CreateTestTransactionInCategory(t, db, "Despesa", 1200, "Casa/Aluguel")
	testutil.CreateTestTransactionInCategory(t, db, "Despesa", 80, "Casa")

	svc := services.NewTransactionService(repository.NewGormStore(db), models.VocabularyReceita, nil)
	r := NewRouter(svc, Options{})

	rec := serve(r, http.MethodGet, "/transactions/category/Casa%2FAluguel", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var txs []models.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != rent.ID {
		t.Errorf("expected only %s, got %+v", rent.ID, txs)
	}

	if rec := serve(r, http.MethodGet, "/transactions/category/Casa%20Nova", ""); rec.Code != http.StatusOK {
		t.Errorf("expected escaped spaces to keep routing, got %d", rec.Code)
	}
}
