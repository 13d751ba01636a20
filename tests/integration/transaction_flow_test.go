package integration

import (
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"ledger/internal/events"
	"ledger/internal/models"
)

const salario = `{"type":"Receita","name":"Salário","amount":5000,"category":"Trabalho","date":"2024-01-05"}`

func TestTransactionFlow_CreateThenBalance(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)

	rec := app.request("POST", "/transactions", salario)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)
	if created["name"] != "Salário" || created["amount"].(float64) != 5000 {
		t.Errorf("unexpected record %v", created)
	}

	rec = app.request("GET", "/balance", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["balance"].(float64); got != 5000 {
		t.Errorf("expected balance 5000, got %v", got)
	}
}

func TestTransactionFlow_RoundTrip(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)
	id := app.create(t, salario)

	rec := app.request("GET", "/transactions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := parseJSON(t, rec)
	want := map[string]interface{}{
		"id": id, "type": "Receita", "name": "Salário", "amount": 5000.0, "category": "Trabalho", "date": "2024-01-05",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	list := parseList(t, app.request("GET", "/transactions", ""))
	if len(list) != 1 || list[0].ID != id {
		t.Errorf("expected list with %s, got %v", id, list)
	}
}

func TestTransactionFlow_ConstraintViolationsPersistNothing(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)

	cases := map[string]string{
		"short type":       `{"type":"Re","name":"Salário","amount":1,"category":"Trabalho","date":"2024-01-05"}`,
		"short name":       `{"type":"Receita","name":"S","amount":1,"category":"Trabalho","date":"2024-01-05"}`,
		"negative amount":  `{"type":"Receita","name":"Salário","amount":-1,"category":"Trabalho","date":"2024-01-05"}`,
		"missing category": `{"type":"Receita","name":"Salário","amount":1,"date":"2024-01-05"}`,
		"missing date":     `{"type":"Receita","name":"Salário","amount":1,"category":"Trabalho"}`,
		"blank name":       `{"type":"Receita","name":"   ","amount":1,"category":"Trabalho","date":"2024-01-05"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := app.request("POST", "/transactions", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if code := errorCode(t, rec); code != "VALIDATION_FAILED" {
				t.Errorf("expected VALIDATION_FAILED, got %s", code)
			}
		})
	}

	if list := parseList(t, app.request("GET", "/transactions", "")); len(list) != 0 {
		t.Errorf("expected nothing persisted, got %v", list)
	}
	if got := app.Events.actions(); len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestTransactionFlow_MalformedBody(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)

	rec := app.request("POST", "/transactions", `{"name":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_INPUT" {
		t.Errorf("expected INVALID_INPUT, got %s", code)
	}
}

func TestTransactionFlow_PartialUpdate(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)
	id := app.create(t, salario)

	rec := app.request("PUT", "/transactions/"+id, `{"amount":5500}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)
	if updated["amount"].(float64) != 5500 {
		t.Errorf("expected amount 5500, got %v", updated["amount"])
	}
	for field, want := range map[string]string{"type": "Receita", "name": "Salário", "category": "Trabalho", "date": "2024-01-05"} {
		if updated[field] != want {
			t.Errorf("expected %s %q preserved, got %v", field, want, updated[field])
		}
	}

	rec = app.request("PUT", "/transactions/"+id, `{"name":"X"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid update, got %d", rec.Code)
	}
	if got := parseJSON(t, app.request("GET", "/transactions/"+id, "")); got["name"] != "Salário" {
		t.Errorf("invalid update must not change the record, got %v", got)
	}
}

func TestTransactionFlow_DeleteTwice(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)
	id := app.create(t, salario)

	rec := app.request("DELETE", "/transactions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := parseJSON(t, rec)
	if body["ok"] != true || body["message"] != "Transaction deleted" {
		t.Errorf("unexpected delete body %v", body)
	}

	for _, method := range []string{"GET", "DELETE"} {
		rec = app.request(method, "/transactions/"+id, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s after delete: expected 404, got %d", method, rec.Code)
		}
		if code := errorCode(t, rec); code != "TRANSACTION_NOT_FOUND" {
			t.Errorf("%s after delete: expected TRANSACTION_NOT_FOUND, got %s", method, code)
		}
	}

	rec = app.request("PUT", "/transactions/"+id, `{"amount":1}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("update after delete: expected 404, got %d", rec.Code)
	}

	want := []events.Action{events.ActionCreated, events.ActionDeleted}
	if got := app.Events.actions(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected events %v, got %v", want, got)
	}
}

func TestTransactionFlow_MalformedID(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		rec := app.request(method, "/transactions/not-an-id", `{"amount":1}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", method, rec.Code)
		}
		if code := errorCode(t, rec); code != "INVALID_ID" {
			t.Errorf("%s: expected INVALID_ID, got %s", method, code)
		}
	}
}

func TestTransactionFlow_Balance(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)
	app.create(t, `{"type":"Receita","name":"Salário","amount":100,"category":"Trabalho","date":"2024-01-05"}`)
	app.create(t, `{"type":"Despesa","name":"Mercado","amount":30,"category":"Casa","date":"2024-01-06"}`)
	app.create(t, `{"type":"Outro","name":"Ajuste","amount":999,"category":"Casa","date":"2024-01-07"}`)

	if got := parseJSON(t, app.request("GET", "/balance", ""))["balance"].(float64); got != 70 {
		t.Errorf("expected balance 70, got %v", got)
	}
}

func TestTransactionFlow_CategoryFilterIsExact(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)
	app.create(t, `{"type":"Despesa","name":"Mercado","amount":30,"category":"Food","date":"2024-01-06"}`)
	app.create(t, `{"type":"Despesa","name":"Padaria","amount":10,"category":"food","date":"2024-01-06"}`)
	app.create(t, `{"type":"Despesa","name":"Feira","amount":10,"category":"Food & Drink","date":"2024-01-06"}`)

	list := parseList(t, app.request("GET", "/transactions/category/Food", ""))
	if len(list) != 1 || list[0].Name != "Mercado" {
		t.Errorf("expected only Mercado, got %v", list)
	}

	list = parseList(t, app.request("GET", "/transactions/category/Food%20&%20Drink", ""))
	if len(list) != 1 || list[0].Name != "Feira" {
		t.Errorf("expected only Feira, got %v", list)
	}

	if list := parseList(t, app.request("GET", "/transactions/category/Nothing", "")); len(list) != 0 {
		t.Errorf("expected empty list, got %v", list)
	}
}

func TestTransactionFlow_TypeFilterIsCaseInsensitiveSubstring(t *testing.T) {
	app := setupApp(t, models.VocabularyEntrada)
	for i, typ := range []string{"entrada", "ENTRADA123", "saida", "Entradas extra"} {
		app.create(t, fmt.Sprintf(`{"type":%q,"name":"Item %d","amount":1,"category":"Geral","date":"2024-01-05"}`, typ, i))
	}

	list := parseList(t, app.request("GET", "/transactions/type/entrada", ""))
	if len(list) != 3 {
		t.Errorf("expected 3 entrada matches, got %v", list)
	}
	list = parseList(t, app.request("GET", "/transactions/type/saida", ""))
	if len(list) != 1 {
		t.Errorf("expected 1 saida match, got %v", list)
	}

	rec := app.request("GET", "/transactions/type/Receita", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected no route for a variant outside the vocabulary, got %d", rec.Code)
	}
}

func TestTransactionFlow_RootAndHealth(t *testing.T) {
	app := setupApp(t, models.VocabularyReceita)

	rec := app.request("GET", "/", "")
	if rec.Code != http.StatusOK || parseJSON(t, rec)["message"] != "API running" {
		t.Errorf("unexpected root response %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/health", "")
	if rec.Code != http.StatusOK || parseJSON(t, rec)["status"] != "ok" {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}
