package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "ledger/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		errType    gin.ErrorType
		wantStatus int
		wantCode   string
	}{
		{
			name:       "app_error",
			err:        apperrors.ErrTransactionNotFound,
			errType:    gin.ErrorTypePrivate,
			wantStatus: http.StatusNotFound,
			wantCode:   "TRANSACTION_NOT_FOUND",
		},
		{
			name:       "bind_error",
			err:        errors.New("invalid character"),
			errType:    gin.ErrorTypeBind,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "unexpected_error",
			err:        errors.New("boom"),
			errType:    gin.ErrorTypePrivate,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/test", func(c *gin.Context) {
				_ = c.Error(tt.err).SetType(tt.errType)
			})

			rec := performRequest(r, http.MethodGet, "/test", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			errObj := decodeBody(t, rec)["error"].(map[string]interface{})
			if errObj["code"] != tt.wantCode {
				t.Errorf("expected code %q, got %v", tt.wantCode, errObj["code"])
			}
		})
	}

	t.Run("written_response_untouched", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			_ = c.Error(errors.New("late"))
		})

		rec := performRequest(r, http.MethodGet, "/test", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if decodeBody(t, rec)["status"] != "ok" {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}

func TestRequestLogging(t *testing.T) {
	setup := func(seen *string) *gin.Engine {
		r := gin.New()
		r.Use(RequestLogging())
		r.GET("/test", func(c *gin.Context) {
			*seen = RequestID(c)
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("mints_id", func(t *testing.T) {
		var seen string
		rec := performRequest(setup(&seen), http.MethodGet, "/test", nil)

		got := rec.Header().Get("X-Request-ID")
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("expected UUID request ID, got %q", got)
		}
		if seen != got {
			t.Errorf("expected context ID %q to match header %q", seen, got)
		}
	})

	t.Run("reuses_valid_incoming_id", func(t *testing.T) {
		var seen string
		incoming := uuid.New().String()
		rec := performRequest(setup(&seen), http.MethodGet, "/test", http.Header{"X-Request-Id": {incoming}})

		if got := rec.Header().Get("X-Request-ID"); got != incoming {
			t.Errorf("expected %q, got %q", incoming, got)
		}
	})

	t.Run("replaces_malformed_incoming_id", func(t *testing.T) {
		var seen string
		rec := performRequest(setup(&seen), http.MethodGet, "/test", http.Header{"X-Request-Id": {"<script>"}})

		if got := rec.Header().Get("X-Request-ID"); got == "<script>" {
			t.Error("expected malformed request ID to be replaced")
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:4200"))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("sets_headers", func(t *testing.T) {
		rec := performRequest(r, http.MethodGet, "/test", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
			t.Errorf("unexpected origin %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, PATCH, DELETE, OPTIONS" {
			t.Errorf("unexpected methods %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
			t.Errorf("unexpected headers %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		rec := performRequest(r, http.MethodOptions, "/test", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
