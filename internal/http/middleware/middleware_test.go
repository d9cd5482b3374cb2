package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	engine := newTestEngine()
	engine.Use(RequestID())

	var ctxID string
	engine.GET("/ping", func(c *gin.Context) {
		ctxID, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	engine.ServeHTTP(rec, req)

	headerID := rec.Header().Get(HeaderRequestID)
	if headerID == "" {
		t.Fatal("expected X-Request-Id header to be set")
	}
	if _, err := uuid.Parse(headerID); err != nil {
		t.Fatalf("expected a UUID request ID, got %q", headerID)
	}
	if ctxID != headerID {
		t.Errorf("context request ID = %q, header = %q", ctxID, headerID)
	}
}

func TestRequestIDKeepsClientProvidedID(t *testing.T) {
	engine := newTestEngine()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "upstream-id-123")
	engine.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "upstream-id-123" {
		t.Errorf("expected upstream request ID to be kept, got %q", got)
	}
}

func TestLoggerWithContextPicksUpRequestID(t *testing.T) {
	log := logger.New("development")

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	if got := log.WithContext(ctx); got == log {
		t.Error("expected WithContext to return a derived logger when a request ID is present")
	}
	if got := log.WithContext(context.Background()); got != log {
		t.Error("expected WithContext to return the same logger without a request ID")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		wantOK bool
	}{
		{"empty header", "", "", false},
		{"missing scheme", "abc123", "", false},
		{"wrong scheme", "Basic abc123", "", false},
		{"valid", "Bearer abc123", "abc123", true},
		{"case insensitive scheme", "bearer abc123", "abc123", true},
		{"blank token", "Bearer   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractBearerToken(tt.header)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("extractBearerToken(%q) = (%q, %v), want (%q, %v)",
					tt.header, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
