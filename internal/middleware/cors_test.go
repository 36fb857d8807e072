package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	setup := func(origin string) *gin.Engine {
		r := gin.New()
		r.Use(CORS(origin))
		r.GET("/data", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	t.Run("preflight", func(t *testing.T) {
		rec := serve(setup("*"), httptest.NewRequest(http.MethodOptions, "/data", http.NoBody))
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected wildcard origin")
		}
		if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
			t.Error("expected no credentials with a wildcard origin")
		}
	})

	t.Run("specific_origin", func(t *testing.T) {
		rec := serve(setup("http://localhost:3000"), httptest.NewRequest(http.MethodGet, "/data", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Errorf("unexpected origin %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
		if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("expected credentials to be allowed")
		}
	})
}
