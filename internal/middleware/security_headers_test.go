package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveWithHeaders(env string, req *http.Request) *httptest.ResponseRecorder {
	handler := SecurityHeaders(SecurityHeadersConfig{Env: env})(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSecurityHeaders_Always(t *testing.T) {
	w := serveWithHeaders("development", httptest.NewRequest("GET", "/users", nil))

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
		{"Cache-Control", "no-store"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, w.Header().Get(tt.header), tt.header)
	}
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_HSTSOnlyForHTTPSInProduction(t *testing.T) {
	req := httptest.NewRequest("GET", "/users", nil)
	assert.Empty(t, serveWithHeaders("production", req).Header().Get("Strict-Transport-Security"))

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "max-age=31536000; includeSubDomains",
		serveWithHeaders("production", req).Header().Get("Strict-Transport-Security"))

	req = httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Empty(t, serveWithHeaders("development", req).Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeaders_NoStoreOnlyOnGet(t *testing.T) {
	w := serveWithHeaders("development", httptest.NewRequest("POST", "/cache/clear", nil))
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
