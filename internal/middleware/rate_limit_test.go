package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/userboard/pkg/http"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func post(handler http.Handler, remoteAddr, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/cache/clear", nil)
	req.RemoteAddr = remoteAddr
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimitByIP_EnforcesLimit(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 3})(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, post(handler, "192.0.2.1:1000", "").Code, "request %d", i+1)
	}

	w := post(handler, "192.0.2.1:1000", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"rate_limit_exceeded","message":"Too many requests"}`, w.Body.String())
}

func TestRateLimitByIP_IsolatesClients(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1})(okHandler())

	assert.Equal(t, http.StatusNoContent, post(handler, "192.0.2.1:1000", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(handler, "192.0.2.1:1000", "").Code)
	assert.Equal(t, http.StatusNoContent, post(handler, "192.0.2.2:1000", "").Code)
}

func TestRateLimitByIP_SpoofedHeaderIgnored(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{RequestsPerMinute: 1})(okHandler())

	assert.Equal(t, http.StatusNoContent, post(handler, "192.0.2.9:1000", "198.51.100.1").Code)
	// a new X-Forwarded-For from an untrusted peer does not open a new bucket
	assert.Equal(t, http.StatusTooManyRequests, post(handler, "192.0.2.9:1000", "198.51.100.2").Code)
}

func TestRateLimitByIP_TrustedProxyKeysByForwardedIP(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{
		RequestsPerMinute: 1,
		IPConfig:          pkghttp.NewIPConfig([]string{"10.0.0.0/8"}),
	})(okHandler())

	assert.Equal(t, http.StatusNoContent, post(handler, "10.1.1.1:1000", "198.51.100.1").Code)
	assert.Equal(t, http.StatusNoContent, post(handler, "10.1.1.1:1000", "198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(handler, "10.1.1.1:1000", "198.51.100.1").Code)
}

func TestRateLimitByIP_ZeroLimitUsesDefault(t *testing.T) {
	handler := RateLimitByIP(RateLimitConfig{})(okHandler())

	for i := 0; i < DefaultCacheRateLimit().RequestsPerMinute; i++ {
		assert.Equal(t, http.StatusNoContent, post(handler, "192.0.2.50:1000", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, post(handler, "192.0.2.50:1000", "").Code)
}
