package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/userboard/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP(t *testing.T) {
	trusted := pkghttp.NewIPConfig([]string{"10.0.0.0/8", "::1/128", "not-a-cidr"})

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		config     *pkghttp.IPConfig
		want       string
	}{
		{"direct client ignores headers", "203.0.113.10:54321", "1.2.3.4", "192.168.1.1", trusted, "203.0.113.10"},
		{"trusted proxy uses first forwarded ip", "10.0.0.5:54321", "203.0.113.42, 203.0.113.43, 10.0.0.5", "", trusted, "203.0.113.42"},
		{"trusted proxy skips garbage entries", "10.0.0.5:1", "garbage, 203.0.113.7", "", trusted, "203.0.113.7"},
		{"trusted proxy falls back to x-real-ip", "10.0.0.5:1", "", "203.0.113.9", trusted, "203.0.113.9"},
		{"ipv6 trusted proxy", "[::1]:54321", "2001:db8::1", "", trusted, "2001:db8::1"},
		{"nil config", "203.0.113.10:54321", "1.2.3.4", "", nil, "203.0.113.10"},
		{"empty config", "203.0.113.10:54321", "1.2.3.4", "", pkghttp.NewIPConfig(nil), "203.0.113.10"},
		{"localhost claim from outside", "203.0.113.10:54321", "127.0.0.1", "", trusted, "203.0.113.10"},
		{"remote addr without port", "203.0.113.10", "", "", trusted, "203.0.113.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.want, pkghttp.ExtractClientIP(req, tt.config))
		})
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/users?page=3&bad=x&big=500", nil)

	n, err := pkghttp.QueryInt(req, "page", 1, 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = pkghttp.QueryInt(req, "missing", 1, 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = pkghttp.QueryInt(req, "bad", 1, 1, 100)
	assert.EqualError(t, err, "bad must be an integer")

	_, err = pkghttp.QueryInt(req, "big", 1, 1, 100)
	assert.EqualError(t, err, "big must be between 1 and 100")
}
