package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", ""},
		{"no sensitive params", "sortBy=age&page=2", "page=2&sortBy=age"},
		{"search redacted", "search=alice%40example.com&filter=female", "filter=female&search=[REDACTED]"},
		{"empty search kept", "search=&page=1", "page=1&search="},
		{"case insensitive name", "Search=bob", "Search=[REDACTED]"},
		{"unparseable", "a=%zz", "[REDACTED]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeQuery(tt.query))
		})
	}
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, `W/"1***`, MaskToken(`W/"1abc`))
	assert.Equal(t, "***", MaskToken("abc"))
	assert.Equal(t, "", MaskToken(""))
}
