package logger

import (
	"net/url"
	"sort"
	"strings"
)

// Query parameters whose values are free text typed by a person and may hold
// names or email addresses.
var sensitiveParams = map[string]bool{
	"search": true,
	"q":      true,
	"email":  true,
	"token":  true,
}

// SanitizeQuery returns rawQuery with the values of sensitive parameters
// replaced by [REDACTED]. Parameters are emitted in sorted order. A query
// that cannot be parsed is redacted as a whole.
func SanitizeQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "[REDACTED]"
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			if sensitiveParams[strings.ToLower(k)] && v != "" {
				b.WriteString("[REDACTED]")
			} else {
				b.WriteString(url.QueryEscape(v))
			}
		}
	}
	return b.String()
}

// MaskToken keeps the first four characters of an opaque token such as an
// ETag so log lines can be correlated without exposing the full value
func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-4)
}
