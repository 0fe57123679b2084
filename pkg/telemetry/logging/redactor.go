package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks provider credentials in log attributes.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Pattern names.
const (
	PatternGoogleKey   = "google_api_key"
	PatternKeyParam    = "key_param"
	PatternBearerToken = "bearer_token"
	PatternSecretKey   = "secret_key"
)

// NewRedactor creates a Redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	defs := []struct {
		name        string
		regex       string
		replacement string
	}{
		// Google API keys, e.g. in upstream URLs or error bodies
		{PatternGoogleKey, `AIza[0-9A-Za-z_\-]{20,}`, "AIza***"},
		// ?key=... and &key=... query parameters
		{PatternKeyParam, `([?&]key=)[^&\s"]+`, "${1}***"},
		{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
		{PatternSecretKey, `sk-[a-zA-Z0-9]{8,}`, "sk-***"},
	}

	r := &Redactor{}
	for _, d := range defs {
		r.patterns = append(r.patterns, redactPattern{
			name:        d.name,
			regex:       regexp.MustCompile(d.regex),
			replacement: d.replacement,
		})
	}
	return r
}

// RedactString masks credentials in a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr masks an attribute. Attributes whose key names a secret are
// replaced entirely; string and error values are pattern-scrubbed. Groups
// are walked recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		out := make([]any, len(group))
		for i, ga := range group {
			out[i] = r.RedactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, RedactAPIKey(v.String()))
		}
		return slog.String(a.Key, r.RedactString(v.String()))
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, "***")
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	switch lowerKey {
	case "key", "api_key", "apikey", "authorization":
		return true
	}
	if strings.HasSuffix(lowerKey, "token") {
		return true
	}
	return strings.Contains(lowerKey, "secret") || strings.Contains(lowerKey, "password")
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
