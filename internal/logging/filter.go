// Package logging holds the zerolog plumbing shared by every component:
// component-tagged loggers and redaction of credentials before log lines
// reach the console or the rotating log file.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// sensitivePatterns match the credential formats an olympus process handles:
// LLM provider keys, bearer tokens and redis URLs carrying a password.
//
//nolint:gochecknoglobals // Compiled once
var sensitivePatterns = []redaction{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`), RedactedValue},
	{regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`), RedactedValue},
	{regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._-]{20,}`), RedactedValue},
	{regexp.MustCompile(`(?i)(api[_-]?key)\s*[:=]\s*["']?[a-zA-Z0-9_-]{16,}["']?`), RedactedValue},
	{regexp.MustCompile(`redis://[^:@/\s]*:[^@/\s]+@`), "redis://" + RedactedValue + "@"},
}

//nolint:gochecknoglobals // Lookup table
var sensitiveFieldNames = []string{
	"api_key",
	"apikey",
	"password",
	"secret",
	"token",
	"authorization",
}

// Component returns a child logger tagged with component=name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// ContainsSensitiveData reports whether s matches any credential pattern.
func ContainsSensitiveData(s string) bool {
	for _, r := range sensitivePatterns {
		if r.pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every credential match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	for _, r := range sensitivePatterns {
		value = r.pattern.ReplaceAllString(value, r.replacement)
	}
	return value
}

// IsSensitiveFieldName reports whether a field name suggests a secret value.
func IsSensitiveFieldName(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, s := range sensitiveFieldNames {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// SafeValue redacts value entirely when fieldName looks sensitive, and
// filters embedded credentials otherwise.
//
//	log.Info().Str("redis_addr", logging.SafeValue("redis_addr", addr)).Msg("connecting")
func SafeValue(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// SensitiveDataHook flags log events whose message carries credentials.
// zerolog cannot rewrite a message from a hook, so the FilteringWriter does
// the actual redaction; the flag makes such call sites easy to find.
type SensitiveDataHook struct{}

// Run implements zerolog.Hook.
func (SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// FilteringWriter redacts credentials from everything written through it.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter wraps w.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success so callers never
// see a short write caused by redaction changing the length.
func (fw *FilteringWriter) Write(p []byte) (int, error) {
	if _, err := fw.w.Write([]byte(FilterSensitiveValue(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
