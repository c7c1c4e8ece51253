package normalize

import (
	"regexp"
	"strings"
	"time"
)

// placeholderValues is the single source of truth for "this field carries no
// information". Every evaluator decision about field presence goes through
// IsPlaceholder - individual checks must not define their own vocabulary.
var placeholderValues = map[string]struct{}{
	"":            {},
	"UNKNOWN":     {},
	"NOASSERTION": {},
	"NONE":        {},
	"TBD":         {},
	"N/A":         {},
}

var emailRegexp = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// actor kinds used by SPDX creator and supplier strings ("Organization: Acme Corp")
var actorKindRegexp = regexp.MustCompile(`^(?i)(organization|person|tool)\s*:\s*`)

// NormalizeLabel trims whitespace and maps empty strings to nil.
func NormalizeLabel(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// IsPlaceholder reports whether value is nil or one of the well-known
// "no information" sentinels found in real-world SBOMs.
func IsPlaceholder(value *string) bool {
	if value == nil {
		return true
	}
	return isPlaceholderString(*value)
}

func isPlaceholderString(value string) bool {
	_, ok := placeholderValues[strings.ToUpper(strings.TrimSpace(value))]
	return ok
}

// ExtractEmails returns all email addresses embedded in a free-text string.
// SPDX actor strings routinely carry contacts inline, either in parentheses
// ("Organization: Acme Corp (security@acme.example)") or angle brackets.
func ExtractEmails(value string) []string {
	return emailRegexp.FindAllString(value, -1)
}

// NormalizeActor strips the "Organization:"/"Person:"/"Tool:" prefix from an
// SPDX actor string and returns the name portion, or nil when the remainder
// is itself a placeholder.
func NormalizeActor(value string) *string {
	remainder := strings.TrimSpace(actorKindRegexp.ReplaceAllString(strings.TrimSpace(value), ""))
	if isPlaceholderString(remainder) {
		return nil
	}
	return &remainder
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseISOTimestamp parses an ISO-8601 timestamp. A trailing Z is accepted as
// UTC and timestamps without an offset are assumed to be UTC. Returns nil on
// any parse failure, it never fails hard - SBOM timestamps are too messy for
// that.
func ParseISOTimestamp(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
