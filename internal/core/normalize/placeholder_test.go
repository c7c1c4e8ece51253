package normalize

import (
	"testing"
	"time"

	"github.com/l3montree-dev/sbomcheck/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder(t *testing.T) {
	t.Run("placeholder sentinels are detected case-insensitively", func(t *testing.T) {
		for _, value := range []string{"", "  ", "noassertion", "NOASSERTION", "Unknown", "NONE", "tbd", "n/a"} {
			assert.True(t, IsPlaceholder(utils.Ptr(value)), "expected %q to be a placeholder", value)
		}
	})

	t.Run("nil is a placeholder", func(t *testing.T) {
		assert.True(t, IsPlaceholder(nil))
	})

	t.Run("meaningful values are not placeholders", func(t *testing.T) {
		for _, value := range []string{"MIT", "Acme Corp", "1.0.0"} {
			assert.False(t, IsPlaceholder(utils.Ptr(value)), "expected %q to be meaningful", value)
		}
	})
}

func TestNormalizeLabel(t *testing.T) {
	assert.Nil(t, NormalizeLabel("   "))
	assert.Equal(t, "acme", *NormalizeLabel("  acme  "))
}

func TestExtractEmails(t *testing.T) {
	t.Run("parenthesized SPDX actor form", func(t *testing.T) {
		emails := ExtractEmails("Organization: Example Corp (contact@example.com)")
		assert.Equal(t, []string{"contact@example.com"}, emails)
	})

	t.Run("angle bracket form", func(t *testing.T) {
		emails := ExtractEmails("Person: Jane Doe <jane.doe@example.com>")
		assert.Equal(t, []string{"jane.doe@example.com"}, emails)
	})

	t.Run("no email", func(t *testing.T) {
		assert.Empty(t, ExtractEmails("Organization: Example Corp"))
	})
}

func TestNormalizeActor(t *testing.T) {
	t.Run("strips the actor kind prefix", func(t *testing.T) {
		assert.Equal(t, "Acme Corp", *NormalizeActor("Organization: Acme Corp"))
		assert.Equal(t, "syft-1.0.0", *NormalizeActor("Tool: syft-1.0.0"))
	})

	t.Run("placeholder remainder yields nil", func(t *testing.T) {
		assert.Nil(t, NormalizeActor("Organization: NOASSERTION"))
		assert.Nil(t, NormalizeActor("NOASSERTION"))
	})

	t.Run("string without prefix is returned trimmed", func(t *testing.T) {
		assert.Equal(t, "Acme Corp", *NormalizeActor("  Acme Corp  "))
	})
}

func TestParseISOTimestamp(t *testing.T) {
	t.Run("trailing Z is accepted as UTC", func(t *testing.T) {
		parsed := ParseISOTimestamp("2023-01-01T00:00:00Z")
		assert.NotNil(t, parsed)
		assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
	})

	t.Run("missing offset defaults to UTC", func(t *testing.T) {
		parsed := ParseISOTimestamp("2023-06-15T12:30:00")
		assert.NotNil(t, parsed)
		assert.Equal(t, time.UTC, parsed.Location())
	})

	t.Run("explicit offset is honored", func(t *testing.T) {
		parsed := ParseISOTimestamp("2023-01-01T02:00:00+02:00")
		assert.NotNil(t, parsed)
		assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
	})

	t.Run("garbage returns nil without panicking", func(t *testing.T) {
		assert.Nil(t, ParseISOTimestamp("not-a-date"))
		assert.Nil(t, ParseISOTimestamp(""))
	})
}
