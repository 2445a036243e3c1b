package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBilingualDate(t *testing.T) {
	t.Run("parses English dates", func(t *testing.T) {
		parsed, ok := ParseBilingualDate("14 February 2019")
		require.True(t, ok)
		assert.Equal(t, time.Date(2019, time.February, 14, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("parses Arabic dates", func(t *testing.T) {
		parsed, ok := ParseBilingualDate("01 سبتمبر 2025")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("Arabic and English month names are equivalent", func(t *testing.T) {
		pairs := map[string]string{
			"يناير":  "January",
			"فبراير": "February",
			"مارس":   "March",
			"أبريل":  "April",
			"مايو":   "May",
			"يونيو":  "June",
			"يوليو":  "July",
			"أغسطس":  "August",
			"سبتمبر": "September",
			"أكتوبر": "October",
			"نوفمبر": "November",
			"ديسمبر": "December",
		}

		for arabic, english := range pairs {
			fromArabic, ok := ParseBilingualDate("15 " + arabic + " 2024")
			require.True(t, ok, "expected %s to parse", arabic)

			fromEnglish, ok := ParseBilingualDate("15 " + english + " 2024")
			require.True(t, ok, "expected %s to parse", english)

			assert.Equal(t, fromEnglish, fromArabic)
		}
	})

	t.Run("normalizes to midnight UTC", func(t *testing.T) {
		parsed, ok := ParseBilingualDate("31 December 2023")
		require.True(t, ok)
		assert.Equal(t, 0, parsed.Hour())
		assert.Equal(t, time.UTC, parsed.Location())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		malformed := []string{
			"",
			"February 2019",
			"14 February",
			"14 February 2019 extra",
			"0 February 2019",
			"32 February 2019",
			"fourteen February 2019",
			"14 Smarch 2019",
			"14 February year",
		}

		for _, input := range malformed {
			_, ok := ParseBilingualDate(input)
			assert.False(t, ok, "expected %q to be rejected", input)
		}
	})

	t.Run("rejects days the month does not have", func(t *testing.T) {
		invalid := []string{
			"31 February 2019",
			"30 فبراير 2019",
			"31 April 2024",
			"29 February 2023",
		}

		for _, input := range invalid {
			_, ok := ParseBilingualDate(input)
			assert.False(t, ok, "expected %q to be rejected", input)
		}

		// leap day is a real date
		parsed, ok := ParseBilingualDate("29 February 2024")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("tolerates extra whitespace between tokens", func(t *testing.T) {
		parsed, ok := ParseBilingualDate("  14   February   2019  ")
		require.True(t, ok)
		assert.Equal(t, time.Date(2019, time.February, 14, 0, 0, 0, 0, time.UTC), parsed)
	})
}
