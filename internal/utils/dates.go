package utils

import (
	"strconv"
	"strings"
	"time"
)

// arabicMonths translates Arabic month names to their English equivalents.
// This is a vocabulary translation over the Gregorian calendar only; no
// Hijri conversion happens here.
var arabicMonths = map[string]string{
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

var englishMonths = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// ParseBilingualDate parses upstream date strings of the form
// "<day> <month> <year>" where the month may be an English or Arabic month
// name (e.g. "14 February 2019", "01 سبتمبر 2025"). The result is midnight
// UTC. The second return value is false for any malformed input; callers
// treat the date as absent.
func ParseBilingualDate(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	monthName := parts[1]
	if english, ok := arabicMonths[monthName]; ok {
		monthName = english
	}
	month, ok := englishMonths[monthName]
	if !ok {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}

	parsed := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days ("31 February" rolls into
	// March); a rolled-over date is a malformed input, not a real one.
	if parsed.Day() != day || parsed.Month() != month {
		return time.Time{}, false
	}
	return parsed, true
}
