// Package format holds the display formatting shared by the addon assemblers.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating renders a provider vote average on the given scale (10 or 5).
// A zero vote means unrated and yields nil.
func Rating(voteAverage float64, scale int) *string {
	if voteAverage <= 0 {
		return nil
	}
	if scale == 5 {
		voteAverage = voteAverage / 2
	}
	out := strconv.FormatFloat(voteAverage, 'f', 1, 64)
	return &out
}

// Year returns the leading 4-digit year of the first non-empty date.
func Year(dates ...string) *string {
	for _, date := range dates {
		date = strings.TrimSpace(date)
		if date == "" {
			continue
		}
		if y := leadingYear(date); y != "" {
			return &y
		}
		return nil
	}
	return nil
}

func leadingYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

// Runtime formats minutes as "Hh Mm".
func Runtime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ReleaseRange formats a series run as "start–end". An ongoing series or an
// unknown end year keeps the dash with an empty end; an unknown start yields "".
func ReleaseRange(firstAirDate, lastAirDate string, ongoing bool) string {
	start := leadingYear(strings.TrimSpace(firstAirDate))
	if start == "" {
		return ""
	}
	end := ""
	if !ongoing {
		end = leadingYear(strings.TrimSpace(lastAirDate))
	}
	return start + "–" + end
}
