package domain

import (
	"strings"
	"time"
)

// dateLayouts are tried in order; the first match wins.
var dateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// ParseAssetDate extracts a calendar date from a raster identifier.
//
// The date-bearing token is the substring after the last "." and then after
// the last "_" (either delimiter may be absent). A trailing annual marker
// "A" and a dekadal suffix ("-D1".."-D3") are stripped before parsing;
// dekadal identifiers resolve to the first day of their month. Year-month
// tokens resolve to day 1, year-only tokens to January 1.
//
// Returns ok=false when no layout matches. Callers treat that as "exclude
// this asset", never as a fatal condition.
func ParseAssetDate(identifier string) (time.Time, bool) {
	token := identifier
	if i := strings.LastIndexByte(token, '.'); i >= 0 {
		token = token[i+1:]
	}
	if i := strings.LastIndexByte(token, '_'); i >= 0 {
		token = token[i+1:]
	}

	// Annual marker: strip one trailing "A" only. Stripping every "A" would
	// corrupt tokens that legitimately contain the letter elsewhere.
	token = strings.TrimSuffix(token, "A")

	token = trimDekadSuffix(token)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, token)
		if err != nil {
			continue
		}
		switch layout {
		case "2006":
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), true
		case "2006-01":
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		default:
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// trimDekadSuffix removes a trailing dekad code, with or without a "-"
// separator, so "2020-01-D1" and "2020-01-1D" both parse as "2020-01". Both
// orderings occur in the catalog. The dekad digit never contributes a
// sub-month offset.
func trimDekadSuffix(token string) string {
	if len(token) < 2 {
		return token
	}
	tail := token[len(token)-2:]
	if !isDekadCode(tail) {
		return token
	}
	token = token[:len(token)-2]
	return strings.TrimSuffix(token, "-")
}

func isDekadCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	return (s[0] == 'D' && s[1] >= '0' && s[1] <= '9') ||
		(s[1] == 'D' && s[0] >= '0' && s[0] <= '9')
}
