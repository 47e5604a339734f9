package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseAssetDate(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       time.Time
		ok         bool
	}{
		{"daily", "L1-PCP-E.2020-01-15", date(2020, time.January, 15), true},
		{"monthly", "L1-PCP-M.2018-05", date(2018, time.May, 1), true},
		{"annual", "L1-PCP-A.2014", date(2014, time.January, 1), true},
		{"annual marker", "L1-LCC-A.2020A", date(2020, time.January, 1), true},
		{"dekadal D-first", "L1-AETI-D.2020-01-D1", date(2020, time.January, 1), true},
		{"dekadal digit-first", "L1-AETI-D.2020-01-1D", date(2020, time.January, 1), true},
		{"dekadal third dekad", "L2-I-D.2021-11-D3", date(2021, time.November, 1), true},
		{"underscore separator", "WAPOR-3_L1-PCP-M_2018-05", date(2018, time.May, 1), true},
		{"dot and underscore", "WAPOR-3.L1-RET-M_2019-02", date(2019, time.February, 1), true},
		{"bare date token", "2020-06-15", date(2020, time.June, 15), true},
		{"malformed", "L1-PCP-M.not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"mapset code only", "L1-LCC-A", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAssetDate(tt.identifier)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseAssetDate_Idempotent(t *testing.T) {
	// A normalized date string parses to itself.
	first, ok := ParseAssetDate("2018-03-01")
	require.True(t, ok)
	second, ok := ParseAssetDate(first.Format("2006-01-02"))
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestParseAssetDate_InteriorAPreserved(t *testing.T) {
	// Only a trailing "A" is the annual marker; the parser must not touch
	// other occurrences of the letter in the identifier.
	got, ok := ParseAssetDate("L1-AETI-M.2020-07")
	require.True(t, ok)
	assert.Equal(t, date(2020, time.July, 1), got)
}

func TestParseAssetDate_DekadDigitDiscarded(t *testing.T) {
	for _, id := range []string{"X.2020-05-D1", "X.2020-05-D2", "X.2020-05-D3"} {
		got, ok := ParseAssetDate(id)
		require.True(t, ok, id)
		assert.Equal(t, date(2020, time.May, 1), got, id)
	}
}
