package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndDate_ZSuffixEqualsExplicitOffset(t *testing.T) {
	withZ, err := ParseEndDate("2024-01-01T00:00:00Z")
	require.NoError(t, err)

	withOffset, err := ParseEndDate("2024-01-01T00:00:00+00:00")
	require.NoError(t, err)

	assert.True(t, withZ.Equal(withOffset))
	_, offset := withZ.Zone()
	assert.Equal(t, 0, offset)
}

func TestParseEndDate_NaiveAssumedUTC(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"datetime without zone", "2024-03-15T12:30:00", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)},
		{"space separated", "2024-03-15 12:30:00", time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)},
		{"date only", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEndDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			_, offset := got.Zone()
			assert.Equal(t, 0, offset, "naive timestamp must normalize to UTC offset zero")
		})
	}
}

func TestParseEndDate_NonUTCOffsetNormalized(t *testing.T) {
	got, err := ParseEndDate("2024-01-01T05:30:00+05:30")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseEndDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2024-13-45T99:99:99Z"} {
		_, err := ParseEndDate(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestParseOutcomePrices(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []float64
		wantErr bool
	}{
		{"gamma string encoding", `["0.4", "0.6"]`, []float64{0.4, 0.6}, false},
		{"plain float list", `[0.25, 0.75]`, []float64{0.25, 0.75}, false},
		{"empty payload", "", nil, false},
		{"empty list", `[]`, []float64{}, false},
		{"non-list", `"0.5"`, nil, true},
		{"object", `{"yes": 0.5}`, nil, true},
		{"non-numeric element", `["0.4", "soon"]`, nil, true},
		{"garbage", `[0.4,`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutcomePrices(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarket_PrimaryPriceAndOutcome(t *testing.T) {
	m := Market{
		RawOutcomes:      `["Yes", "No"]`,
		RawOutcomePrices: `["0.62", "0.39"]`,
	}
	assert.Equal(t, 0.62, m.PrimaryPrice())
	assert.Equal(t, "Yes", m.PrimaryOutcome())

	malformed := Market{RawOutcomePrices: `broken`, RawOutcomes: `broken`}
	assert.Equal(t, 0.0, malformed.PrimaryPrice())
	assert.Equal(t, "Yes", malformed.PrimaryOutcome(), "malformed outcomes default to Yes")
}
