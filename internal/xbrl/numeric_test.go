package xbrl

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1234", 1234},
		{"1,234", 1234},
		{"１，２３４", 1234}, // full-width digits and comma
		{"(1,234)", -1234},
		{"△500", -500},
		{"▲500", -500},
		{"△1,234", -1234},
		{"1 234", 1234},
		{"1　234", 1234}, // ideographic space
		{"12.5", 12.5},
		{"-500", -500},
		{"0", 0},
	}

	for _, tt := range tests {
		got, err := decodeNumber(tt.raw)
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestDecodeNumber_DashMeansNoValue(t *testing.T) {
	for _, raw := range []string{"-", "－", "―", "—", "–", ""} {
		_, err := decodeNumber(raw)
		assert.True(t, eris.Is(err, errNoValue), "raw %q", raw)
	}
}

func TestDecodeNumber_UnparsableIsNotNoValue(t *testing.T) {
	_, err := decodeNumber("非開示")
	require.Error(t, err)
	assert.False(t, eris.Is(err, errNoValue))
}

func TestAsciiDigits_LeavesFullWidthPunctuation(t *testing.T) {
	// full-width decimal point is not a digit and must fail the parse
	assert.Equal(t, "12．5", asciiDigits("１２．５"))
	_, err := decodeNumber("１２．５")
	assert.Error(t, err)
}
