package xbrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want PeriodRole
	}{
		{"CurrentYearDuration", PeriodCurrent},
		{"CurrentYearInstant", PeriodCurrentInstant},
		{"CurrentAccumulatedQ3Duration_ConsolidatedMember_ResultMember", PeriodCurrent},
		{"CurrentAccumulatedQ3Instant", PeriodCurrentInstant},
		{"PriorYearDuration", PeriodPrior},
		{"PriorYearInstant", PeriodPriorInstant},
		{"Prior1YearDuration", PeriodPrior},
		{"PriorAccumulatedQ3Instant", PeriodPriorInstant},
		{"NextAccumulatedFYDuration_ConsolidatedMember_ForecastMember", PeriodForecast},
		{"CurrentYearDuration_ConsolidatedMember_ForecastMember", PeriodForecast},

		// a leading "prior" wins before the quarter rule fires
		{"PriorQuarterDuration", PeriodPrior},
		{"PriorQuarterInstant", PeriodPriorInstant},
		// the quarter rule catches embedded markers only
		{"NonConsolidatedPriorQuarterInstant", PeriodPriorQuarter},

		// loose fallbacks
		{"AnnualPriorInstantMember", PeriodPriorInstant},
		{"SomeCurrentDuration", PeriodCurrent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.ref), "ref %q", tt.ref)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, PeriodCurrent, Classify("CURRENTYEARDURATION"))
	assert.Equal(t, PeriodPriorInstant, Classify("prioryearinstant"))
}

func TestClassify_UnknownKeepsOriginalID(t *testing.T) {
	role := Classify("FY2023Summary")
	assert.False(t, role.Known())
	assert.Equal(t, "FY2023Summary", string(role))
	assert.Equal(t, "FY2023Summary", role.Label())
}

func TestPeriodRole_Label(t *testing.T) {
	assert.Equal(t, "当期", PeriodCurrent.Label())
	assert.Equal(t, "当期末", PeriodCurrentInstant.Label())
	assert.Equal(t, "前期", PeriodPrior.Label())
	assert.Equal(t, "前期末", PeriodPriorInstant.Label())
	assert.Equal(t, "前四半期", PeriodPriorQuarter.Label())
	assert.Equal(t, "予想", PeriodForecast.Label())
}

func TestPeriodRole_Buckets(t *testing.T) {
	assert.True(t, PeriodCurrent.Current())
	assert.True(t, PeriodCurrentInstant.Current())
	assert.False(t, PeriodCurrent.Prior())

	assert.True(t, PeriodPrior.Prior())
	assert.True(t, PeriodPriorInstant.Prior())
	assert.True(t, PeriodPriorQuarter.Prior())
	assert.False(t, PeriodPriorQuarter.Current())

	assert.False(t, PeriodForecast.Current())
	assert.False(t, PeriodForecast.Prior())

	unknown := Classify("FY2023Summary")
	assert.False(t, unknown.Current())
	assert.False(t, unknown.Prior())
}
