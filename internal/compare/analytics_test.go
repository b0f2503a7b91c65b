package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func row(element string, current, prior, rate *float64) Row {
	return Row{Element: element, Label: element, Current: current, Prior: prior, Rate: rate}
}

func TestSignificant_InclusiveThreshold(t *testing.T) {
	rows := []Row{
		row("A", fptr(125), fptr(100), fptr(0.25)),
		row("B", fptr(120), fptr(100), fptr(0.20)),
		row("C", fptr(119), fptr(100), fptr(0.19)),
		row("D", fptr(50), nil, nil), // no rate, never significant
	}

	sig := Significant(rows, 0.20)
	require.Len(t, sig, 2)
	assert.Equal(t, "A", sig[0].Element)
	assert.Equal(t, "B", sig[1].Element) // exactly at the boundary
}

func TestSignificant_SortsByAbsoluteRateDescending(t *testing.T) {
	rows := []Row{
		row("up", nil, nil, fptr(0.3)),
		row("down", nil, nil, fptr(-0.5)),
		row("flatish", nil, nil, fptr(0.21)),
	}

	sig := Significant(rows, 0.2)
	require.Len(t, sig, 3)
	assert.Equal(t, "down", sig[0].Element)
	assert.Equal(t, "up", sig[1].Element)
	assert.Equal(t, "flatish", sig[2].Element)
}

func TestSignificant_StableOnEqualRates(t *testing.T) {
	rows := []Row{
		row("first", nil, nil, fptr(0.30)),
		row("second", nil, nil, fptr(-0.30)),
		row("big", nil, nil, fptr(0.90)),
	}

	sig := Significant(rows, 0.2)
	require.Len(t, sig, 3)
	assert.Equal(t, "big", sig[0].Element)
	assert.Equal(t, "first", sig[1].Element)
	assert.Equal(t, "second", sig[2].Element)
}

func TestMargins(t *testing.T) {
	rows := []Row{
		row("NetSales", fptr(1000), fptr(800), nil),
		row("OperatingIncome", fptr(150), fptr(100), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 1)

	m := margins[0]
	assert.Equal(t, "営業利益率", m.Metric)
	require.NotNil(t, m.Current)
	require.NotNil(t, m.Prior)
	require.NotNil(t, m.Diff)
	assert.Equal(t, 15.0, *m.Current)
	assert.Equal(t, 12.5, *m.Prior)
	assert.Equal(t, 2.5, *m.Diff)
}

func TestMargins_AnchorFallbackOrder(t *testing.T) {
	rows := []Row{
		row("Revenue", fptr(500), fptr(400), nil),
		row("ProfitLoss", fptr(50), fptr(40), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 1)
	assert.Equal(t, "当期純利益率", margins[0].Metric)
	assert.Equal(t, 10.0, *margins[0].Current)
	assert.Equal(t, 10.0, *margins[0].Prior)
	assert.Equal(t, 0.0, *margins[0].Diff)
}

func TestMargins_ZeroCurrentAnchorIsPassedOver(t *testing.T) {
	rows := []Row{
		row("NetSales", fptr(0), fptr(800), nil),
		row("Revenue", fptr(500), fptr(400), nil),
		row("OperatingIncome", fptr(50), fptr(40), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 1)
	assert.Equal(t, 10.0, *margins[0].Current)
}

func TestMargins_NoQualifyingAnchor(t *testing.T) {
	rows := []Row{
		row("OperatingIncome", fptr(150), fptr(100), nil),
		row("NetSales", nil, fptr(800), nil), // prior only
	}

	assert.Empty(t, Margins(rows, DefaultAnchors, DefaultMetrics))
}

func TestMargins_PriorNeedsPriorRevenue(t *testing.T) {
	rows := []Row{
		row("NetSales", fptr(1000), nil, nil),
		row("OperatingIncome", fptr(150), fptr(100), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 1)
	require.NotNil(t, margins[0].Current)
	assert.Equal(t, 15.0, *margins[0].Current)
	assert.Nil(t, margins[0].Prior)
	assert.Nil(t, margins[0].Diff)
}

func TestMargins_PriorOnlyMetricRow(t *testing.T) {
	rows := []Row{
		row("NetSales", fptr(1000), fptr(800), nil),
		row("GrossProfit", nil, fptr(100), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 1)
	assert.Equal(t, "売上総利益率", margins[0].Metric)
	assert.Nil(t, margins[0].Current)
	require.NotNil(t, margins[0].Prior)
	assert.Equal(t, 12.5, *margins[0].Prior)
	assert.Nil(t, margins[0].Diff)
}

func TestMargins_MetricOrderFollowsConfiguration(t *testing.T) {
	rows := []Row{
		row("NetSales", fptr(1000), fptr(800), nil),
		row("ProfitLoss", fptr(80), fptr(60), nil),
		row("GrossProfit", fptr(400), fptr(350), nil),
	}

	margins := Margins(rows, DefaultAnchors, DefaultMetrics)
	require.Len(t, margins, 2)
	assert.Equal(t, "売上総利益率", margins[0].Metric)
	assert.Equal(t, "当期純利益率", margins[1].Metric)
}
