package xbrl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
)

const sampleInstance = `<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"
 xmlns:jppfs_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2024-11-01/jppfs_cor"
 xmlns:jpdei_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jpdei/2013-08-31/jpdei_cor"
 xmlns:custom="http://example.com/taxonomy/custom/2025">
 <xbrli:context id="CurrentYearDuration">
  <xbrli:entity><xbrli:identifier scheme="http://www.tse.or.jp">62820</xbrli:identifier></xbrli:entity>
  <xbrli:period>
   <xbrli:startDate>2025-04-01</xbrli:startDate>
   <xbrli:endDate>2026-03-31</xbrli:endDate>
  </xbrli:period>
 </xbrli:context>
 <xbrli:context id="Prior1YearDuration">
  <xbrli:period>
   <xbrli:startDate>2024-04-01</xbrli:startDate>
   <xbrli:endDate>2025-03-31</xbrli:endDate>
  </xbrli:period>
 </xbrli:context>
 <jppfs_cor:NetSales contextRef="CurrentYearDuration" unitRef="JPY" decimals="0">6000000</jppfs_cor:NetSales>
 <jppfs_cor:NetSales contextRef="Prior1YearDuration" unitRef="JPY" decimals="0">5,000,000</jppfs_cor:NetSales>
 <jppfs_cor:OperatingIncome contextRef="CurrentYearDuration">(30,000)</jppfs_cor:OperatingIncome>
 <jppfs_cor:NotesFinancial contextRef="CurrentYearDuration">－</jppfs_cor:NotesFinancial>
 <jpdei_cor:EDINETCodeDEI contextRef="CurrentYearDuration">E12345</jpdei_cor:EDINETCodeDEI>
 <custom:SpecialItem contextRef="CurrentYearDuration">42</custom:SpecialItem>
 <plain contextRef="CurrentYearDuration">123</plain>
</xbrli:xbrl>`

func TestParseInstance(t *testing.T) {
	facts, contexts, err := parseInstance([]byte(sampleInstance), taxonomy.Default())
	require.NoError(t, err)

	require.Len(t, contexts, 2)
	curr := contexts["CurrentYearDuration"]
	assert.Equal(t, "2025-04-01", curr.StartDate)
	assert.Equal(t, "2026-03-31", curr.EndDate)
	assert.Empty(t, curr.Instant)

	// the unnamespaced element is not a fact
	require.Len(t, facts, 6)

	sales := facts[0]
	assert.Equal(t, "NetSales", sales.Element)
	assert.Equal(t, "jppfs_cor", sales.Prefix)
	assert.Equal(t, PeriodCurrent, sales.Role)
	require.NotNil(t, sales.Value)
	assert.Equal(t, float64(6_000_000), *sales.Value)
	assert.Equal(t, "JPY", sales.Unit)

	prior := facts[1]
	assert.Equal(t, PeriodPrior, prior.Role)
	require.NotNil(t, prior.Value)
	assert.Equal(t, float64(5_000_000), *prior.Value)

	op := facts[2]
	require.NotNil(t, op.Value)
	assert.Equal(t, float64(-30_000), *op.Value) // parenthesized negative

	// a dash placeholder is kept in this shape, just without a value
	notes := facts[3]
	assert.Equal(t, "NotesFinancial", notes.Element)
	assert.Nil(t, notes.Value)
	assert.Equal(t, "－", notes.Raw)

	edinet := facts[4]
	assert.Equal(t, "jpdei_cor", edinet.Prefix)
	assert.Nil(t, edinet.Value)
	assert.Equal(t, "E12345", edinet.Raw)

	// unknown URI collapses to its last path segment
	special := facts[5]
	assert.Equal(t, "2025", special.Prefix)
	require.NotNil(t, special.Value)
	assert.Equal(t, float64(42), *special.Value)
}

func TestParseInstance_DeclaredLegacyCharset(t *testing.T) {
	doc := `<?xml version="1.0" encoding="Shift_JIS"?>` + "\n" +
		`<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance"` +
		` xmlns:jppfs_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2024-11-01/jppfs_cor">` +
		`<jppfs_cor:NetSales contextRef="CurrentYearDuration">100</jppfs_cor:NetSales>` +
		`</xbrli:xbrl>`

	facts, _, err := parseInstance([]byte(doc), taxonomy.Default())
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.NotNil(t, facts[0].Value)
	assert.Equal(t, float64(100), *facts[0].Value)
}

func TestParseInstance_MalformedFails(t *testing.T) {
	_, _, err := parseInstance([]byte("<xbrl><unclosed></xbrl>"), taxonomy.Default())
	require.Error(t, err)
}

func TestCollapseNamespace(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2024-11-01/jppfs_cor", "jppfs_cor"},
		{"http://disclosure.edinet-fsa.go.jp/taxonomy/jpdei/2013-08-31/jpdei_cor", "jpdei_cor"},
		{"http://disclosure.edinet-fsa.go.jp/taxonomy/jpcrp/2024-11-01/jpcrp_cor", "jpcrp_cor"},
		{"http://disclosure.edinet-fsa.go.jp/taxonomy/jpigp/2024-11-01/jpigp_cor", "jpigp_cor"},
		{"http://www.xbrl.org/2003/instance/", "instance"},
		{"http://example.com/custom", "custom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, collapseNamespace(tt.uri), "uri %s", tt.uri)
	}
}
