// Package analyze runs the full pipeline over a filing archive: locate the
// instance document, extract facts, pair periods, and derive margins and
// significant changes.
package analyze

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/bundle"
	"github.com/kessan-lab/tanshin-cli/internal/compare"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
	"github.com/kessan-lab/tanshin-cli/internal/xbrl"
)

// DefaultThreshold is the minimum absolute change rate for a line item to
// count as a significant change.
const DefaultThreshold = 0.2

// ErrNoFacts means the document parsed but carried no usable facts. The
// filing is reported as failed, not empty.
var ErrNoFacts = eris.New("analyze: no facts extracted")

// Result is the output of one engine run.
type Result struct {
	Document     string                 `json:"document"`
	Shape        xbrl.Shape             `json:"shape"`
	Threshold    float64                `json:"threshold"`
	ContextCount int                    `json:"context_count"`
	Facts        []xbrl.Fact            `json:"facts"`
	Comparison   []compare.Row          `json:"comparison"`
	Significant  []compare.Row          `json:"significant"`
	Margins      []compare.MarginResult `json:"margins"`
	AnalyzedAt   time.Time              `json:"analyzed_at"`
}

// Record flattens the result into a storable analysis row for the given
// filing. filingID may be empty for ad-hoc runs.
func (r *Result) Record(filingID string) (*model.Analysis, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: encode result")
	}
	return &model.Analysis{
		ID:               uuid.NewString(),
		FilingID:         filingID,
		Document:         r.Document,
		Shape:            string(r.Shape),
		Threshold:        r.Threshold,
		FactCount:        len(r.Facts),
		ContextCount:     r.ContextCount,
		SignificantCount: len(r.Significant),
		Result:           payload,
		AnalyzedAt:       r.AnalyzedAt,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Analyzer runs the pipeline with a fixed taxonomy table and thresholds.
type Analyzer struct {
	table     *taxonomy.Table
	threshold float64
	anchors   []string
	metrics   []compare.Metric
}

// New returns an analyzer over the given taxonomy table. A nil table falls
// back to the built-in TSE mappings, a non-positive threshold to
// DefaultThreshold.
func New(table *taxonomy.Table, threshold float64) *Analyzer {
	if table == nil {
		table = taxonomy.Default()
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Analyzer{
		table:     table,
		threshold: threshold,
		anchors:   compare.DefaultAnchors,
		metrics:   compare.DefaultMetrics,
	}
}

// Threshold reports the significant-change cutoff the analyzer applies.
func (a *Analyzer) Threshold() float64 { return a.threshold }

// AnalyzeZip opens the archive at path and runs the pipeline on its best
// instance document.
func (a *Analyzer) AnalyzeZip(path string) (*Result, error) {
	b, err := bundle.Open(path)
	if err != nil {
		return nil, err
	}
	defer b.Close() //nolint:errcheck
	return a.AnalyzeBundle(b)
}

// AnalyzeBytes runs the pipeline on an in-memory archive, as received by the
// upload endpoint.
func (a *Analyzer) AnalyzeBytes(data []byte) (*Result, error) {
	b, err := bundle.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeBundle(b)
}

// AnalyzeBundle runs the pipeline on an already opened archive.
func (a *Analyzer) AnalyzeBundle(b *bundle.FilingBundle) (*Result, error) {
	doc, err := b.Locate()
	if err != nil {
		return nil, err
	}
	ex, err := xbrl.Extract(doc.Data, doc.Name, a.table)
	if err != nil {
		return nil, err
	}
	if len(ex.Facts) == 0 {
		return nil, eris.Wrapf(ErrNoFacts, "%s", doc.Name)
	}
	rows := compare.Build(ex.Facts, a.table)
	return &Result{
		Document:     doc.Name,
		Shape:        ex.Shape,
		Threshold:    a.threshold,
		ContextCount: len(ex.Contexts),
		Facts:        ex.Facts,
		Comparison:   rows,
		Significant:  compare.Significant(rows, a.threshold),
		Margins:      compare.Margins(rows, a.anchors, a.metrics),
		AnalyzedAt:   time.Now().UTC(),
	}, nil
}
