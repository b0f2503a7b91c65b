package compare

import (
	"math"
	"sort"
)

// DefaultAnchors is the revenue element search order for margin ratios.
var DefaultAnchors = []string{"NetSales", "Revenue", "OperatingRevenue1"}

// Metric names one profit-margin numerator.
type Metric struct {
	Name    string
	Element string
}

// DefaultMetrics lists the standard margin lines of an earnings summary.
var DefaultMetrics = []Metric{
	{Name: "売上総利益率", Element: "GrossProfit"},
	{Name: "営業利益率", Element: "OperatingIncome"},
	{Name: "経常利益率", Element: "OrdinaryIncome"},
	{Name: "当期純利益率", Element: "ProfitLoss"},
	{Name: "親会社帰属純利益率", Element: "ProfitLossAttributableToOwnersOfParent"},
}

// MarginResult is one margin line. Percentages are unrounded; display
// rounding belongs to the exporters.
type MarginResult struct {
	Metric  string   `json:"metric"`
	Current *float64 `json:"current_pct,omitempty"`
	Prior   *float64 `json:"prior_pct,omitempty"`
	Diff    *float64 `json:"diff_pt,omitempty"`
}

// Significant returns the rows whose defined rate clears the threshold,
// largest absolute move first. The boundary is inclusive and the sort is
// stable, so rows with equal rates keep their comparison order.
func Significant(rows []Row, threshold float64) []Row {
	var out []Row
	for _, r := range rows {
		if r.Rate != nil && math.Abs(*r.Rate) >= threshold {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(*out[i].Rate) > math.Abs(*out[j].Rate)
	})
	return out
}

// Margins computes revenue ratios against the first anchor element that
// has a non-nil, non-zero current value; anchors with a zero current
// value are passed over rather than ending the search. No qualifying
// anchor means no margins. A metric with no comparison row is omitted;
// one whose row lacks a side simply leaves that percentage unset.
func Margins(rows []Row, anchors []string, metrics []Metric) []MarginResult {
	byElement := make(map[string]*Row, len(rows))
	for i := range rows {
		if _, ok := byElement[rows[i].Element]; !ok {
			byElement[rows[i].Element] = &rows[i]
		}
	}

	var salesCurrent, salesPrior *float64
	for _, anchor := range anchors {
		r, ok := byElement[anchor]
		if !ok {
			continue
		}
		if r.Current != nil && *r.Current != 0 {
			salesCurrent, salesPrior = r.Current, r.Prior
			break
		}
	}
	if salesCurrent == nil {
		return nil
	}

	var out []MarginResult
	for _, m := range metrics {
		r, ok := byElement[m.Element]
		if !ok {
			continue
		}
		res := MarginResult{Metric: m.Name}
		if r.Current != nil {
			pct := *r.Current / *salesCurrent * 100
			res.Current = &pct
		}
		if r.Prior != nil && salesPrior != nil && *salesPrior != 0 {
			pct := *r.Prior / *salesPrior * 100
			res.Prior = &pct
		}
		if res.Current != nil && res.Prior != nil {
			d := *res.Current - *res.Prior
			res.Diff = &d
		}
		out = append(out, res)
	}
	return out
}
