package export

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/compare"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/store"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
)

// salesElements are the canonical revenue lines recognized when deriving
// the headline sales growth figure for the index.
var salesElements = map[string]bool{
	"NetSales":                  true,
	"NetSalesIFRS":              true,
	"NetSalesUS":                true,
	"TotalRevenuesUS":           true,
	"Revenue":                   true,
	"OperatingRevenue1":         true,
	"OperatingRevenues":         true,
	"OperatingRevenuesIFRS":     true,
	"OperatingRevenuesSpecific": true,
	"OperatingRevenuesSE":       true,
	"OrdinaryRevenuesBK":        true,
	"OrdinaryRevenuesIN":        true,
}

// salesChangeElements carry the growth rate directly as their value.
var salesChangeElements = map[string]bool{
	"ChangeInNetSales":                  true,
	"ChangeInNetSalesIFRS":              true,
	"ChangeInNetSalesUS":                true,
	"ChangeInTotalRevenuesUS":           true,
	"ChangeInOperatingRevenues":         true,
	"ChangeInOperatingRevenuesIFRS":     true,
	"ChangeInOperatingRevenuesSpecific": true,
	"ChangeInOperatingRevenuesSE":       true,
	"ChangeInOrdinaryRevenuesBK":        true,
	"ChangeInOrdinaryRevenuesIN":        true,
}

// IndexEntry is one row of the dashboard index. Field names follow the
// viewer contract; percentages are rounded to two decimals.
type IndexEntry struct {
	Date      string   `json:"date"`     // 2026/05/12, JST
	DateRaw   string   `json:"date_raw"` // 20260512
	Code      string   `json:"code"`
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	RevChange *float64 `json:"rev_chg"` // sales growth, percent
	OpCurrent *float64 `json:"op_cur"`  // operating margin, percent
	OpPrior   *float64 `json:"op_prev"`
	OpDiff    *float64 `json:"op_diff"`
	Detail    string   `json:"detail"` // path relative to the index file
}

// Detail is the full per-filing document the viewer loads on demand.
type Detail struct {
	Filing model.Filing    `json:"filing"`
	Result json.RawMessage `json:"result"`
}

// WriteJSON renders analyzed filings as a static dashboard dataset:
// index.json sorted by date then code, and a details/ directory with one
// document per filing. It returns the number of index entries written.
func WriteJSON(dir string, items []store.AnalyzedFiling) (int, error) {
	detailDir := filepath.Join(dir, "details")
	if err := os.MkdirAll(detailDir, 0o755); err != nil {
		return 0, eris.Wrap(err, "json export: create output dir")
	}

	entries := make([]IndexEntry, 0, len(items))
	for _, item := range items {
		entry, err := buildIndexEntry(item)
		if err != nil {
			return 0, err
		}
		entries = append(entries, entry)

		data, err := json.Marshal(Detail{Filing: item.Filing, Result: item.Analysis.Result})
		if err != nil {
			return 0, eris.Wrapf(err, "json export: marshal detail %s", item.Filing.ID)
		}
		path := filepath.Join(detailDir, item.Filing.ID+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return 0, eris.Wrapf(err, "json export: write %s", path)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DateRaw != entries[j].DateRaw {
			return entries[i].DateRaw < entries[j].DateRaw
		}
		return entries[i].Code < entries[j].Code
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, eris.Wrap(err, "json export: marshal index")
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), data, 0o644); err != nil {
		return 0, eris.Wrap(err, "json export: write index.json")
	}
	return len(entries), nil
}

func buildIndexEntry(item store.AnalyzedFiling) (IndexEntry, error) {
	var res analyze.Result
	if err := json.Unmarshal(item.Analysis.Result, &res); err != nil {
		return IndexEntry{}, eris.Wrapf(err, "json export: decode result for %s", item.Filing.ID)
	}

	day := item.Filing.DisclosedAt.In(tdnet.JST)
	entry := IndexEntry{
		Date:    day.Format("2006/01/02"),
		DateRaw: day.Format("20060102"),
		Code:    item.Filing.Code,
		Company: item.Filing.Name,
		Title:   item.Filing.Title,
		Detail:  "details/" + item.Filing.ID + ".json",
	}

	for _, m := range res.Margins {
		if strings.Contains(m.Metric, "営業利益率") {
			entry.OpCurrent = round2(m.Current)
			entry.OpPrior = round2(m.Prior)
			entry.OpDiff = round2(m.Diff)
			break
		}
	}
	entry.RevChange = salesChange(res.Comparison)

	return entry, nil
}

// salesChange derives the revenue growth rate in percent. A rate on a
// recognized revenue line wins; otherwise a change-rate element whose
// current value is the rate itself is used.
func salesChange(rows []compare.Row) *float64 {
	for _, r := range rows {
		if salesElements[r.Element] && r.Rate != nil {
			return ratePct(*r.Rate)
		}
	}
	for _, r := range rows {
		if salesChangeElements[r.Element] && r.Current != nil {
			return ratePct(*r.Current)
		}
	}
	return nil
}

// ratePct converts a ratio to a percentage rounded to two decimals.
func ratePct(v float64) *float64 {
	p := math.Round(v*10000) / 100
	return &p
}
