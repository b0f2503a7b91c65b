// Package export renders analysis results for human and dashboard
// consumption: formatted Excel workbooks and the static JSON dataset the
// viewer page loads.
package export

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/width"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/compare"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
	"github.com/kessan-lab/tanshin-cli/internal/xbrl"
)

const (
	sheetSummary = "分析サマリー"
	sheetData    = "財務データ一覧"
	sheetRaw     = "XBRLデータ（Raw）"
)

const (
	amountFormat  = "#,##0"
	percentFormat = "0.0%"
	maxColWidth   = 50
)

// comparisonColumns orders the account tables on the summary and data
// sheets.
var comparisonColumns = []string{"勘定科目", "当期", "前期", "増減額", "増減率"}

// marginColumns orders the profit-margin table on the summary sheet.
var marginColumns = []string{"指標", "当期（%）", "前期（%）", "差分（pt）"}

// rawColumns orders the extracted-fact dump sheet.
var rawColumns = []string{"勘定科目", "XBRL要素名", "名前空間", "期間", "数値", "原文", "単位", "コンテキスト"}

// WorkbookName builds the output file name for a filing's workbook. The
// company name is sanitized and truncated the same way saved archives
// are named, so workbook and archive sort together in a day directory.
func WorkbookName(f model.Filing) string {
	return fmt.Sprintf("XBRL分析_%s_%s.xlsx", f.Code, tdnet.SafeFilename(f.Name, 20))
}

// WriteWorkbook renders one analysis as a three-sheet Excel file: a
// summary page with company info, profit margins and significant movers,
// the full current-vs-prior comparison, and the raw extracted facts.
// Sections and sheets with no data are left out. Margin percentages are
// rounded to two decimals here; the engine output keeps full precision.
func WriteWorkbook(path string, filing model.Filing, res *analyze.Result, table *taxonomy.Table) error {
	if table == nil {
		table = taxonomy.Default()
	}

	file := xlsx.NewFile()
	st := newSheetStyles()

	if err := writeSummarySheet(file, st, filing, res); err != nil {
		return err
	}
	if len(res.Comparison) > 0 {
		if err := writeDataSheet(file, st, res.Comparison); err != nil {
			return err
		}
	}
	if len(res.Facts) > 0 {
		if err := writeRawSheet(file, st, res.Facts, table); err != nil {
			return err
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

// sheetStyles carries the shared cell styles for one workbook build.
type sheetStyles struct {
	header *xlsx.Style // white on blue, centered
	key    *xlsx.Style // bold info keys
	title  *xlsx.Style // bold section titles
	cell   *xlsx.Style // thin border
	alert  *xlsx.Style // red fill
	warn   *xlsx.Style // yellow fill
	good   *xlsx.Style // green fill
}

func newSheetStyles() *sheetStyles {
	header := xlsx.NewStyle()
	header.Font.Bold = true
	header.Font.Size = 11
	header.Font.Color = "FFFFFFFF"
	header.Fill = *xlsx.NewFill("solid", "FF4472C4", "FF4472C4")
	header.Alignment.Horizontal = "center"
	header.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	header.ApplyFont = true
	header.ApplyFill = true
	header.ApplyAlignment = true
	header.ApplyBorder = true

	key := xlsx.NewStyle()
	key.Font.Bold = true
	key.ApplyFont = true

	title := xlsx.NewStyle()
	title.Font.Bold = true
	title.Font.Size = 12
	title.ApplyFont = true

	return &sheetStyles{
		header: header,
		key:    key,
		title:  title,
		cell:   borderedStyle(""),
		alert:  borderedStyle("FFFFE0E0"),
		warn:   borderedStyle("FFFFFFD0"),
		good:   borderedStyle("FFE0FFE0"),
	}
}

func borderedStyle(fill string) *xlsx.Style {
	s := xlsx.NewStyle()
	s.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	s.ApplyBorder = true
	if fill != "" {
		s.Fill = *xlsx.NewFill("solid", fill, fill)
		s.ApplyFill = true
	}
	return s
}

func writeSummarySheet(f *xlsx.File, st *sheetStyles, filing model.Filing, res *analyze.Result) error {
	sheet, err := f.AddSheet(sheetSummary)
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	date := ""
	if !filing.DisclosedAt.IsZero() {
		date = filing.DisclosedAt.In(tdnet.JST).Format("20060102")
	}
	info := [][2]string{
		{"会社名", filing.Name},
		{"コード", filing.Code},
		{"表題", filing.Title},
		{"日付", date},
	}
	for _, kv := range info {
		row := sheet.AddRow()
		textCell(row, kv[0], st.key)
		textCell(row, kv[1], nil)
	}

	if len(res.Margins) > 0 {
		sheet.AddRow()
		textCell(sheet.AddRow(), "【利益率分析】", st.title)
		headerRow(sheet, st, marginColumns)
		for _, m := range res.Margins {
			row := sheet.AddRow()
			textCell(row, m.Metric, st.cell)
			numberCell(row, round2(m.Current), "", st.cell)
			numberCell(row, round2(m.Prior), "", st.cell)
			diff := round2(m.Diff)
			numberCell(row, diff, "", diffStyle(st, diff))
		}
	}

	if len(res.Significant) > 0 {
		sheet.AddRow()
		textCell(sheet.AddRow(), "【大幅変動の勘定科目】", st.title)
		writeComparisonRows(sheet, st, res.Significant, 0.5, 0.3)
	}

	autoWidth(sheet)
	return nil
}

func writeDataSheet(f *xlsx.File, st *sheetStyles, rows []compare.Row) error {
	sheet, err := f.AddSheet(sheetData)
	if err != nil {
		return eris.Wrap(err, "export: add data sheet")
	}
	writeComparisonRows(sheet, st, rows, 0.3, 0.2)
	autoWidth(sheet)
	return nil
}

func writeRawSheet(f *xlsx.File, st *sheetStyles, facts []xbrl.Fact, table *taxonomy.Table) error {
	sheet, err := f.AddSheet(sheetRaw)
	if err != nil {
		return eris.Wrap(err, "export: add raw sheet")
	}
	headerRow(sheet, st, rawColumns)
	for _, fact := range facts {
		row := sheet.AddRow()
		textCell(row, factLabel(table, fact), st.cell)
		textCell(row, fact.Element, st.cell)
		textCell(row, fact.Prefix, st.cell)
		textCell(row, fact.Role.Label(), st.cell)
		numberCell(row, fact.Value, amountFormat, st.cell)
		textCell(row, fact.Raw, st.cell)
		textCell(row, fact.Unit, st.cell)
		textCell(row, fact.ContextRef, st.cell)
	}
	autoWidth(sheet)
	return nil
}

// writeComparisonRows appends the shared account table: header, then one
// row per account with amount formatting and a rate fill graded by the
// absolute rate against the two thresholds.
func writeComparisonRows(sheet *xlsx.Sheet, st *sheetStyles, rows []compare.Row, alertAt, warnAt float64) {
	headerRow(sheet, st, comparisonColumns)
	for _, r := range rows {
		row := sheet.AddRow()
		textCell(row, rowLabel(r), st.cell)
		numberCell(row, r.Current, amountFormat, st.cell)
		numberCell(row, r.Prior, amountFormat, st.cell)
		numberCell(row, r.Change, amountFormat, st.cell)
		numberCell(row, r.Rate, percentFormat, rateStyle(st, r.Rate, alertAt, warnAt))
	}
}

func headerRow(sheet *xlsx.Sheet, st *sheetStyles, titles []string) {
	row := sheet.AddRow()
	for _, t := range titles {
		textCell(row, t, st.header)
	}
}

func textCell(row *xlsx.Row, v string, style *xlsx.Style) {
	c := row.AddCell()
	c.SetString(v)
	if style != nil {
		c.SetStyle(style)
	}
}

// numberCell writes v with the given number format, or an empty styled
// cell when v is nil. An empty format leaves the value unformatted.
func numberCell(row *xlsx.Row, v *float64, format string, style *xlsx.Style) {
	c := row.AddCell()
	if style != nil {
		c.SetStyle(style)
	}
	if v == nil {
		return
	}
	if format == "" {
		c.SetFloat(*v)
		return
	}
	c.SetFloatWithFormat(*v, format)
}

func rateStyle(st *sheetStyles, rate *float64, alertAt, warnAt float64) *xlsx.Style {
	if rate == nil {
		return st.cell
	}
	switch abs := math.Abs(*rate); {
	case abs >= alertAt:
		return st.alert
	case abs >= warnAt:
		return st.warn
	default:
		return st.cell
	}
}

// diffStyle grades a margin point difference: any gain is green, a drop
// past one point is red.
func diffStyle(st *sheetStyles, diff *float64) *xlsx.Style {
	switch {
	case diff == nil:
		return st.cell
	case *diff > 0:
		return st.good
	case *diff < -1:
		return st.alert
	default:
		return st.cell
	}
}

// rowLabel falls back to the element name for accounts with no Japanese
// label.
func rowLabel(r compare.Row) string {
	if r.Label != "" {
		return r.Label
	}
	return r.Element
}

// factLabel resolves the display name of a fact: canonical element label
// first, vendor name label second, element name last.
func factLabel(table *taxonomy.Table, f xbrl.Fact) string {
	if l := table.Label(f.Element); l != "" {
		return l
	}
	if l := table.Label(f.Original); l != "" {
		return l
	}
	return f.Element
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}

// autoWidth sizes each column to its widest cell plus padding, capped at
// maxColWidth.
func autoWidth(sheet *xlsx.Sheet) {
	var widths []int
	for _, row := range sheet.Rows {
		for i, cell := range row.Cells {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if w := displayWidth(cell.Value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i, w := range widths {
		cw := w + 4
		if cw > maxColWidth {
			cw = maxColWidth
		}
		_ = sheet.SetColWidth(i, i, float64(cw))
	}
}

// displayWidth counts the rendered width of s in half-width columns.
// East-Asian wide, fullwidth and ambiguous runes occupy two.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
			w += 2
		default:
			w++
		}
	}
	return w
}
