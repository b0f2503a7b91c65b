package tdnet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// IndexFileName is the per-day disclosure index written next to the archives.
const IndexFileName = "disclosures.csv"

var indexHeader = []string{"分類", "時刻", "コード", "会社名", "表題", "PDF", "XBRL", "ファイル名"}

// WriteIndex writes a day's disclosure index as CSV with a UTF-8 BOM so
// spreadsheet apps pick the encoding up. Rows sort by category priority,
// then newest first.
func WriteIndex(path string, filings []model.Filing) error {
	sorted := make([]model.Filing, len(filings))
	copy(sorted, filings)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := CategoryRank(sorted[i].Category), CategoryRank(sorted[j].Category)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].DisclosedAt.After(sorted[j].DisclosedAt)
	})

	file, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "tdnet: create index")
	}
	defer file.Close() //nolint:errcheck

	if _, err := file.WriteString("﻿"); err != nil {
		return eris.Wrap(err, "tdnet: write index bom")
	}

	w := csv.NewWriter(file)
	if err := w.Write(indexHeader); err != nil {
		return eris.Wrap(err, "tdnet: write index header")
	}
	for i := range sorted {
		f := &sorted[i]
		archive := ""
		if f.ZipURL != "" {
			archive = SavedName(f)
		}
		rec := []string{
			f.Category,
			f.DisclosedAt.In(JST).Format("15:04"),
			f.Code,
			f.Name,
			f.Title,
			f.PDFURL,
			f.ZipURL,
			archive,
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "tdnet: write index row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "tdnet: flush index")
}

// LoadIndex reads a disclosure index back into filings. The day anchors the
// clock column; archive names resolve relative to the index location.
func LoadIndex(path string, day time.Time) ([]model.Filing, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "tdnet: open index")
	}
	defer file.Close() //nolint:errcheck

	br := bufio.NewReader(file)
	if head, err := br.Peek(3); err == nil && bytes.Equal(head, []byte("﻿")) {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "tdnet: read index")
	}

	dir := filepath.Dir(path)
	var filings []model.Filing
	for i, rec := range records {
		if i == 0 || len(rec) < len(indexHeader) {
			continue
		}
		f := model.Filing{
			Category:    rec[0],
			DisclosedAt: disclosedAt(day, rec[1]),
			Code:        rec[2],
			Name:        rec[3],
			Title:       rec[4],
			PDFURL:      rec[5],
			ZipURL:      rec[6],
			Status:      model.FilingStatusDiscovered,
		}
		if rec[7] != "" {
			f.ZipPath = filepath.Join(dir, rec[7])
			f.Status = model.FilingStatusDownloaded
		}
		filings = append(filings, f)
	}
	return filings, nil
}
