// Package model holds the domain types shared across the pipeline.
package model

import (
	"encoding/json"
	"time"
)

// FilingStatus tracks a disclosure through the pipeline.
type FilingStatus string

const (
	FilingStatusDiscovered FilingStatus = "discovered" // listed on TDnet, not fetched
	FilingStatusDownloaded FilingStatus = "downloaded" // archive on disk
	FilingStatusAnalyzed   FilingStatus = "analyzed"   // engine run stored
	FilingStatusFailed     FilingStatus = "failed"     // last engine run errored
)

// Valid reports whether s is one of the known pipeline states.
func (s FilingStatus) Valid() bool {
	switch s {
	case FilingStatusDiscovered, FilingStatusDownloaded, FilingStatusAnalyzed, FilingStatusFailed:
		return true
	}
	return false
}

// Filing is one TDnet disclosure.
type Filing struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`  // 5-digit security code
	Name        string       `json:"name"`  // company name
	Title       string       `json:"title"` // disclosure title, NFKC-normalized
	Category    string       `json:"category,omitempty"`
	DisclosedAt time.Time    `json:"disclosed_at"`
	ZipURL      string       `json:"zip_url,omitempty"`
	PDFURL      string       `json:"pdf_url,omitempty"`
	ZipPath     string       `json:"zip_path,omitempty"`
	Status      FilingStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Analysis is one stored engine run over a filing. Result holds the full
// engine output as JSON; the scalar columns exist for listing without
// unmarshaling the payload.
type Analysis struct {
	ID               string          `json:"id"`
	FilingID         string          `json:"filing_id"`
	Document         string          `json:"document"` // archive entry the engine read
	Shape            string          `json:"shape"`
	Threshold        float64         `json:"threshold"`
	FactCount        int             `json:"fact_count"`
	ContextCount     int             `json:"context_count"`
	SignificantCount int             `json:"significant_count"`
	Result           json.RawMessage `json:"result"`
	AnalyzedAt       time.Time       `json:"analyzed_at"`
	CreatedAt        time.Time       `json:"created_at"`
}
