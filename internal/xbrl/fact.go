// Package xbrl extracts facts from TDnet filing instance documents, both
// inline XBRL embedded in HTML and strict XML instances.
package xbrl

// Context is one xbrli:context declaration. Period dates are kept as the
// raw document text; an instant context carries only Instant, a duration
// context carries StartDate and EndDate.
type Context struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Instant   string `json:"instant,omitempty"`
}

// Fact is a single extracted data point.
type Fact struct {
	Element    string     `json:"element"`              // canonical name after vendor mapping
	Original   string     `json:"original,omitempty"`   // name as spelled in the document
	Prefix     string     `json:"prefix,omitempty"`     // namespace prefix (jppfs_cor, tse-ed-t, ...)
	ContextRef string     `json:"context_ref"`          // context id as written on the carrier
	Role       PeriodRole `json:"role"`                 // classified from ContextRef
	Value      *float64   `json:"value,omitempty"`      // nil when the raw text did not decode
	Raw        string     `json:"raw"`                  // trimmed source text
	Unit       string     `json:"unit,omitempty"`
	Decimals   string     `json:"decimals,omitempty"`
}

// Numeric reports whether the fact carries a decoded value.
func (f Fact) Numeric() bool { return f.Value != nil }
