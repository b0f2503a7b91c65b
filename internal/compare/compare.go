// Package compare pairs current and prior period values per element and
// derives the change analytics used in filing summaries.
package compare

import (
	"math"

	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
	"github.com/kessan-lab/tanshin-cli/internal/xbrl"
)

// Row holds one element's current-versus-prior comparison.
type Row struct {
	Element string   `json:"element"`
	Label   string   `json:"label"`
	Current *float64 `json:"current,omitempty"`
	Prior   *float64 `json:"prior,omitempty"`
	Change  *float64 `json:"change,omitempty"`
	Rate    *float64 `json:"rate,omitempty"`
}

// Build groups numeric facts by canonical element in first-appearance
// order. Within an element the first fact carrying a current-family role
// supplies the current value and the first with a prior-family role the
// prior value; later duplicates are ignored. A row is emitted when at
// least one side was found. Change and Rate are set only when both sides
// are present and the prior value is non-zero.
func Build(facts []xbrl.Fact, table *taxonomy.Table) []Row {
	type pair struct {
		current *float64
		prior   *float64
	}
	order := make([]string, 0, len(facts))
	groups := make(map[string]*pair)

	for _, f := range facts {
		if !f.Numeric() {
			continue
		}
		g, ok := groups[f.Element]
		if !ok {
			g = &pair{}
			groups[f.Element] = g
			order = append(order, f.Element)
		}
		v := *f.Value
		switch {
		case f.Role.Current():
			if g.current == nil {
				g.current = &v
			}
		case f.Role.Prior():
			if g.prior == nil {
				g.prior = &v
			}
		}
	}

	rows := make([]Row, 0, len(order))
	for _, elem := range order {
		g := groups[elem]
		if g.current == nil && g.prior == nil {
			continue
		}
		row := Row{
			Element: elem,
			Label:   table.LabelOrName(elem),
			Current: g.current,
			Prior:   g.prior,
		}
		if g.current != nil && g.prior != nil && *g.prior != 0 {
			change := *g.current - *g.prior
			rate := change / math.Abs(*g.prior)
			row.Change = &change
			row.Rate = &rate
		}
		rows = append(rows, row)
	}
	return rows
}
