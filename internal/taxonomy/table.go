// Package taxonomy resolves XBRL element names from TDnet disclosures into
// canonical element names and Japanese display labels.
//
// Two static tables drive the resolution: a vendor map for the TSE summary
// dialect (tse-ed-t spellings to standard taxonomy names, identity fallback)
// and a label map (standard names to Japanese labels, empty fallback). Both
// ship with embedded defaults and can be extended with a YAML overlay file,
// since taxonomy coverage grows over time.
package taxonomy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Table holds the vendor-to-canonical element map and the canonical-to-label
// map. Lookups are pure; a Table is never mutated after construction and is
// safe to share across concurrent extractions.
type Table struct {
	Elements map[string]string `yaml:"elements"`
	Labels   map[string]string `yaml:"labels"`
}

// Default returns the embedded tables. The maps are shared package data;
// callers must treat the returned table as read-only and use Merge to layer
// changes on top.
func Default() *Table {
	return &Table{
		Elements: defaultSummaryElements,
		Labels:   defaultLabels,
	}
}

// Canonical maps a vendor element name to its canonical form. Names outside
// the table are returned unchanged.
func (t *Table) Canonical(name string) string {
	if t == nil {
		return name
	}
	if mapped, ok := t.Elements[name]; ok {
		return mapped
	}
	return name
}

// Label returns the Japanese display label for a canonical element name, or
// the empty string when the element is not covered.
func (t *Table) Label(name string) string {
	if t == nil {
		return ""
	}
	return t.Labels[name]
}

// LabelOrName returns the display label, falling back to the element name
// itself for uncovered elements.
func (t *Table) LabelOrName(name string) string {
	if label := t.Label(name); label != "" {
		return label
	}
	return name
}

// Merge returns a new Table with overlay entries layered over t. Neither
// input is modified.
func (t *Table) Merge(overlay *Table) *Table {
	merged := &Table{
		Elements: make(map[string]string, len(t.Elements)),
		Labels:   make(map[string]string, len(t.Labels)),
	}
	for k, v := range t.Elements {
		merged.Elements[k] = v
	}
	for k, v := range t.Labels {
		merged.Labels[k] = v
	}
	if overlay != nil {
		for k, v := range overlay.Elements {
			merged.Elements[k] = v
		}
		for k, v := range overlay.Labels {
			merged.Labels[k] = v
		}
	}
	return merged
}

// Load returns the default tables with an optional YAML overlay applied.
// An empty path returns the defaults unchanged.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "taxonomy: read overlay %s", path)
	}
	var overlay Table
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, eris.Wrapf(err, "taxonomy: parse overlay %s", path)
	}
	return Default().Merge(&overlay), nil
}
