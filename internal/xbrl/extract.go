package xbrl

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
)

// Shape names the two instance document encodings TDnet distributes.
type Shape string

const (
	ShapeInline Shape = "inline" // facts embedded in HTML via ix: carriers
	ShapeStrict Shape = "strict" // plain XML instance document
)

// ErrUnparsableDocument means neither parse strategy produced a tree.
var ErrUnparsableDocument = eris.New("xbrl: unparsable document")

// Extraction bundles everything pulled from one instance document.
type Extraction struct {
	Shape    Shape
	Facts    []Fact
	Contexts map[string]Context
}

// ShapeOf picks the parse strategy from the document name.
func ShapeOf(name string) Shape {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".htm") || strings.HasSuffix(lower, ".html") {
		return ShapeInline
	}
	return ShapeStrict
}

// Extract parses an instance document with the strategy its name suggests,
// trying the other strategy if the first cannot build a tree. An empty fact
// list from a successful parse is not an error; the caller decides what an
// empty filing means.
func Extract(data []byte, name string, table *taxonomy.Table) (*Extraction, error) {
	shape := ShapeOf(name)
	facts, contexts, err := parseShape(shape, data, table)
	if err == nil {
		return &Extraction{Shape: shape, Facts: facts, Contexts: contexts}, nil
	}

	alt := ShapeStrict
	if shape == ShapeStrict {
		alt = ShapeInline
	}
	facts, contexts, altErr := parseShape(alt, data, table)
	if altErr != nil {
		return nil, eris.Wrapf(ErrUnparsableDocument, "%s", name)
	}
	return &Extraction{Shape: alt, Facts: facts, Contexts: contexts}, nil
}

func parseShape(shape Shape, data []byte, table *taxonomy.Table) ([]Fact, map[string]Context, error) {
	if shape == ShapeInline {
		return parseInline(data, table)
	}
	return parseInstance(data, table)
}
