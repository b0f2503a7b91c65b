package xbrl

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
)

// parseInline extracts facts from an inline XBRL document. The HTML parser
// lower-cases tag and attribute names, so the carriers surface as
// ix:nonfraction / ix:nonnumeric with a contextref attribute.
func parseInline(data []byte, table *taxonomy.Table) ([]Fact, map[string]Context, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, eris.Wrap(err, "xbrl: parse inline tree")
	}

	contexts := collectContexts(doc.Selection)

	var facts []Fact
	doc.Find("ix\\:nonFraction, ix\\:nonNumeric").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		if name == "" {
			return
		}
		contextRef := sel.AttrOr("contextref", "")
		if contextRef == "" {
			return
		}

		prefix, element := "", name
		if i := strings.Index(name, ":"); i >= 0 {
			prefix, element = name[:i], name[i+1:]
		}

		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var value *float64
		if goquery.NodeName(sel) == "ix:nonfraction" {
			v, decErr := decodeNumber(raw)
			switch {
			case eris.Is(decErr, errNoValue):
				// dash placeholder, not a fact
				return
			case decErr == nil:
				if sel.AttrOr("sign", "") == "-" {
					v = -math.Abs(v)
				}
				if sc, scErr := strconv.Atoi(sel.AttrOr("scale", "0")); scErr == nil && sc != 0 {
					v *= math.Pow(10, float64(sc))
				}
				value = &v
			}
		}

		facts = append(facts, Fact{
			Element:    table.Canonical(element),
			Original:   element,
			Prefix:     prefix,
			ContextRef: contextRef,
			Role:       Classify(contextRef),
			Value:      value,
			Raw:        raw,
			Unit:       sel.AttrOr("unitref", ""),
			Decimals:   sel.AttrOr("decimals", ""),
		})
	})

	return facts, contexts, nil
}

// collectContexts walks every element looking for context declarations,
// tolerating both namespaced and colon-prefixed plain tag names.
func collectContexts(root *goquery.Selection) map[string]Context {
	contexts := make(map[string]Context)

	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if localName(goquery.NodeName(sel)) != "context" {
			return
		}
		id := sel.AttrOr("id", "")
		if id == "" {
			return
		}

		ctx := Context{ID: id}
		sel.Find("*").Each(func(_ int, child *goquery.Selection) {
			text := strings.TrimSpace(child.Text())
			if text == "" {
				return
			}
			switch localName(goquery.NodeName(child)) {
			case "startdate":
				ctx.StartDate = text
			case "enddate":
				ctx.EndDate = text
			case "instant":
				ctx.Instant = text
			}
		})
		contexts[id] = ctx
	})

	return contexts
}

// localName strips a namespace prefix from a colon-joined tag name and
// folds the rest to lower case.
func localName(tag string) string {
	if i := strings.Index(tag, ":"); i >= 0 {
		tag = tag[i+1:]
	}
	return strings.ToLower(tag)
}
