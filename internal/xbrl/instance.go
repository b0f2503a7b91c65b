package xbrl

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
)

// parseInstance extracts facts from a strict XBRL instance document. Facts
// are the namespaced elements carrying a contextRef attribute (exact case,
// unlike the HTML-flavored inline shape); the element's own text is the raw
// value. A syntax error anywhere fails the whole parse so the caller can
// fall back to the lenient strategy.
func parseInstance(data []byte, table *taxonomy.Table) ([]Fact, map[string]Context, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	contexts := make(map[string]Context)
	var facts []Fact

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "xbrl: parse instance tree")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if strings.EqualFold(start.Name.Local, "context") {
			id, _ := findAttr(start.Attr, "id")
			ctx, err := decodeContext(dec, id)
			if err != nil {
				return nil, nil, eris.Wrap(err, "xbrl: parse context")
			}
			if id != "" {
				contexts[id] = ctx
			}
			continue
		}

		if start.Name.Space == "" {
			continue
		}
		contextRef, ok := findAttr(start.Attr, "contextRef")
		if !ok {
			continue
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, nil, eris.Wrap(err, "xbrl: decode element")
		}
		raw := strings.TrimSpace(text)
		if raw == "" {
			continue
		}

		var value *float64
		if v, decErr := decodeNumber(raw); decErr == nil {
			value = &v
		}
		// dash placeholders and undecodable text keep the fact, valueless

		unit, _ := findAttr(start.Attr, "unitRef")
		decimals, _ := findAttr(start.Attr, "decimals")
		facts = append(facts, Fact{
			Element:    table.Canonical(start.Name.Local),
			Original:   start.Name.Local,
			Prefix:     collapseNamespace(start.Name.Space),
			ContextRef: contextRef,
			Role:       Classify(contextRef),
			Value:      value,
			Raw:        raw,
			Unit:       unit,
			Decimals:   decimals,
		})
	}

	return facts, contexts, nil
}

// decodeContext consumes the subtree of a context element, collecting the
// startDate/endDate/instant descendants. Later duplicates overwrite.
func decodeContext(dec *xml.Decoder, id string) (Context, error) {
	ctx := Context{ID: id}
	depth := 1
	field := ""
	fieldDepth := 0
	var buf strings.Builder

	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return ctx, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch name := strings.ToLower(t.Name.Local); name {
			case "startdate", "enddate", "instant":
				field, fieldDepth = name, depth
				buf.Reset()
			}
		case xml.CharData:
			if field != "" {
				buf.Write(t)
			}
		case xml.EndElement:
			if field != "" && depth == fieldDepth {
				if text := strings.TrimSpace(buf.String()); text != "" {
					switch field {
					case "startdate":
						ctx.StartDate = text
					case "enddate":
						ctx.EndDate = text
					case "instant":
						ctx.Instant = text
					}
				}
				field = ""
			}
			depth--
		}
	}

	return ctx, nil
}

// findAttr returns the value of the named attribute, matching the local
// name exactly.
func findAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// collapseNamespace shortens a namespace URI to the conventional Japanese
// taxonomy prefix, else the last path segment.
func collapseNamespace(uri string) string {
	switch {
	case strings.Contains(uri, "jppfs"):
		return "jppfs_cor"
	case strings.Contains(uri, "jpdei"):
		return "jpdei_cor"
	case strings.Contains(uri, "jpcrp"):
		return "jpcrp_cor"
	case strings.Contains(uri, "jpigp"):
		return "jpigp_cor"
	}
	uri = strings.TrimRight(uri, "/")
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// charsetReader lets the XML decoder handle the legacy encodings that
// occasionally appear in filing archives.
func charsetReader(name string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "xbrl: charset %s", name)
	}
	return enc.NewDecoder().Reader(input), nil
}
