package xbrl

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// errNoValue marks dash placeholders (該当なし) that carry no number at all.
var errNoValue = eris.New("xbrl: no value")

// numberCleaner strips digit grouping in either width and maps the
// negative-triangle marks to a minus sign.
var numberCleaner = strings.NewReplacer(
	",", "",
	"，", "",
	" ", "",
	"　", "",
	"△", "-",
	"▲", "-",
)

// decodeNumber normalizes Japanese financial notation and parses the
// remainder as a float64. Dash placeholders return errNoValue so callers
// can tell "no value" apart from text that fails to parse.
func decodeNumber(raw string) (float64, error) {
	clean := asciiDigits(numberCleaner.Replace(raw))
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = "-" + clean[1:len(clean)-1]
	}
	switch clean {
	case "", "-", "－", "―", "—", "–":
		return 0, errNoValue
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "xbrl: decode %q", raw)
	}
	return v, nil
}

// asciiDigits transliterates full-width digits (０-９) to ASCII. Other
// full-width punctuation is left alone and fails the float parse.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}
