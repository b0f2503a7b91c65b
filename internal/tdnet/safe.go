package tdnet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// forbidden covers the filename metacharacters rejected by Windows and
// awkward everywhere else.
var forbidden = strings.NewReplacer(
	`\`, "_",
	"/", "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// nfkc unifies full/half-width forms and composed/decomposed kana. Company
// names scraped from HTML and names read back from the filesystem can differ
// in normalization form while looking identical.
func nfkc(s string) string { return norm.NFKC.String(s) }

// SafeFilename normalizes s for use in a filename: NFKC, forbidden
// characters to underscores, whitespace runs collapsed to single spaces,
// truncated to maxLen runes.
func SafeFilename(s string, maxLen int) string {
	s = forbidden.Replace(nfkc(s))
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); maxLen > 0 && len(r) > maxLen {
		s = strings.TrimRight(string(r[:maxLen]), " ")
	}
	return s
}
