package tdnet

import "strings"

// ExcludeKeywords drop fund-product disclosures (ETF/ETN daily notices)
// entirely. Both full-width and half-width spellings are listed; matching is
// NFKC-normalized so either spelling in a title hits.
var ExcludeKeywords = []string{"ＥＴＦ", "ETF", "ETN", "ＥＴＮ", "_MAXIS"}

// PriorityCategories rank disclosure titles. Earlier entries sort first in
// the daily index.
var PriorityCategories = []string{
	"事業計画",
	"予想の修正",
	"決算短信",
	"説明資料",
	"月次",
	"資本コストや株価",
}

// CategoryOther labels titles no priority keyword matches.
const CategoryOther = "その他"

// categoryRankOther sorts unmatched titles after every keyword category.
const categoryRankOther = 999

// IsExcluded reports whether a disclosure is filtered out entirely. Fund
// products carry their markers in the title or the issuer name.
func IsExcluded(title, name string) bool {
	t := nfkc(title) + " " + nfkc(name)
	for _, kw := range ExcludeKeywords {
		if strings.Contains(t, nfkc(kw)) {
			return true
		}
	}
	return false
}

// Categorize returns the sort rank and category label for a title. The first
// matching priority keyword wins.
func Categorize(title string) (int, string) {
	for i, kw := range PriorityCategories {
		if strings.Contains(title, kw) {
			return i, kw
		}
	}
	return categoryRankOther, CategoryOther
}

// CategoryRank maps a stored category label back to its sort rank.
func CategoryRank(category string) int {
	for i, kw := range PriorityCategories {
		if kw == category {
			return i
		}
	}
	return categoryRankOther
}
