// Package tdnet lists and downloads earnings disclosures from the TDnet
// release site. List pages are plain HTML tables, one set per day, paged as
// I_list_001_YYYYMMDD.html, I_list_002_... until a 404 or a "no data" page.
package tdnet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/fetcher"
	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// JST is the exchange timezone. Disclosure times on the list pages are
// wall-clock Tokyo times.
var JST = time.FixedZone("JST", 9*60*60)

const (
	// DefaultBaseURL is the public TDnet release site.
	DefaultBaseURL = "https://www.release.tdnet.info"
	// DefaultMaxPages bounds pagination for a single day.
	DefaultMaxPages = 20

	noDataMarker = "該当するデータはありません"
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	MaxPages int
}

// Client scrapes TDnet daily disclosure lists and downloads filing archives.
type Client struct {
	fetcher  fetcher.Fetcher
	base     string
	maxPages int
}

// NewClient creates a client over the given fetcher. The fetcher should carry
// the TDnet request headers (see Headers).
func NewClient(f fetcher.Fetcher, opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Client{fetcher: f, base: base, maxPages: maxPages}
}

// Headers returns the request headers TDnet expects besides the User-Agent:
// a referer on the same site and the cookie-consent opt-out.
func Headers(baseURL string) map[string]string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return map[string]string{
		"Referer": base + "/index.html",
		"Cookie":  "cb_agree=0",
	}
}

// ListPageURL returns the list page URL for a day and 1-based page number.
func (c *Client) ListPageURL(day time.Time, page int) string {
	return fmt.Sprintf("%s/inbs/I_list_%03d_%s.html", c.base, page, day.In(JST).Format("20060102"))
}

// ListDay scrapes every list page for the given day. An empty result is a
// day without disclosures (weekend or holiday), not an error.
func (c *Client) ListDay(ctx context.Context, day time.Time) ([]model.Filing, error) {
	var filings []model.Filing
	for page := 1; page <= c.maxPages; page++ {
		pageURL := c.ListPageURL(day, page)

		body, err := c.fetcher.Download(ctx, pageURL)
		if err != nil {
			if eris.Is(err, fetcher.ErrNotFound) {
				break
			}
			return filings, err
		}
		data, err := io.ReadAll(body)
		_ = body.Close()
		if err != nil {
			return filings, eris.Wrap(err, "tdnet: read list page")
		}

		if bytes.Contains(data, []byte(noDataMarker)) {
			break
		}

		pageFilings, rowCount, err := parseListPage(data, pageURL, day)
		if err != nil {
			return filings, err
		}
		// A near-empty table is the trailing page stub.
		if rowCount < 5 {
			break
		}

		filings = append(filings, pageFilings...)
		zap.L().Debug("list page scraped",
			zap.String("url", pageURL),
			zap.Int("filings", len(pageFilings)))
	}
	return filings, nil
}

// parseListPage extracts filings from one list page. It returns the raw
// table row count so the caller can detect the trailing page stub.
func parseListPage(data []byte, pageURL string, day time.Time) ([]model.Filing, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, eris.Wrap(err, "tdnet: parse list page")
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, 0, eris.Wrap(err, "tdnet: parse page url")
	}

	rows := doc.Find("tr")
	var filings []model.Filing
	rows.Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 5 {
			return
		}

		clock := cellText(cols.Eq(0))
		code := cellText(cols.Eq(1))
		name := cellText(cols.Eq(2))
		title := cellText(cols.Eq(3))

		if IsExcluded(title, name) {
			return
		}

		pdfURL := resolveHref(page, firstHref(cols.Eq(3)))
		if pdfURL == "" {
			pdfURL = resolveHref(page, firstHref(cols.Eq(4)))
		}
		zipURL := resolveHref(page, zipHref(row))
		if pdfURL == "" && zipURL == "" {
			return
		}

		_, category := Categorize(title)
		filings = append(filings, model.Filing{
			Code:        code,
			Name:        name,
			Title:       title,
			Category:    category,
			DisclosedAt: disclosedAt(day, clock),
			PDFURL:      pdfURL,
			ZipURL:      zipURL,
			Status:      model.FilingStatusDiscovered,
		})
	})
	return filings, rows.Length(), nil
}

// cellText flattens a table cell to NFKC-normalized text with whitespace
// runs collapsed.
func cellText(sel *goquery.Selection) string {
	return nfkc(strings.Join(strings.Fields(sel.Text()), " "))
}

func firstHref(sel *goquery.Selection) string {
	href, _ := sel.Find("a[href]").First().Attr("href")
	return href
}

// zipHref finds the first archive link anywhere in the row.
func zipHref(row *goquery.Selection) string {
	var href string
	row.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		h, _ := a.Attr("href")
		if strings.HasSuffix(strings.ToLower(h), ".zip") {
			href = h
			return false
		}
		return true
	})
	return href
}

func resolveHref(page *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return page.ResolveReference(ref).String()
}

// disclosedAt anchors a list-page clock reading ("15:30") on the day. An
// unparsable clock yields midnight.
func disclosedAt(day time.Time, clock string) time.Time {
	d := day.In(JST)
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, JST)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, JST)
}
