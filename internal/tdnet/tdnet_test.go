package tdnet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kessan-lab/tanshin-cli/internal/fetcher"
	"github.com/kessan-lab/tanshin-cli/internal/model"
)

const listPage1 = `<html><body>
<table>
<tr><th>時刻</th><th>コード</th><th>会社名</th><th>表題</th><th>XBRL</th></tr>
<tr>
  <td>15:30</td><td>７２０３０</td><td>テスト自動車</td>
  <td><a href="140120260512501234.pdf">2026年3月期 決算短信〔日本基準〕（連結）</a></td>
  <td><a href="081220260512501234.zip">XBRL</a></td>
</tr>
<tr>
  <td>15:00</td><td>99840</td><td>テスト電機</td>
  <td><a href="140120260512505678.pdf">業績予想の修正に関するお知らせ</a></td>
  <td></td>
</tr>
<tr>
  <td>14:00</td><td>13060</td><td>テスト投信</td>
  <td><a href="140120260512509999.pdf">ＥＴＦ日次開示</a></td>
  <td></td>
</tr>
<tr><td colspan="5">1/1</td></tr>
</table>
</body></html>`

const listPage2 = `<html><body>
<table>
<tr><th>時刻</th><th>コード</th><th>会社名</th><th>表題</th><th>XBRL</th></tr>
<tr>
  <td>9:05</td><td>55550</td><td>テスト商事</td>
  <td><a href="140120260512502222.pdf">月次売上高のお知らせ</a></td>
  <td><a href="081220260512502222.zip">XBRL</a></td>
</tr>
<tr><td>-</td></tr>
<tr><td>-</td></tr>
<tr><td>-</td></tr>
</table>
</body></html>`

// listPageStub has fewer rows than a real list page ever carries.
const listPageStub = `<html><body>
<table>
<tr>
  <td>9:00</td><td>11111</td><td>棄却される社</td>
  <td><a href="x.pdf">月次報告</a></td>
  <td></td>
</tr>
</table>
</body></html>`

func testDay() time.Time {
	return time.Date(2026, 5, 12, 0, 0, 0, 0, JST)
}

func newTestClient(baseURL string, maxPages int) *Client {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:  "test-agent",
		Headers:    Headers(baseURL),
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	})
	return NewClient(f, Options{BaseURL: baseURL, MaxPages: maxPages})
}

func TestListDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cb_agree=0", r.Header.Get("Cookie"))
		switch r.URL.Path {
		case "/inbs/I_list_001_20260512.html":
			w.Write([]byte(listPage1))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	filings, err := newTestClient(srv.URL, 0).ListDay(context.Background(), testDay())
	require.NoError(t, err)
	require.Len(t, filings, 2) // the ETF row is dropped

	f := filings[0]
	assert.Equal(t, "72030", f.Code) // full-width digits normalized
	assert.Equal(t, "テスト自動車", f.Name)
	assert.Equal(t, "2026年3月期 決算短信〔日本基準〕(連結)", f.Title) // full-width parens normalized
	assert.Equal(t, "決算短信", f.Category)
	assert.Equal(t, time.Date(2026, 5, 12, 15, 30, 0, 0, JST), f.DisclosedAt)
	assert.Equal(t, srv.URL+"/inbs/140120260512501234.pdf", f.PDFURL)
	assert.Equal(t, srv.URL+"/inbs/081220260512501234.zip", f.ZipURL)
	assert.Equal(t, model.FilingStatusDiscovered, f.Status)

	g := filings[1]
	assert.Equal(t, "99840", g.Code)
	assert.Equal(t, "予想の修正", g.Category)
	assert.Empty(t, g.ZipURL) // PDF-only disclosure is still listed
	assert.Equal(t, srv.URL+"/inbs/140120260512505678.pdf", g.PDFURL)
}

func TestListDay_Paginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inbs/I_list_001_20260512.html":
			w.Write([]byte(listPage1))
		case "/inbs/I_list_002_20260512.html":
			w.Write([]byte(listPage2))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	filings, err := newTestClient(srv.URL, 0).ListDay(context.Background(), testDay())
	require.NoError(t, err)
	require.Len(t, filings, 3)
	assert.Equal(t, "55550", filings[2].Code)
	assert.Equal(t, "月次", filings[2].Category)
	assert.Equal(t, time.Date(2026, 5, 12, 9, 5, 0, 0, JST), filings[2].DisclosedAt)
}

func TestListDay_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>該当するデータはありません</body></html>"))
	}))
	defer srv.Close()

	filings, err := newTestClient(srv.URL, 0).ListDay(context.Background(), testDay())
	require.NoError(t, err)
	assert.Empty(t, filings)
}

func TestListDay_StubPageStops(t *testing.T) {
	var pagesServed int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pagesServed++
		switch r.URL.Path {
		case "/inbs/I_list_001_20260512.html":
			w.Write([]byte(listPage1))
		default:
			w.Write([]byte(listPageStub))
		}
	}))
	defer srv.Close()

	filings, err := newTestClient(srv.URL, 0).ListDay(context.Background(), testDay())
	require.NoError(t, err)
	// The stub page's rows are discarded and pagination stops there.
	assert.Len(t, filings, 2)
	assert.Equal(t, 2, pagesServed)
}

func TestListDay_MaxPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listPage1))
	}))
	defer srv.Close()

	filings, err := newTestClient(srv.URL, 1).ListDay(context.Background(), testDay())
	require.NoError(t, err)
	assert.Len(t, filings, 2)
}

func TestListDay_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 0).ListDay(context.Background(), testDay())
	require.Error(t, err)
}

func TestListPageURL(t *testing.T) {
	c := NewClient(nil, Options{BaseURL: "https://www.release.tdnet.info"})
	assert.Equal(t,
		"https://www.release.tdnet.info/inbs/I_list_007_20260512.html",
		c.ListPageURL(testDay(), 7))
}

func TestHeaders(t *testing.T) {
	h := Headers("")
	assert.Equal(t, "https://www.release.tdnet.info/index.html", h["Referer"])
	assert.Equal(t, "cb_agree=0", h["Cookie"])

	h = Headers("https://mirror.example/")
	assert.Equal(t, "https://mirror.example/index.html", h["Referer"])
}
