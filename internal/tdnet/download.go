package tdnet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// DayDir returns the per-date directory for downloaded archives.
func DayDir(dataDir string, day time.Time) string {
	return filepath.Join(dataDir, day.In(JST).Format("20060102"))
}

// SavedName builds the archive filename for a filing:
// {HHMM}_{code}_{title}.zip with the title made filesystem-safe.
func SavedName(f *model.Filing) string {
	return fmt.Sprintf("%s_%s_%s.zip",
		f.DisclosedAt.In(JST).Format("1504"),
		SafeFilename(f.Code, 8),
		SafeFilename(f.Title, 120))
}

// ParseSavedName recovers filing metadata from an archive path laid out as
// {data_dir}/{YYYYMMDD}/{HHMM}_{code}_{title}.zip. Underscores inside the
// title survive; only the first two separators split.
func ParseSavedName(path string) (*model.Filing, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.SplitN(stem, "_", 3)
	if len(parts) != 3 || parts[1] == "" {
		return nil, eris.Errorf("tdnet: unrecognized archive name %q", base)
	}

	day := filepath.Base(filepath.Dir(path))
	disclosed, err := time.ParseInLocation("200601021504", day+parts[0], JST)
	if err != nil {
		return nil, eris.Wrapf(err, "tdnet: archive %q carries no date and time", base)
	}

	_, category := Categorize(parts[2])
	return &model.Filing{
		Code:        parts[1],
		Title:       parts[2],
		Category:    category,
		DisclosedAt: disclosed,
		ZipPath:     path,
		Status:      model.FilingStatusDownloaded,
	}, nil
}

// DownloadFiling saves the filing archive under dataDir/{YYYYMMDD}/. An
// archive already on disk is not fetched again; skipped reports that case.
// On success the filing's ZipPath and Status are updated in place.
func (c *Client) DownloadFiling(ctx context.Context, f *model.Filing, dataDir string) (skipped bool, err error) {
	if f.ZipURL == "" {
		return false, eris.Errorf("tdnet: filing %s %s has no archive link", f.Code, f.Title)
	}

	dir := DayDir(dataDir, f.DisclosedAt)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, eris.Wrap(err, "tdnet: create day directory")
	}

	path := filepath.Join(dir, SavedName(f))
	if _, err := os.Stat(path); err == nil {
		f.ZipPath = path
		if f.Status == model.FilingStatusDiscovered {
			f.Status = model.FilingStatusDownloaded
		}
		return true, nil
	}

	if _, err := c.fetcher.DownloadToFile(ctx, f.ZipURL, path); err != nil {
		return false, err
	}
	f.ZipPath = path
	f.Status = model.FilingStatusDownloaded
	return false, nil
}
