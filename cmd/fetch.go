package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/bundle"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/store"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
)

var (
	fetchDate       string
	fetchPages      int
	fetchCode       string
	fetchNoDownload bool
	fetchExtract    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Scrape a day's TDnet disclosures and download XBRL archives",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("fetch"); err != nil {
			return err
		}
		day, err := parseDay(fetchDate)
		if err != nil {
			return err
		}

		client := newTDnetClient(fetchPages)
		filings, err := client.ListDay(ctx, day)
		if err != nil {
			return eris.Wrapf(err, "list disclosures for %s", day.Format("2006-01-02"))
		}
		if fetchCode != "" {
			filings = filterByCode(filings, fetchCode)
		}
		zap.L().Info("disclosures listed",
			zap.String("day", day.Format("2006-01-02")),
			zap.Int("filings", len(filings)))
		if len(filings) == 0 {
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if pg, ok := st.(*store.PostgresStore); ok {
			rows, err := pg.BulkUpsertFilings(ctx, filings)
			if err != nil {
				return eris.Wrap(err, "index filings")
			}
			zap.L().Debug("filings indexed", zap.Int64("rows", rows))
		} else {
			for i := range filings {
				canon, err := st.UpsertFiling(ctx, &filings[i])
				if err != nil {
					return eris.Wrapf(err, "index filing %s", filings[i].Code)
				}
				filings[i] = *canon
			}
		}

		if !fetchNoDownload {
			downloadAll(ctx, st, client, filings)
		}

		dir := tdnet.DayDir(cfg.TDnet.DataDir, day)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "create day directory")
		}
		if err := tdnet.WriteIndex(filepath.Join(dir, tdnet.IndexFileName), filings); err != nil {
			return err
		}
		zap.L().Info("day index written", zap.String("path", filepath.Join(dir, tdnet.IndexFileName)))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "disclosure date, YYYY-MM-DD (default today in JST)")
	fetchCmd.Flags().IntVar(&fetchPages, "pages", 0, "max list pages to scrape (0 = config)")
	fetchCmd.Flags().StringVar(&fetchCode, "code", "", "only keep disclosures for this securities code")
	fetchCmd.Flags().BoolVar(&fetchNoDownload, "no-download", false, "list and index only, skip archive downloads")
	fetchCmd.Flags().BoolVar(&fetchExtract, "extract", false, "unpack each archive into a sibling directory")
	rootCmd.AddCommand(fetchCmd)
}

// downloadAll fetches each filing's archive and records the outcome. Download
// failures are logged per filing so one broken archive does not stop the day.
func downloadAll(ctx context.Context, st store.Store, client *tdnet.Client, filings []model.Filing) {
	var downloaded, skipped, failed int
	for i := range filings {
		f := &filings[i]
		if f.ZipURL == "" {
			continue
		}
		wasSkipped, err := client.DownloadFiling(ctx, f, cfg.TDnet.DataDir)
		if err != nil {
			failed++
			zap.L().Warn("download failed",
				zap.String("code", f.Code),
				zap.String("title", f.Title),
				zap.Error(err))
			continue
		}
		if wasSkipped {
			skipped++
		} else {
			downloaded++
		}
		if fetchExtract {
			if err := extractArchive(f.ZipPath); err != nil {
				zap.L().Warn("extract failed", zap.String("path", f.ZipPath), zap.Error(err))
			}
		}
		if _, err := st.UpsertFiling(ctx, f); err != nil {
			zap.L().Error("record download", zap.String("code", f.Code), zap.Error(err))
		}
	}
	zap.L().Info("archives downloaded",
		zap.Int("downloaded", downloaded),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed))
}

// extractArchive unpacks an archive into a sibling directory named after its
// stem.
func extractArchive(zipPath string) error {
	b, err := bundle.Open(zipPath)
	if err != nil {
		return err
	}
	defer b.Close() //nolint:errcheck

	dest := strings.TrimSuffix(zipPath, filepath.Ext(zipPath))
	paths, err := b.Extract(dest)
	if err != nil {
		return err
	}
	zap.L().Debug("archive extracted", zap.String("dir", dest), zap.Int("files", len(paths)))
	return nil
}

// parseDay accepts YYYY-MM-DD or YYYYMMDD. An empty value means today in JST.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().In(tdnet.JST)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tdnet.JST), nil
	}
	for _, layout := range []string{"2006-01-02", "20060102"} {
		if day, err := time.ParseInLocation(layout, s, tdnet.JST); err == nil {
			return day, nil
		}
	}
	return time.Time{}, eris.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// filterByCode keeps filings matching code. A 4-digit code matches the
// 5-digit TDnet form with its check digit.
func filterByCode(filings []model.Filing, code string) []model.Filing {
	kept := filings[:0]
	for _, f := range filings {
		if f.Code == code || (len(code) == 4 && len(f.Code) == 5 && f.Code[:4] == code) {
			kept = append(kept, f)
		}
	}
	return kept
}
