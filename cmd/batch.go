package main

import (
	"io/fs"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
)

var (
	batchDir       string
	batchDate      string
	batchWorkers   int
	batchThreshold float64
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every filing archive under a directory and store the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("batch"); err != nil {
			return err
		}

		dir := batchDir
		if batchDate != "" {
			day, err := parseDay(batchDate)
			if err != nil {
				return err
			}
			dir = tdnet.DayDir(cfg.TDnet.DataDir, day)
		}
		if dir == "" {
			dir = cfg.TDnet.DataDir
		}

		items, err := collectItems(dir)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			zap.L().Info("no archives found", zap.String("dir", dir))
			return nil
		}

		an, _, err := newAnalyzer(batchThreshold)
		if err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Analysis.Workers
		}

		_, err = an.Batch(ctx, items, st, workers)
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory to scan for archives (default = tdnet data dir)")
	batchCmd.Flags().StringVar(&batchDate, "date", "", "analyze the archives fetched for this date, YYYY-MM-DD")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent analyzers (0 = config)")
	batchCmd.Flags().Float64Var(&batchThreshold, "threshold", 0, "significant change threshold (0 = config)")
	rootCmd.AddCommand(batchCmd)
}

// collectItems walks dir for .zip archives, in path order. Filing metadata is
// recovered from archive names where possible so results can be keyed.
func collectItems(dir string) ([]analyze.BatchItem, error) {
	var items []analyze.BatchItem
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".zip") {
			return nil
		}
		item := analyze.BatchItem{Path: path}
		if f, perr := tdnet.ParseSavedName(path); perr == nil {
			item.Filing = f
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "walk %s", dir)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items, nil
}
