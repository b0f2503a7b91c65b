package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/export"
	"github.com/kessan-lab/tanshin-cli/internal/store"
	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
)

var (
	exportFormat string
	exportOut    string
	exportCode   string
	exportDate   string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write analyzed filings as Excel workbooks or a dashboard JSON dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = cfg.Export.Dir
		}

		filter := store.FilingFilter{Code: exportCode, Limit: exportLimit}
		if exportDate != "" {
			day, err := parseDay(exportDate)
			if err != nil {
				return err
			}
			filter.Since = day
			filter.Until = day.AddDate(0, 0, 1)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.ListAnalyzed(ctx, filter)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			zap.L().Info("no analyzed filings match the filter")
			return nil
		}

		switch exportFormat {
		case "json":
			n, err := export.WriteJSON(out, items)
			if err != nil {
				return err
			}
			zap.L().Info("dashboard dataset written", zap.String("dir", out), zap.Int("filings", n))
		case "xlsx":
			n, err := writeWorkbooks(out, items)
			if err != nil {
				return err
			}
			zap.L().Info("workbooks written", zap.String("dir", out), zap.Int("count", n))
		default:
			return eris.Errorf("unknown format %q (want xlsx or json)", exportFormat)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format: xlsx or json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default = config export dir)")
	exportCmd.Flags().StringVar(&exportCode, "code", "", "only export this securities code")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "only export filings disclosed on this date, YYYY-MM-DD")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "max filings to export")
	rootCmd.AddCommand(exportCmd)
}

func writeWorkbooks(out string, items []store.AnalyzedFiling) (int, error) {
	table, err := taxonomy.Load(cfg.Analysis.TaxonomyPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return 0, eris.Wrap(err, "create export dir")
	}
	written := 0
	for _, item := range items {
		var res analyze.Result
		if err := json.Unmarshal(item.Analysis.Result, &res); err != nil {
			zap.L().Warn("skip undecodable result",
				zap.String("filing", item.Filing.ID), zap.Error(err))
			continue
		}
		path := filepath.Join(out, export.WorkbookName(item.Filing))
		if err := export.WriteWorkbook(path, item.Filing, &res, table); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
