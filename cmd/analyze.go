package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/compare"
	"github.com/kessan-lab/tanshin-cli/internal/export"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/store"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
)

var (
	analyzeThreshold float64
	analyzeJSONPath  string
	analyzeXLSXPath  string
	analyzeSave      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <archive.zip> [archive.zip...]",
	Short: "Analyze XBRL archives and report margins and significant changes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}
		if len(args) > 1 && (analyzeJSONPath != "" || analyzeXLSXPath != "") {
			return eris.New("--json and --xlsx write a single file, pass one archive")
		}

		an, table, err := newAnalyzer(analyzeThreshold)
		if err != nil {
			return err
		}

		var st store.Store
		if analyzeSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		for _, path := range args {
			res, err := an.AnalyzeZip(path)
			if err != nil {
				return eris.Wrapf(err, "analyze %s", path)
			}
			filing := filingForArchive(path)
			printSummary(filing, res)

			if analyzeJSONPath != "" {
				if err := writeResultJSON(analyzeJSONPath, res); err != nil {
					return err
				}
			}
			if analyzeXLSXPath != "" {
				if err := export.WriteWorkbook(analyzeXLSXPath, *filing, res, table); err != nil {
					return err
				}
			}
			if st != nil {
				if err := saveResult(ctx, st, filing, res); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "significant change threshold (0 = config)")
	analyzeCmd.Flags().StringVar(&analyzeJSONPath, "json", "", "write the full result as JSON to this path")
	analyzeCmd.Flags().StringVar(&analyzeXLSXPath, "xlsx", "", "write an Excel workbook to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the filing and result to the store")
	rootCmd.AddCommand(analyzeCmd)
}

// filingForArchive recovers filing metadata from the saved archive name.
// Ad-hoc archives that were not fetched by this tool get placeholder fields.
func filingForArchive(path string) *model.Filing {
	f, err := tdnet.ParseSavedName(path)
	if err != nil {
		return &model.Filing{Title: filepath.Base(path), ZipPath: path}
	}
	return f
}

func printSummary(f *model.Filing, res *analyze.Result) {
	if f.Code != "" {
		fmt.Printf("%s %s\n", f.Code, f.Title)
	}
	fmt.Printf("document: %s  shape: %s  facts: %d  contexts: %d\n",
		res.Document, res.Shape, len(res.Facts), res.ContextCount)

	if len(res.Margins) > 0 {
		fmt.Println("\n【利益率】")
		for _, m := range res.Margins {
			fmt.Printf("  %s: 当期 %s ← 前期 %s\n", m.Metric, formatPct(m.Current), formatPct(m.Prior))
		}
	}
	if len(res.Significant) > 0 {
		fmt.Printf("\n【大幅変動（閾値%.0f%%以上）】\n", res.Threshold*100)
		for i, row := range res.Significant {
			if i == 10 {
				break
			}
			dir := "↓"
			if *row.Rate > 0 {
				dir = "↑"
			}
			fmt.Printf("  %s %s: %+.1f%%\n", dir, displayLabel(row), *row.Rate*100)
		}
	}
	fmt.Println()
}

func formatPct(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func displayLabel(row compare.Row) string {
	if row.Label != "" {
		return row.Label
	}
	return row.Element
}

func writeResultJSON(path string, res *analyze.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode result")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "write result json")
	}
	return nil
}

// saveResult persists the filing and its analysis, marking the filing
// analyzed. Archives whose names carry no filing metadata cannot be keyed in
// the store and are skipped with a warning.
func saveResult(ctx context.Context, st store.Store, filing *model.Filing, res *analyze.Result) error {
	if filing.Code == "" {
		zap.L().Warn("archive name carries no filing metadata, not saving",
			zap.String("title", filing.Title))
		return nil
	}
	canon, err := st.UpsertFiling(ctx, filing)
	if err != nil {
		return eris.Wrap(err, "save filing")
	}
	rec, err := res.Record(canon.ID)
	if err != nil {
		return err
	}
	if err := st.SaveAnalysis(ctx, rec); err != nil {
		return eris.Wrap(err, "save analysis")
	}
	canon.Status = model.FilingStatusAnalyzed
	if _, err := st.UpsertFiling(ctx, canon); err != nil {
		return eris.Wrap(err, "mark analyzed")
	}
	zap.L().Info("analysis saved", zap.String("filing", canon.ID), zap.String("code", canon.Code))
	return nil
}
