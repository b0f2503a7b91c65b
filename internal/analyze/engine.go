package analyze

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// Store is the slice of persistence the batch engine needs. A nil Store
// disables skip detection and result storage.
type Store interface {
	UpsertFiling(ctx context.Context, f *model.Filing) (*model.Filing, error)
	HasAnalysis(ctx context.Context, filingID string) (bool, error)
	SaveAnalysis(ctx context.Context, a *model.Analysis) error
}

// BatchItem is one archive queued for analysis. Filing metadata is optional;
// without it results are computed but not persisted.
type BatchItem struct {
	Path   string
	Filing *model.Filing
}

// BatchResult counts the outcomes of one batch run.
type BatchResult struct {
	Analyzed int64 `json:"analyzed"`
	Skipped  int64 `json:"skipped"`
	Failed   int64 `json:"failed"`
}

// Batch analyzes the given archives with up to workers goroutines. Individual
// failures are counted and logged, not returned; the error covers only
// context cancellation.
func (a *Analyzer) Batch(ctx context.Context, items []BatchItem, st Store, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	var analyzed, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			log := zap.L().With(zap.String("path", item.Path))

			var filing *model.Filing
			if st != nil && item.Filing != nil {
				var err error
				filing, err = st.UpsertFiling(ctx, item.Filing)
				if err != nil {
					failed.Add(1)
					log.Error("upsert filing", zap.Error(err))
					return nil // don't abort batch on individual failure
				}
				done, err := st.HasAnalysis(ctx, filing.ID)
				if err != nil {
					failed.Add(1)
					log.Error("check analysis", zap.Error(err))
					return nil
				}
				if done {
					skipped.Add(1)
					log.Debug("already analyzed")
					return nil
				}
			}

			res, err := a.AnalyzeZip(item.Path)
			if err != nil {
				failed.Add(1)
				log.Warn("analyze", zap.Error(err))
				if st != nil && filing != nil {
					filing.Status = model.FilingStatusFailed
					if _, uerr := st.UpsertFiling(ctx, filing); uerr != nil {
						log.Error("mark failed", zap.Error(uerr))
					}
				}
				return nil
			}

			if st != nil && filing != nil {
				rec, err := res.Record(filing.ID)
				if err != nil {
					failed.Add(1)
					log.Error("encode analysis", zap.Error(err))
					return nil
				}
				if err := st.SaveAnalysis(ctx, rec); err != nil {
					failed.Add(1)
					log.Error("save analysis", zap.Error(err))
					return nil
				}
				filing.Status = model.FilingStatusAnalyzed
				if _, err := st.UpsertFiling(ctx, filing); err != nil {
					log.Error("mark analyzed", zap.Error(err))
				}
			}

			analyzed.Add(1)
			log.Info("analyzed",
				zap.String("document", res.Document),
				zap.Int("facts", len(res.Facts)),
				zap.Int("significant", len(res.Significant)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch analysis")
	}

	out := &BatchResult{
		Analyzed: analyzed.Load(),
		Skipped:  skipped.Load(),
		Failed:   failed.Load(),
	}
	zap.L().Info("batch complete",
		zap.Int64("analyzed", out.Analyzed),
		zap.Int64("skipped", out.Skipped),
		zap.Int64("failed", out.Failed))
	return out, nil
}
