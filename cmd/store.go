package main

import (
	"context"
	"net/url"

	"github.com/kessan-lab/tanshin-cli/internal/analyze"
	"github.com/kessan-lab/tanshin-cli/internal/fetcher"
	"github.com/kessan-lab/tanshin-cli/internal/store"
	"github.com/kessan-lab/tanshin-cli/internal/taxonomy"
	"github.com/kessan-lab/tanshin-cli/internal/tdnet"
)

// initStore opens the configured backend and brings the schema up to date.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// newAnalyzer builds the engine from config, with threshold overridable per
// command. A zero override keeps the configured value.
func newAnalyzer(threshold float64) (*analyze.Analyzer, *taxonomy.Table, error) {
	table, err := taxonomy.Load(cfg.Analysis.TaxonomyPath)
	if err != nil {
		return nil, nil, err
	}
	if threshold <= 0 {
		threshold = cfg.Analysis.Threshold
	}
	return analyze.New(table, threshold), table, nil
}

// newTDnetClient wires the rate-limited fetcher to the configured TDnet site.
// A positive maxPages overrides the configured page cap.
func newTDnetClient(maxPages int) *tdnet.Client {
	if maxPages <= 0 {
		maxPages = cfg.TDnet.MaxPages
	}
	limiters, adaptive := fetcher.RateLimitersFor(hostOf(cfg.TDnet.BaseURL), cfg.TDnet.RatePerSec)
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:        cfg.TDnet.UserAgent,
		Headers:          tdnet.Headers(cfg.TDnet.BaseURL),
		RateLimiters:     limiters,
		AdaptiveLimiters: adaptive,
	})
	return tdnet.NewClient(f, tdnet.Options{BaseURL: cfg.TDnet.BaseURL, MaxPages: maxPages})
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
