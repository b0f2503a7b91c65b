// Package store persists filings and analysis results. SQLite is the default
// backend; Postgres adds SQL-side fact inspection.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// ErrNotFound is returned when a filing or analysis does not exist.
var ErrNotFound = eris.New("store: not found")

// FilingFilter specifies criteria for listing filings.
type FilingFilter struct {
	Code     string             `json:"code,omitempty"`
	Status   model.FilingStatus `json:"status,omitempty"`
	Category string             `json:"category,omitempty"`
	Since    time.Time          `json:"since,omitempty"` // disclosed_at >= Since
	Until    time.Time          `json:"until,omitempty"` // disclosed_at < Until
	Limit    int                `json:"limit,omitempty"`
	Offset   int                `json:"offset,omitempty"`
}

// AnalyzedFiling pairs a filing with its most recent stored analysis.
type AnalyzedFiling struct {
	Filing   model.Filing   `json:"filing"`
	Analysis model.Analysis `json:"analysis"`
}

// Store defines the persistence interface for the filing pipeline.
//
// UpsertFiling keys on (code, disclosed_at, title): re-listing a day never
// duplicates rows, link fields only overwrite when the incoming value is
// non-empty, and an analyzed status never regresses. The canonical row is
// returned.
type Store interface {
	// Filings
	UpsertFiling(ctx context.Context, f *model.Filing) (*model.Filing, error)
	GetFiling(ctx context.Context, id string) (*model.Filing, error)
	ListFilings(ctx context.Context, filter FilingFilter) ([]model.Filing, error)
	UpdateFilingStatus(ctx context.Context, id string, status model.FilingStatus) error

	// Analyses
	SaveAnalysis(ctx context.Context, a *model.Analysis) error
	GetAnalysis(ctx context.Context, filingID string) (*model.Analysis, error)
	HasAnalysis(ctx context.Context, filingID string) (bool, error)
	ListAnalyzed(ctx context.Context, filter FilingFilter) ([]AnalyzedFiling, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the configured backend. driver is "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, poolCfg)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
