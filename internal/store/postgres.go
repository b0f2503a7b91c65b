package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/kessan-lab/tanshin-cli/internal/db"
	"github.com/kessan-lab/tanshin-cli/internal/model"
	"github.com/kessan-lab/tanshin-cli/internal/xbrl"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	upsertFilingSQL = `INSERT INTO filings
		(id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (code, disclosed_at, title) DO UPDATE SET
		name       = EXCLUDED.name,
		category   = EXCLUDED.category,
		zip_url    = CASE WHEN EXCLUDED.zip_url  <> '' THEN EXCLUDED.zip_url  ELSE filings.zip_url  END,
		pdf_url    = CASE WHEN EXCLUDED.pdf_url  <> '' THEN EXCLUDED.pdf_url  ELSE filings.pdf_url  END,
		zip_path   = CASE WHEN EXCLUDED.zip_path <> '' THEN EXCLUDED.zip_path ELSE filings.zip_path END,
		status     = CASE
			WHEN filings.status = 'analyzed' THEN filings.status
			WHEN EXCLUDED.status = 'discovered' THEN filings.status
			ELSE EXCLUDED.status
		END,
		updated_at = EXCLUDED.updated_at
	RETURNING id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at`

	getFilingSQL = `SELECT id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at FROM filings WHERE id = $1`

	updateFilingStatusSQL = `UPDATE filings SET status = $1, updated_at = $2 WHERE id = $3`

	insertAnalysisSQL = `INSERT INTO analyses
		(id, filing_id, document, shape, threshold, fact_count, context_count, significant_count, result, analyzed_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	getAnalysisSQL = `SELECT id, filing_id, document, shape, threshold, fact_count, context_count, significant_count, result, analyzed_at, created_at
	FROM analyses WHERE filing_id = $1 ORDER BY created_at DESC LIMIT 1`

	hasAnalysisSQL = `SELECT EXISTS (SELECT 1 FROM analyses WHERE filing_id = $1)`
)

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"upsert_filing":        upsertFilingSQL,
	"get_filing":           getFilingSQL,
	"update_filing_status": updateFilingStatusSQL,
	"insert_analysis":      insertAnalysisSQL,
	"get_analysis":         getAnalysisSQL,
	"has_analysis":         hasAnalysisSQL,
}

// filingColumns is the COPY column order for bulk filing loads.
var filingColumns = []string{
	"id", "code", "name", "title", "category", "disclosed_at",
	"zip_url", "pdf_url", "zip_path", "status", "created_at", "updated_at",
}

// factColumns is the COPY column order for the facts table.
var factColumns = []string{
	"analysis_id", "filing_id", "element", "original", "prefix",
	"context_ref", "role", "value", "raw", "unit", "decimals",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS filings (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	code         TEXT NOT NULL,
	name         TEXT NOT NULL,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	disclosed_at TIMESTAMPTZ NOT NULL,
	zip_url      TEXT NOT NULL DEFAULT '',
	pdf_url      TEXT NOT NULL DEFAULT '',
	zip_path     TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'discovered',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (code, disclosed_at, title)
);

CREATE TABLE IF NOT EXISTS analyses (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	filing_id         TEXT NOT NULL REFERENCES filings(id),
	document          TEXT NOT NULL,
	shape             TEXT NOT NULL,
	threshold         DOUBLE PRECISION NOT NULL,
	fact_count        INTEGER NOT NULL,
	context_count     INTEGER NOT NULL,
	significant_count INTEGER NOT NULL,
	result            JSONB NOT NULL,
	analyzed_at       TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS facts (
	analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
	filing_id   TEXT NOT NULL,
	element     TEXT NOT NULL,
	original    TEXT NOT NULL DEFAULT '',
	prefix      TEXT NOT NULL DEFAULT '',
	context_ref TEXT NOT NULL,
	role        TEXT NOT NULL,
	value       DOUBLE PRECISION,
	raw         TEXT NOT NULL,
	unit        TEXT NOT NULL DEFAULT '',
	decimals    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_filings_code ON filings(code);
CREATE INDEX IF NOT EXISTS idx_filings_status ON filings(status);
CREATE INDEX IF NOT EXISTS idx_filings_disclosed_at ON filings(disclosed_at);
CREATE INDEX IF NOT EXISTS idx_analyses_filing_id ON analyses(filing_id);
CREATE INDEX IF NOT EXISTS idx_facts_analysis_id ON facts(analysis_id);
CREATE INDEX IF NOT EXISTS idx_facts_filing_element ON facts(filing_id, element);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertFiling(ctx context.Context, f *model.Filing) (*model.Filing, error) {
	if f.Code == "" || f.Title == "" {
		return nil, eris.New("postgres: filing needs code and title")
	}

	id := f.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := f.Status
	if status == "" {
		status = model.FilingStatusDiscovered
	}
	now := time.Now().UTC()

	var out model.Filing
	err := s.pool.QueryRow(ctx, upsertFilingSQL,
		id, f.Code, f.Name, f.Title, f.Category, f.DisclosedAt.UTC(),
		f.ZipURL, f.PDFURL, f.ZipPath, string(status), now, now,
	).Scan(&out.ID, &out.Code, &out.Name, &out.Title, &out.Category, &out.DisclosedAt,
		&out.ZipURL, &out.PDFURL, &out.ZipPath, &out.Status, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert filing %s %s", f.Code, f.Title)
	}
	return &out, nil
}

// BulkUpsertFilings writes a whole day's listing in one round trip. Unlike
// UpsertFiling it refreshes listing metadata only: zip_path and status of
// existing rows are left alone, and no canonical rows are reported back.
func (s *PostgresStore) BulkUpsertFilings(ctx context.Context, filings []model.Filing) (int64, error) {
	if len(filings) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(filings))
	for _, f := range filings {
		id := f.ID
		if id == "" {
			id = uuid.New().String()
		}
		status := f.Status
		if status == "" {
			status = model.FilingStatusDiscovered
		}
		rows = append(rows, []any{
			id, f.Code, f.Name, f.Title, f.Category, f.DisclosedAt.UTC(),
			f.ZipURL, f.PDFURL, f.ZipPath, string(status), now, now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "filings",
		Columns:      filingColumns,
		ConflictKeys: []string{"code", "disclosed_at", "title"},
		UpdateCols:   []string{"name", "category", "zip_url", "pdf_url", "updated_at"},
	}, rows)
	return n, eris.Wrap(err, "postgres: bulk upsert filings")
}

func (s *PostgresStore) GetFiling(ctx context.Context, id string) (*model.Filing, error) {
	var f model.Filing
	err := s.pool.QueryRow(ctx, getFilingSQL, id).
		Scan(&f.ID, &f.Code, &f.Name, &f.Title, &f.Category, &f.DisclosedAt,
			&f.ZipURL, &f.PDFURL, &f.ZipPath, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: filing %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get filing %s", id)
	}
	return &f, nil
}

func (s *PostgresStore) ListFilings(ctx context.Context, filter FilingFilter) ([]model.Filing, error) {
	query := `SELECT id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at FROM filings WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Code != "" {
		query += fmt.Sprintf(` AND code = $%d`, argIdx)
		args = append(args, filter.Code)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND disclosed_at >= $%d`, argIdx)
		args = append(args, filter.Since)
		argIdx++
	}
	if !filter.Until.IsZero() {
		query += fmt.Sprintf(` AND disclosed_at < $%d`, argIdx)
		args = append(args, filter.Until)
		argIdx++
	}
	query += ` ORDER BY disclosed_at DESC, code ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list filings")
	}
	defer rows.Close()

	var filings []model.Filing
	for rows.Next() {
		var f model.Filing
		if err := rows.Scan(&f.ID, &f.Code, &f.Name, &f.Title, &f.Category, &f.DisclosedAt,
			&f.ZipURL, &f.PDFURL, &f.ZipPath, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan filing")
		}
		filings = append(filings, f)
	}
	return filings, eris.Wrap(rows.Err(), "postgres: list filings iterate")
}

func (s *PostgresStore) UpdateFilingStatus(ctx context.Context, id string, status model.FilingStatus) error {
	if !status.Valid() {
		return eris.Errorf("postgres: invalid status %q", status)
	}
	tag, err := s.pool.Exec(ctx, updateFilingStatusSQL, string(status), time.Now().UTC(), id)
	if err != nil {
		return eris.Wrapf(err, "postgres: update filing status %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "filing %s", id)
	}
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a.FilingID == "" {
		return eris.New("postgres: analysis needs filing_id")
	}

	id := a.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, insertAnalysisSQL,
		id, a.FilingID, a.Document, a.Shape, a.Threshold,
		a.FactCount, a.ContextCount, a.SignificantCount,
		[]byte(a.Result), a.AnalyzedAt.UTC(), createdAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert analysis for filing %s", a.FilingID)
	}
	return s.copyFacts(ctx, id, a.FilingID, a.Result)
}

// copyFacts bulk-loads the individual facts out of the result payload into
// the facts table so they can be queried with plain SQL.
func (s *PostgresStore) copyFacts(ctx context.Context, analysisID, filingID string, result json.RawMessage) error {
	if len(result) == 0 {
		return nil
	}

	var payload struct {
		Facts []xbrl.Fact `json:"facts"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return eris.Wrap(err, "postgres: decode result facts")
	}
	if len(payload.Facts) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(payload.Facts))
	for _, f := range payload.Facts {
		var value any
		if f.Value != nil {
			value = *f.Value
		}
		rows = append(rows, []any{
			analysisID, filingID, f.Element, f.Original, f.Prefix,
			f.ContextRef, string(f.Role), value, f.Raw, f.Unit, f.Decimals,
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, "facts", factColumns, rows)
	return eris.Wrapf(err, "postgres: copy facts for analysis %s", analysisID)
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, filingID string) (*model.Analysis, error) {
	var a model.Analysis
	var result []byte
	err := s.pool.QueryRow(ctx, getAnalysisSQL, filingID).
		Scan(&a.ID, &a.FilingID, &a.Document, &a.Shape, &a.Threshold,
			&a.FactCount, &a.ContextCount, &a.SignificantCount, &result, &a.AnalyzedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: analysis for filing %s", filingID)
		}
		return nil, eris.Wrapf(err, "postgres: get analysis for filing %s", filingID)
	}
	a.Result = json.RawMessage(result)
	return &a, nil
}

func (s *PostgresStore) HasAnalysis(ctx context.Context, filingID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, hasAnalysisSQL, filingID).Scan(&exists)
	if err != nil {
		return false, eris.Wrap(err, "postgres: has analysis")
	}
	return exists, nil
}

func (s *PostgresStore) ListAnalyzed(ctx context.Context, filter FilingFilter) ([]AnalyzedFiling, error) {
	query := `SELECT f.id, f.code, f.name, f.title, f.category, f.disclosed_at, f.zip_url, f.pdf_url, f.zip_path, f.status, f.created_at, f.updated_at,
		a.id, a.filing_id, a.document, a.shape, a.threshold, a.fact_count, a.context_count, a.significant_count, a.result, a.analyzed_at, a.created_at
		FROM filings f
		JOIN analyses a ON a.id = (SELECT id FROM analyses WHERE filing_id = f.id ORDER BY created_at DESC LIMIT 1)
		WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Code != "" {
		query += fmt.Sprintf(` AND f.code = $%d`, argIdx)
		args = append(args, filter.Code)
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND f.category = $%d`, argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND f.disclosed_at >= $%d`, argIdx)
		args = append(args, filter.Since)
		argIdx++
	}
	if !filter.Until.IsZero() {
		query += fmt.Sprintf(` AND f.disclosed_at < $%d`, argIdx)
		args = append(args, filter.Until)
		argIdx++
	}
	query += ` ORDER BY f.disclosed_at DESC, f.code ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyzed")
	}
	defer rows.Close()

	var out []AnalyzedFiling
	for rows.Next() {
		var af AnalyzedFiling
		var result []byte
		if err := rows.Scan(
			&af.Filing.ID, &af.Filing.Code, &af.Filing.Name, &af.Filing.Title, &af.Filing.Category,
			&af.Filing.DisclosedAt, &af.Filing.ZipURL, &af.Filing.PDFURL, &af.Filing.ZipPath,
			&af.Filing.Status, &af.Filing.CreatedAt, &af.Filing.UpdatedAt,
			&af.Analysis.ID, &af.Analysis.FilingID, &af.Analysis.Document, &af.Analysis.Shape,
			&af.Analysis.Threshold, &af.Analysis.FactCount, &af.Analysis.ContextCount,
			&af.Analysis.SignificantCount, &result, &af.Analysis.AnalyzedAt, &af.Analysis.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analyzed filing")
		}
		af.Analysis.Result = json.RawMessage(result)
		out = append(out, af)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list analyzed iterate")
}
