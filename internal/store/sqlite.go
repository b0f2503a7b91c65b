package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS filings (
	id           TEXT PRIMARY KEY,
	code         TEXT NOT NULL,
	name         TEXT NOT NULL,
	title        TEXT NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	disclosed_at DATETIME NOT NULL,
	zip_url      TEXT NOT NULL DEFAULT '',
	pdf_url      TEXT NOT NULL DEFAULT '',
	zip_path     TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'discovered',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (code, disclosed_at, title)
);

CREATE TABLE IF NOT EXISTS analyses (
	id                TEXT PRIMARY KEY,
	filing_id         TEXT NOT NULL REFERENCES filings(id),
	document          TEXT NOT NULL,
	shape             TEXT NOT NULL,
	threshold         REAL NOT NULL,
	fact_count        INTEGER NOT NULL,
	context_count     INTEGER NOT NULL,
	significant_count INTEGER NOT NULL,
	result            TEXT NOT NULL,
	analyzed_at       DATETIME NOT NULL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_filings_code ON filings(code);
CREATE INDEX IF NOT EXISTS idx_filings_status ON filings(status);
CREATE INDEX IF NOT EXISTS idx_filings_disclosed_at ON filings(disclosed_at);
CREATE INDEX IF NOT EXISTS idx_analyses_filing_id ON analyses(filing_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertFiling(ctx context.Context, f *model.Filing) (*model.Filing, error) {
	if f.Code == "" || f.Title == "" {
		return nil, eris.New("sqlite: filing needs code and title")
	}

	id := f.ID
	if id == "" {
		id = uuid.New().String()
	}
	status := f.Status
	if status == "" {
		status = model.FilingStatusDiscovered
	}
	// Times are normalized to UTC before binding so range comparisons over
	// the stored text hold.
	disclosedAt := f.DisclosedAt.UTC()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO filings
			(id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (code, disclosed_at, title) DO UPDATE SET
			name       = excluded.name,
			category   = excluded.category,
			zip_url    = CASE WHEN excluded.zip_url  != '' THEN excluded.zip_url  ELSE filings.zip_url  END,
			pdf_url    = CASE WHEN excluded.pdf_url  != '' THEN excluded.pdf_url  ELSE filings.pdf_url  END,
			zip_path   = CASE WHEN excluded.zip_path != '' THEN excluded.zip_path ELSE filings.zip_path END,
			status     = CASE
				WHEN filings.status = 'analyzed' THEN filings.status
				WHEN excluded.status = 'discovered' THEN filings.status
				ELSE excluded.status
			END,
			updated_at = excluded.updated_at`,
		id, f.Code, f.Name, f.Title, f.Category, disclosedAt,
		f.ZipURL, f.PDFURL, f.ZipPath, string(status), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert filing %s %s", f.Code, f.Title)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at
		 FROM filings WHERE code = ? AND disclosed_at = ? AND title = ?`,
		f.Code, disclosedAt, f.Title,
	)
	return scanFiling(row)
}

func (s *SQLiteStore) GetFiling(ctx context.Context, id string) (*model.Filing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at
		 FROM filings WHERE id = ?`,
		id,
	)
	return scanFiling(row)
}

func (s *SQLiteStore) ListFilings(ctx context.Context, filter FilingFilter) ([]model.Filing, error) {
	query := `SELECT id, code, name, title, category, disclosed_at, zip_url, pdf_url, zip_path, status, created_at, updated_at FROM filings WHERE 1=1`
	var args []any

	if filter.Code != "" {
		query += ` AND code = ?`
		args = append(args, filter.Code)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if !filter.Since.IsZero() {
		query += ` AND disclosed_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		query += ` AND disclosed_at < ?`
		args = append(args, filter.Until.UTC())
	}
	query += ` ORDER BY disclosed_at DESC, code ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list filings")
	}
	defer rows.Close()

	var filings []model.Filing
	for rows.Next() {
		f, err := scanFiling(rows)
		if err != nil {
			return nil, err
		}
		filings = append(filings, *f)
	}
	return filings, eris.Wrap(rows.Err(), "sqlite: list filings iterate")
}

func (s *SQLiteStore) UpdateFilingStatus(ctx context.Context, id string, status model.FilingStatus) error {
	if !status.Valid() {
		return eris.Errorf("sqlite: invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE filings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update filing status %s", id)
	}
	return checkRowsAffected(res, "filing", id)
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, a *model.Analysis) error {
	if a.FilingID == "" {
		return eris.New("sqlite: analysis needs filing_id")
	}

	id := a.ID
	if id == "" {
		id = uuid.New().String()
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses
			(id, filing_id, document, shape, threshold, fact_count, context_count, significant_count, result, analyzed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, a.FilingID, a.Document, a.Shape, a.Threshold,
		a.FactCount, a.ContextCount, a.SignificantCount,
		string(a.Result), a.AnalyzedAt.UTC(), createdAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert analysis for filing %s", a.FilingID)
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, filingID string) (*model.Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filing_id, document, shape, threshold, fact_count, context_count, significant_count, result, analyzed_at, created_at
		 FROM analyses WHERE filing_id = ?
		 ORDER BY created_at DESC LIMIT 1`,
		filingID,
	)
	return scanAnalysis(row)
}

func (s *SQLiteStore) HasAnalysis(ctx context.Context, filingID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM analyses WHERE filing_id = ?`,
		filingID,
	).Scan(&n)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: has analysis")
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListAnalyzed(ctx context.Context, filter FilingFilter) ([]AnalyzedFiling, error) {
	query := `SELECT f.id, f.code, f.name, f.title, f.category, f.disclosed_at, f.zip_url, f.pdf_url, f.zip_path, f.status, f.created_at, f.updated_at,
		a.id, a.filing_id, a.document, a.shape, a.threshold, a.fact_count, a.context_count, a.significant_count, a.result, a.analyzed_at, a.created_at
		FROM filings f
		JOIN analyses a ON a.id = (SELECT id FROM analyses WHERE filing_id = f.id ORDER BY created_at DESC LIMIT 1)
		WHERE 1=1`
	var args []any

	if filter.Code != "" {
		query += ` AND f.code = ?`
		args = append(args, filter.Code)
	}
	if filter.Category != "" {
		query += ` AND f.category = ?`
		args = append(args, filter.Category)
	}
	if !filter.Since.IsZero() {
		query += ` AND f.disclosed_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		query += ` AND f.disclosed_at < ?`
		args = append(args, filter.Until.UTC())
	}
	query += ` ORDER BY f.disclosed_at DESC, f.code ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyzed")
	}
	defer rows.Close()

	var out []AnalyzedFiling
	for rows.Next() {
		var af AnalyzedFiling
		var result string
		if err := rows.Scan(
			&af.Filing.ID, &af.Filing.Code, &af.Filing.Name, &af.Filing.Title, &af.Filing.Category,
			&af.Filing.DisclosedAt, &af.Filing.ZipURL, &af.Filing.PDFURL, &af.Filing.ZipPath,
			&af.Filing.Status, &af.Filing.CreatedAt, &af.Filing.UpdatedAt,
			&af.Analysis.ID, &af.Analysis.FilingID, &af.Analysis.Document, &af.Analysis.Shape,
			&af.Analysis.Threshold, &af.Analysis.FactCount, &af.Analysis.ContextCount,
			&af.Analysis.SignificantCount, &result, &af.Analysis.AnalyzedAt, &af.Analysis.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analyzed filing")
		}
		af.Analysis.Result = json.RawMessage(result)
		out = append(out, af)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list analyzed iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanFiling(row scannable) (*model.Filing, error) {
	var f model.Filing
	err := row.Scan(&f.ID, &f.Code, &f.Name, &f.Title, &f.Category, &f.DisclosedAt,
		&f.ZipURL, &f.PDFURL, &f.ZipPath, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "sqlite: filing")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan filing")
	}
	return &f, nil
}

func scanAnalysis(row scannable) (*model.Analysis, error) {
	var a model.Analysis
	var result string
	err := row.Scan(&a.ID, &a.FilingID, &a.Document, &a.Shape, &a.Threshold,
		&a.FactCount, &a.ContextCount, &a.SignificantCount, &result, &a.AnalyzedAt, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "sqlite: analysis")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan analysis")
	}
	a.Result = json.RawMessage(result)
	return &a, nil
}
