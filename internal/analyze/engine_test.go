package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kessan-lab/tanshin-cli/internal/model"
)

type memStore struct {
	mu       sync.Mutex
	filings  map[string]*model.Filing
	analyses map[string][]*model.Analysis
}

func newMemStore() *memStore {
	return &memStore{
		filings:  make(map[string]*model.Filing),
		analyses: make(map[string][]*model.Analysis),
	}
}

func (m *memStore) UpsertFiling(_ context.Context, f *model.Filing) (*model.Filing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := f.Code + "|" + f.Title
	cp := *f
	if cur, ok := m.filings[key]; ok {
		cp.ID = cur.ID
	} else {
		cp.ID = fmt.Sprintf("filing-%d", len(m.filings)+1)
	}
	m.filings[key] = &cp
	return &cp, nil
}

func (m *memStore) HasAnalysis(_ context.Context, filingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.analyses[filingID]) > 0, nil
}

func (m *memStore) SaveAnalysis(_ context.Context, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.FilingID] = append(m.analyses[a.FilingID], a)
	return nil
}

func (m *memStore) statusOf(code, title string) model.FilingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.filings[code+"|"+title]
	if !ok {
		return ""
	}
	return f.Status
}

func filing(code, title string) *model.Filing {
	return &model.Filing{
		Code:        code,
		Name:        "テスト株式会社",
		Title:       title,
		DisclosedAt: time.Date(2026, 5, 12, 15, 30, 0, 0, time.UTC),
		Status:      model.FilingStatusDownloaded,
	}
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeZip(t, dir, "good.zip", map[string]string{
		"XBRLData/Summary/tse-acedjpsm-72030-ixbrl.htm": summaryInline,
	})
	bad := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not an archive"), 0o644))
	empty := writeZip(t, dir, "empty.zip", map[string]string{
		"XBRLData/tse-acedjpfr-99840.xbrl": contextOnlyInstance,
	})

	st := newMemStore()
	items := []BatchItem{
		{Path: good, Filing: filing("72030", "決算短信")},
		{Path: bad, Filing: filing("99840", "決算短信")},
		{Path: empty},
	}

	a := New(nil, 0.2)
	res, err := a.Batch(context.Background(), items, st, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Analyzed)
	assert.Equal(t, int64(0), res.Skipped)
	assert.Equal(t, int64(2), res.Failed)

	assert.Equal(t, model.FilingStatusAnalyzed, st.statusOf("72030", "決算短信"))
	assert.Equal(t, model.FilingStatusFailed, st.statusOf("99840", "決算短信"))
	require.Len(t, st.analyses["filing-1"], 1)
	assert.Equal(t, 4, st.analyses["filing-1"][0].FactCount)

	// A second pass finds the stored analysis and skips the archive.
	res, err = a.Batch(context.Background(), items, st, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Analyzed)
	assert.Equal(t, int64(1), res.Skipped)
	assert.Equal(t, int64(2), res.Failed)
	require.Len(t, st.analyses["filing-1"], 1)
}

func TestBatch_NoStore(t *testing.T) {
	dir := t.TempDir()
	good := writeZip(t, dir, "good.zip", map[string]string{
		"XBRLData/Summary/tse-acedjpsm-72030-ixbrl.htm": summaryInline,
	})
	bad := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(bad, []byte("not an archive"), 0o644))

	res, err := New(nil, 0.2).Batch(context.Background(), []BatchItem{
		{Path: good},
		{Path: bad},
	}, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Analyzed)
	assert.Equal(t, int64(1), res.Failed)
}

func TestBatch_Canceled(t *testing.T) {
	dir := t.TempDir()
	good := writeZip(t, dir, "good.zip", map[string]string{
		"XBRLData/Summary/tse-acedjpsm-72030-ixbrl.htm": summaryInline,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, 0.2).Batch(ctx, []BatchItem{{Path: good}}, nil, 1)
	require.Error(t, err)
}
