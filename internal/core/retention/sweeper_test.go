package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/sales-analytics-be/internal/core/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunOnceDeletesOnlyExpired(t *testing.T) {
	provider, err := storage.NewLocalProvider(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	old, err := provider.Save(ctx, strings.NewReader("old"), "old.xlsx", nil)
	require.NoError(t, err)
	fresh, err := provider.Save(ctx, strings.NewReader("fresh"), "fresh.xlsx", nil)
	require.NoError(t, err)

	require.NoError(t, os.Chtimes(old.Path, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))

	report, err := NewSweeper(provider, 24*time.Hour).RunOnce(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, []string{old.Key}, report.Deleted)
	assert.Zero(t, report.Failed)

	_, err = os.Stat(old.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh.Path)
	assert.NoError(t, err)
}

func TestSweeper_DisabledWindowKeepsEverything(t *testing.T) {
	dir := t.TempDir()
	provider, err := storage.NewLocalProvider(dir, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xlsx"), []byte("a"), 0644))

	report, err := NewSweeper(provider, 0).RunOnce(context.Background(), time.Now().Add(1000*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, report.Deleted)

	_, err = os.Stat(filepath.Join(dir, "a.xlsx"))
	assert.NoError(t, err)
}

type failingProvider struct {
	storage.Provider
	objects []storage.Object
	listErr error
}

func (f *failingProvider) List(ctx context.Context) ([]storage.Object, error) {
	return f.objects, f.listErr
}

func (f *failingProvider) Delete(ctx context.Context, key string) error {
	return errors.New("boom")
}

func (f *failingProvider) GetProviderName() string { return "failing" }

func TestSweeper_CountsFailures(t *testing.T) {
	now := time.Now()
	provider := &failingProvider{objects: []storage.Object{
		{Key: "a.xlsx", ModTime: now.Add(-72 * time.Hour)},
	}}

	report, err := NewSweeper(provider, time.Hour).RunOnce(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, report.Deleted)
}

func TestSweeper_ListError(t *testing.T) {
	provider := &failingProvider{listErr: errors.New("unreachable")}

	_, err := NewSweeper(provider, time.Hour).RunOnce(context.Background(), time.Now())
	assert.Error(t, err)
}

type stubPruner struct {
	cutoff time.Time
	n      int64
	err    error
}

func (p *stubPruner) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return p.n, p.err
}

func TestSweeper_PrunesLogs(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	pruner := &stubPruner{n: 3}

	report, err := NewSweeper(&failingProvider{}, 24*time.Hour).PruneLogs(pruner).RunOnce(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), report.Logs)
	assert.Equal(t, now.Add(-24*time.Hour), pruner.cutoff)
}

func TestSweeper_PruneLogsError(t *testing.T) {
	pruner := &stubPruner{err: errors.New("db down")}

	report, err := NewSweeper(&failingProvider{}, time.Hour).PruneLogs(pruner).RunOnce(context.Background(), time.Now())

	assert.ErrorContains(t, err, "db down")
	require.NotNil(t, report)
	assert.Zero(t, report.Logs)
}

func TestSweeper_Schedule(t *testing.T) {
	s := NewSweeper(&failingProvider{}, time.Hour)

	assert.NoError(t, s.Schedule("@every 1h"))
	assert.NoError(t, s.Schedule("0 */5 * * * *"))
	assert.Error(t, s.Schedule("not a schedule"))
}
