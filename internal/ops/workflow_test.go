package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestWorkflow exercises a full capture lifecycle: batch save, browse, search,
// stats, index rebuild, export, and re-import.
func TestWorkflow(t *testing.T) {
	store, cfg := newTestEnv(t)
	ctx := context.Background()

	// Flush a buffered batch.
	batch, err := SaveMany(ctx, store, cfg, SaveManyInput{
		Items: []SaveManyItem{
			{AppName: "VSCode", Content: "def calculate_fibonacci(n): return n"},
			{AppName: "Terminal", Content: "git commit -m 'Fix authentication bug'"},
			{AppName: "Terminal", Content: "authentication bug is fixed"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, batch.Saved)
	require.Zero(t, batch.Failed)
	require.NotEmpty(t, batch.BatchID)

	// Single save on top of the batch.
	saved, err := Save(ctx, store, cfg, SaveInput{AppName: "Slack", Content: "ship it today"})
	require.NoError(t, err)

	// Fetch one back.
	got, err := Get(ctx, store, cfg, GetInput{ID: saved.ID})
	require.NoError(t, err)
	require.Equal(t, "Slack", got.Capture.AppName)
	require.Equal(t, 3, got.Capture.WordCount)

	// Browse.
	recent, err := Recent(ctx, store, cfg, RecentInput{})
	require.NoError(t, err)
	require.Equal(t, 4, recent.Count)

	byApp, err := ByApp(ctx, store, cfg, ByAppInput{AppName: "Terminal"})
	require.NoError(t, err)
	require.Equal(t, 2, byApp.Count)

	apps, err := Apps(ctx, store, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, apps.Count)

	// Search finds both authentication captures.
	found, err := Search(ctx, store, cfg, SearchInput{Query: "auth"})
	require.NoError(t, err)
	require.Equal(t, 2, found.Count)
	for _, r := range found.Results {
		require.Equal(t, "Terminal", r.AppName)
		require.GreaterOrEqual(t, r.Score, 0.3)
		require.LessOrEqual(t, r.Score, 1.0)
		require.NotEmpty(t, r.Snippet)
	}

	// Stats reflect everything saved so far.
	stats, err := Stats(ctx, store, cfg)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Stats.TotalCaptures)
	require.Equal(t, 3, stats.Stats.UniqueApps)

	// Rebuild keeps the index and the table in lockstep.
	rebuilt, err := Rebuild(ctx, store, cfg)
	require.NoError(t, err)
	require.Equal(t, rebuilt.Captures, rebuilt.Entries)
	require.Equal(t, 4, rebuilt.Captures)

	// Export everything, import it back, and confirm the store doubled.
	path := filepath.Join(exportsDir(cfg), "workflow.jsonl")
	exported, err := Export(ctx, store, cfg, ExportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 4, exported.Count)

	imported, err := Import(ctx, store, cfg, ImportInput{Path: path})
	require.NoError(t, err)
	require.Equal(t, 4, imported.Imported)
	require.Zero(t, imported.Skipped)

	after, err := Stats(ctx, store, cfg)
	require.NoError(t, err)
	require.Equal(t, 8, after.Stats.TotalCaptures)

	// Imported copies are searchable immediately.
	again, err := Search(ctx, store, cfg, SearchInput{Query: "auth"})
	require.NoError(t, err)
	require.Equal(t, 4, again.Count)
}
