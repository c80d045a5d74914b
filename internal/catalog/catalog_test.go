package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typebridge/internal/schema"
	"github.com/roach88/typebridge/internal/testutil"
)

// createTestCatalog opens a catalog in a temp dir with deterministic seqs
// and IDs.
func createTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	c, err := Open(path,
		WithSequencer(testutil.NewDeterministicClock()),
		WithIDGenerator(testutil.NewSequentialIDs("run")))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestOpenAppliesPragmas(t *testing.T) {
	c, _ := createTestCatalog(t)
	assert.NoError(t, c.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, c.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, c.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, c.verifyPragma("user_version", "1"))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	c1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c2.Close())
}

func TestRecordAndLatest(t *testing.T) {
	ctx := context.Background()
	c, _ := createTestCatalog(t)

	latest, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	live, err := c.Introspect(ctx)
	require.NoError(t, err)
	assert.True(t, live.IsEmpty())

	fx := testutil.Employment()
	plan, err := fx.Manager.Plan(live, schema.SyncDiff)
	require.NoError(t, err)

	run, err := c.Record(ctx, plan, fx.Manager.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "run-0001", run.ID)
	assert.Equal(t, int64(1), run.Seq)
	assert.Equal(t, fx.Manager.Snapshot().Fingerprint(), run.Fingerprint)

	got, err := c.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, schema.SyncDiff, got.Mode)
	assert.Equal(t, plan.Define, got.Define)
	assert.Empty(t, got.Undefine)
	assert.Equal(t, run.Fingerprint, got.Snapshot.Fingerprint(), "snapshot survives storage")
}

func TestIntrospectFeedsNextPlan(t *testing.T) {
	ctx := context.Background()
	c, _ := createTestCatalog(t)
	fx := testutil.Employment()

	plan, err := fx.Manager.Plan(&schema.LiveSchema{}, schema.SyncDiff)
	require.NoError(t, err)
	_, err = c.Record(ctx, plan, fx.Manager.Snapshot())
	require.NoError(t, err)

	live, err := c.Introspect(ctx)
	require.NoError(t, err)
	next, err := fx.Manager.Plan(live, schema.SyncDiff)
	require.NoError(t, err)
	assert.True(t, next.Empty(), "recorded snapshot is up to date")
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	c, _ := createTestCatalog(t)

	for _, mode := range []schema.SyncMode{schema.SyncDiff, schema.SyncForce, schema.SyncDiff} {
		_, err := c.Record(ctx, &schema.SyncPlan{Mode: mode}, nil)
		require.NoError(t, err)
	}

	runs, err := c.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
	assert.Equal(t, schema.SyncForce, runs[1].Mode)

	runs, err = c.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	run, err := c.Get(ctx, "run-0002")
	require.NoError(t, err)
	assert.Equal(t, int64(2), run.Seq)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestClockResumesOnReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(path)
	require.NoError(t, err)
	_, err = c.Record(ctx, &schema.SyncPlan{Mode: schema.SyncDiff}, nil)
	require.NoError(t, err)
	_, err = c.Record(ctx, &schema.SyncPlan{Mode: schema.SyncDiff}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()
	run, err := c.Record(ctx, &schema.SyncPlan{Mode: schema.SyncForce}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), run.Seq)
	assert.Len(t, run.ID, 36, "uuid v7 by default")
}

func TestRecordRejectsNilPlan(t *testing.T) {
	c, _ := createTestCatalog(t)
	_, err := c.Record(context.Background(), nil, nil)
	assert.Error(t, err)
}
