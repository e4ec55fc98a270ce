package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, err := NewCSV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, src.Save(ctx, "AAPL", testBars(5)))
	require.NoError(t, src.Save(ctx, "MSFT", testBars(3)))

	path := filepath.Join(t.TempDir(), "cache.tar.xz")
	require.NoError(t, Export(ctx, src, path))

	// Snapshots restore across backends.
	dst, _ := newTestSQLite(t)
	require.NoError(t, Import(ctx, dst, path))

	symbols, err := dst.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	bars, err := dst.Load(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, testBars(5), bars)
}

func TestImportMissingArchive(t *testing.T) {
	t.Parallel()

	dst, err := NewCSV(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, Import(context.Background(), dst, filepath.Join(t.TempDir(), "nope.tar.xz")))
}
