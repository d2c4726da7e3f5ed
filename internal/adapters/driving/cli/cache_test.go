package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openroster/affilscan/internal/adapters/driven/storage/memory"
)

func TestCacheCmd_HasSubcommands(t *testing.T) {
	commands := cacheCmd.Commands()
	names := make([]string, 0, len(commands))
	for _, cmd := range commands {
		names = append(names, cmd.Name())
	}

	assert.Contains(t, names, "stats")
	assert.Contains(t, names, "clear")
}

func TestCacheStats_NotConfigured(t *testing.T) {
	filingCache = nil

	err := runCacheStats(rootCmd, nil)
	assert.Error(t, err)
}

func TestCacheStats_PrintsCounts(t *testing.T) {
	cache := memory.NewCacheStore(30)
	require.NoError(t, cache.Set(context.Background(), "doc-1", "content"))
	filingCache = cache
	defer func() { filingCache = nil }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "stats"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Documents:  1")
}

func TestCacheClear_All(t *testing.T) {
	cache := memory.NewCacheStore(30)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "doc-1", "a"))
	require.NoError(t, cache.Set(ctx, "doc-2", "b"))
	filingCache = cache
	defer func() { filingCache = nil }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "clear", "--all"})
	defer func() {
		rootCmd.SetArgs(nil)
		cacheClearAll = false
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Removed 2 entries")

	ok, err := cache.Has(ctx, "doc-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheClear_ExpiredOnlyByDefault(t *testing.T) {
	cache := memory.NewCacheStore(30)
	require.NoError(t, cache.Set(context.Background(), "doc-1", "a"))
	filingCache = cache
	defer func() { filingCache = nil }()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "clear"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())

	// A fresh entry is not expired, so nothing is removed.
	assert.Contains(t, buf.String(), "Removed 0 entries")
}
