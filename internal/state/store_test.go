package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndLoadNavigation(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.SaveNavigation(ctx, "/docs/a.md", "file:///out/a.html#intro", "html"))

	nav, ok, err := store.Navigation(ctx, "/docs/a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "file:///out/a.html#intro", nav.URL)
	require.Equal(t, "html", nav.Generator)
	require.False(t, nav.UpdatedAt.IsZero())
}

func TestStore_SaveReplacesPreviousRecord(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.SaveNavigation(ctx, "/docs/a.md", "file:///out/a.html#one", "html"))
	require.NoError(t, store.SaveNavigation(ctx, "/docs/a.md", "file:///out/a.html#two", "slides"))

	nav, ok, err := store.Navigation(ctx, "/docs/a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "file:///out/a.html#two", nav.URL)
	require.Equal(t, "slides", nav.Generator)
}

func TestStore_MissingDocument(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, ok, err := store.Navigation(context.Background(), "/docs/unknown.md")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveNavigation(context.Background(), "/docs/a.md", "file:///out/a.html", "html"))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	nav, ok, err := reopened.Navigation(context.Background(), "/docs/a.md")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "file:///out/a.html", nav.URL)
}
