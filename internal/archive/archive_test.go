package archive_test

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/enigmind-server/internal/archive"
	"github.com/vancomm/enigmind-server/internal/enigmind"
)

func setupArchive(t *testing.T) *archive.Archive {
	t.Helper()
	a, err := archive.Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveEmpty(t *testing.T) {
	a := setupArchive(t)

	_, err := a.Get("missing")
	assert.ErrorIs(t, err, archive.ErrNotFound)

	keys, err := a.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestArchivePutGet(t *testing.T) {
	a := setupArchive(t)

	gc, err := enigmind.NewGameConfiguration(4, 3, 0)
	require.NoError(t, err)
	game, err := gc.Generate(rand.New(rand.NewPCG(3, 0)), enigmind.DefaultMaxAttempts)
	require.NoError(t, err)

	key := archive.Key(gc, 3)
	assert.Equal(t, "4-3-0/3", key)
	require.NoError(t, a.Put(key, game))

	stored, err := a.Get(key)
	require.NoError(t, err)
	assert.Equal(t, game.String(), stored.String())
	assert.Equal(t, game.Code, stored.Code)

	other, err := gc.Generate(rand.New(rand.NewPCG(4, 0)), enigmind.DefaultMaxAttempts)
	require.NoError(t, err)
	require.NoError(t, a.Put(key, other))
	stored, err = a.Get(key)
	require.NoError(t, err)
	assert.Equal(t, other.String(), stored.String())

	keys, err := a.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	require.NoError(t, a.Delete(key))
	_, err = a.Get(key)
	assert.ErrorIs(t, err, archive.ErrNotFound)
}
