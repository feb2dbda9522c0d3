package zonefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadAll(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	z := testZone()
	require.NoError(t, store.Save(z))

	zones, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, z, zones[0])
}

func TestStoreSaveOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	z := testZone()
	require.NoError(t, store.Save(z))

	z.Comment = "updated"
	require.NoError(t, store.Save(z))

	zones, err := store.LoadAll()
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "updated", zones[0].Comment)
}

func TestStoreDelete(t *testing.T) {
	root := t.TempDir()

	store, err := NewStore(root)
	require.NoError(t, err)

	z := testZone()
	require.NoError(t, store.Save(z))
	require.NoError(t, store.Delete(z.Origin))

	zones, err := store.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, zones)

	// the zone file was relocated, not destroyed
	_, err = os.Stat(filepath.Join(root, "deleted", z.Origin+"zone"))
	assert.NoError(t, err)
}

func TestStoreDeleteMissingZone(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Delete("missing.example.com."))
}
