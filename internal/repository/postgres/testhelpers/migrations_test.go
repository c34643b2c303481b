package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Order(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_places.up.sql", "000001_search_history.up.sql",
		"000001_search_history.down.sql", "000002_places.down.sql", "README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}

	up, err := MigrationFiles(dir, upSuffix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "000001_search_history.up.sql"),
		filepath.Join(dir, "000002_places.up.sql"),
	}, up)

	down, err := MigrationFiles(dir, downSuffix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "000002_places.down.sql"),
		filepath.Join(dir, "000001_search_history.down.sql"),
	}, down)
}

func TestMigrationFiles_RepositoryMigrations(t *testing.T) {
	up, err := MigrationFiles("../../../../migrations", upSuffix)
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Equal(t, "000001_search_history.up.sql", filepath.Base(up[0]))
}
