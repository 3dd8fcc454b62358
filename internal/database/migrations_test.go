package database

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Embedded(t *testing.T) {
	files, err := migrationFiles(migrationFS)
	require.NoError(t, err)
	assert.Contains(t, files, "001_changelogs.up.sql")
}

func TestMigrationFiles_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_b.up.sql":   {Data: []byte("SELECT 2")},
		"migrations/001_a.up.sql":   {Data: []byte("SELECT 1")},
		"migrations/001_a.down.sql": {Data: []byte("SELECT 0")},
		"migrations/README.md":      {Data: []byte("notes")},
	}

	files, err := migrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.up.sql", "002_b.up.sql"}, files)
}

func TestMigrations_AuthorColumnUnbounded(t *testing.T) {
	files, err := migrationFiles(migrationFS)
	require.NoError(t, err)

	// The last migration touching author decides its type.
	var last string
	for _, f := range files {
		content, err := fs.ReadFile(migrationFS, "migrations/"+f)
		require.NoError(t, err)
		for _, line := range strings.Split(string(content), "\n") {
			if strings.Contains(line, "author") && !strings.HasPrefix(strings.TrimSpace(line), "--") {
				last = line
			}
		}
	}
	assert.Contains(t, last, "TEXT")
	assert.NotContains(t, last, "VARCHAR")
}
