package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	database, err := Open("", 1)
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT);")
	require.NoError(t, err)

	_, err = database.Exec("INSERT INTO t (v) VALUES ('hello');")
	require.NoError(t, err)

	var v string
	require.NoError(t, database.Get(&v, "SELECT v FROM t WHERE id = 1"))
	require.Equal(t, "hello", v)
}

func TestOpenFileCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "app.db")

	database, err := Open(path, 1)
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.Get(&mode, "PRAGMA journal_mode"))
	require.Equal(t, "wal", mode)
}
