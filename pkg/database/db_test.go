package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSNEnablesForeignKeys(t *testing.T) {
	assert.Equal(t, "instance/site.db?_foreign_keys=on", sqliteDSN("instance/site.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "a.db?_fk=1", sqliteDSN("a.db?_fk=1"))
}

func TestBuildDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := buildDialector("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")

	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		d, err := buildDialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
}

func TestOpenCreatesSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instance", "site.db")

	db, err := Open("sqlite", path)
	require.NoError(t, err)
	defer Close(db)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
	assert.FileExists(t, path)
}
