package database

import (
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
	"vincit.fi/image-viewer/common/util"
)

func TestDatabase_InitializeForDirectory(t *testing.T) {
	a := require.New(t)

	sut := NewDatabase()
	dir := filepath.Join(t.TempDir(), "cache")

	err := sut.InitializeForDirectory(dir, "test.db")
	a.Nil(err)
	a.True(util.DoesFileExist(dir))
	a.Equal(filepath.Join(dir, "test.db"), sut.Path())

	err = sut.session.Ping()
	a.Nil(err)

	sut.Close()
	a.Nil(sut.Session())
}

func TestDatabase_MigrateDB(t *testing.T) {
	a := require.New(t)

	sut := NewDatabase()
	err := sut.InitializeForDirectory(t.TempDir(), "test.db")
	a.Nil(err)
	defer sut.Close()

	t.Run("First migration", func(t *testing.T) {
		exists, err := sut.Migrate()
		a.Nil(err)
		a.Equal(TableNotExist, exists)
	})
	t.Run("Second migration", func(t *testing.T) {
		exists, err := sut.Migrate()
		a.Nil(err)
		a.Equal(TableExists, exists)
	})
}

func TestNewInMemoryDatabase(t *testing.T) {
	a := require.New(t)

	first, err := NewInMemoryDatabase()
	a.Nil(err)
	defer first.Close()
	second, err := NewInMemoryDatabase()
	a.Nil(err)
	defer second.Close()

	exists, err := first.Migrate()
	a.Nil(err)
	a.Equal(TableExists, exists)

	a.Nil(NewCacheIndex(first).Put(newEntry("abc", "/photos/a.png")))
	count, err := NewCacheIndex(second).Count()
	a.Nil(err)
	a.Equal(0, count, "in-memory databases are separate")
}
