package database

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
	"vincit.fi/image-viewer/api/apitype"
)

var (
	sut      *CacheIndex
	database *Database
)

func initCacheIndexTest(t *testing.T) {
	var err error
	database, err = NewInMemoryDatabase()
	require.NoError(t, err)
	sut = NewCacheIndex(database)
	t.Cleanup(database.Close)
}

func newEntry(key string, path string) *apitype.CacheEntry {
	return apitype.NewCacheEntry(key, path, apitype.FormatPng, apitype.SizeOf(200, 112), 1).
		WithSource(1234, time.Unix(1700000000, 0)).
		WithCreated(time.Unix(1700000100, 0))
}

func TestCacheIndex_PutAndGet(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)
	initCacheIndexTest(t)

	r.NoError(sut.Put(newEntry("abc", "/photos/a.png")))

	entry, err := sut.Get("abc")
	r.NoError(err)
	a.Equal("abc", entry.Key())
	a.Equal("/photos/a.png", entry.SourcePath())
	a.Equal(apitype.FormatPng, entry.Format())
	a.Equal(apitype.SizeOf(200, 112), entry.Size())
	a.Equal(1, entry.FrameCount())
	a.Equal(int64(1234), entry.SourceSize())
	a.True(time.Unix(1700000000, 0).Equal(entry.SourceModified()))
	a.True(time.Unix(1700000100, 0).Equal(entry.Created()))
	a.Equal("abc.png", entry.FileName())
}

func TestCacheIndex_Get_NotFound(t *testing.T) {
	a := assert.New(t)
	initCacheIndexTest(t)

	entry, err := sut.Get("missing")
	a.Nil(entry)
	a.ErrorIs(err, apitype.ErrNotFound)
}

func TestCacheIndex_PutReplaces(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)
	initCacheIndexTest(t)

	r.NoError(sut.Put(newEntry("abc", "/photos/a.gif")))
	replacement := apitype.NewCacheEntry("abc", "/photos/a.gif", apitype.FormatGif, apitype.SizeOf(200, 150), 12)
	r.NoError(sut.Put(replacement))

	entry, err := sut.Get("abc")
	r.NoError(err)
	a.Equal(apitype.FormatGif, entry.Format())
	a.Equal(12, entry.FrameCount())

	count, err := sut.Count()
	r.NoError(err)
	a.Equal(1, count)
}

func TestCacheIndex_Remove(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)
	initCacheIndexTest(t)

	r.NoError(sut.Put(newEntry("abc", "/photos/a.png")))
	r.NoError(sut.Put(newEntry("def", "/photos/b.png")))

	r.NoError(sut.Remove("abc"))
	r.NoError(sut.Remove("not-there"))

	_, err := sut.Get("abc")
	a.ErrorIs(err, apitype.ErrNotFound)
	count, err := sut.Count()
	r.NoError(err)
	a.Equal(1, count)
}

func TestCacheIndex_FindBySource(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)
	initCacheIndexTest(t)

	r.NoError(sut.Put(newEntry("abc", "/photos/a.png")))
	r.NoError(sut.Put(newEntry("def", "/photos/b.png")))

	entries, err := sut.FindBySource("/photos/b.png")
	r.NoError(err)
	r.Len(entries, 1)
	a.Equal("def", entries[0].Key())

	entries, err = sut.FindBySource("/photos/c.png")
	r.NoError(err)
	a.Empty(entries)
}
