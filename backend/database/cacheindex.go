package database

import (
	"errors"
	"github.com/upper/db/v4"
	"sync"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/common/logger"
)

const cacheEntryTable = "cache_entry"

// CacheIndex records which format each cache key was written in so the
// cache file can be found without listing the cache directory.
type CacheIndex struct {
	database   *Database
	collection db.Collection
	mux        sync.Mutex
}

func NewCacheIndex(database *Database) *CacheIndex {
	return &CacheIndex{
		database: database,
	}
}

func (s *CacheIndex) getCollection() db.Collection {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.collection == nil {
		s.collection = s.database.Session().Collection(cacheEntryTable)
	}
	return s.collection
}

// Put stores entry replacing an earlier entry with the same key.
func (s *CacheIndex) Put(entry *apitype.CacheEntry) error {
	logger.Trace.Printf("Storing %s", entry)
	row := toCacheEntry(entry)
	return s.database.Session().Tx(func(session db.Session) error {
		collection := session.Collection(cacheEntryTable)
		if err := collection.Find(db.Cond{"key": row.Key}).Delete(); err != nil {
			return err
		}
		_, err := collection.Insert(row)
		return err
	})
}

// Get returns apitype.ErrNotFound when key has no entry.
func (s *CacheIndex) Get(key string) (*apitype.CacheEntry, error) {
	var row CacheEntry
	if err := s.getCollection().Find(db.Cond{"key": key}).One(&row); err != nil {
		if errors.Is(err, db.ErrNoMoreRows) {
			return nil, apitype.ErrNotFound
		}
		return nil, err
	}
	return toApiCacheEntry(&row), nil
}

func (s *CacheIndex) FindBySource(sourcePath string) ([]*apitype.CacheEntry, error) {
	var rows []CacheEntry
	if err := s.getCollection().Find(db.Cond{"source_path": sourcePath}).All(&rows); err != nil {
		return nil, err
	}
	return toApiCacheEntries(rows), nil
}

func (s *CacheIndex) Remove(key string) error {
	return s.getCollection().Find(db.Cond{"key": key}).Delete()
}

func (s *CacheIndex) Count() (int, error) {
	count, err := s.getCollection().Find().Count()
	return int(count), err
}
