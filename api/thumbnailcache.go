package api

import "vincit.fi/image-viewer/api/apitype"

type ThumbnailCache interface {
	// EnsureCached returns the cache file of path, deriving it on a miss.
	EnsureCached(path string) (string, error)
	// LoadCached loads an existing cache entry. Returns apitype.ErrNotFound
	// when EnsureCached has not been called for path.
	LoadCached(path string) (Paintable, error)
	Locate(path string) (string, error)
	Entry(path string) (*apitype.CacheEntry, error)
	Invalidate(path string) error
	Root() string
	Close() error
}

type ThumbnailPopulator interface {
	Request(path string) uint64
	Latest(path string) uint64
	Close()
}
