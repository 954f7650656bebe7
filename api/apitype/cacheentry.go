package apitype

import (
	"path/filepath"
	"time"
)

// CacheEntry describes one derived thumbnail on disk.
type CacheEntry struct {
	key         string
	sourcePath  string
	format      ImageFormat
	size        Size
	frameCount  int
	sourceSize  int64
	sourceMtime time.Time
	created     time.Time
}

func NewCacheEntry(key string, sourcePath string, format ImageFormat, size Size, frameCount int) *CacheEntry {
	return &CacheEntry{
		key:        key,
		sourcePath: sourcePath,
		format:     format,
		size:       size,
		frameCount: frameCount,
		created:    time.Unix(0, 0),
	}
}

// WithSource records the state of the source file the entry was derived from.
func (s *CacheEntry) WithSource(byteSize int64, modified time.Time) *CacheEntry {
	s.sourceSize = byteSize
	s.sourceMtime = modified
	return s
}

func (s *CacheEntry) WithCreated(created time.Time) *CacheEntry {
	s.created = created
	return s
}

func (s *CacheEntry) Key() string {
	return s.key
}

func (s *CacheEntry) SourcePath() string {
	return s.sourcePath
}

func (s *CacheEntry) Format() ImageFormat {
	return s.format
}

func (s *CacheEntry) Size() Size {
	return s.size
}

func (s *CacheEntry) FrameCount() int {
	return s.frameCount
}

func (s *CacheEntry) SourceSize() int64 {
	return s.sourceSize
}

func (s *CacheEntry) SourceModified() time.Time {
	return s.sourceMtime
}

func (s *CacheEntry) Created() time.Time {
	return s.created
}

// FileName is the name of the cached file under the cache root.
func (s *CacheEntry) FileName() string {
	return CacheFileName(s.key, s.format)
}

func (s *CacheEntry) PathIn(root string) string {
	return filepath.Join(root, s.FileName())
}

func (s *CacheEntry) String() string {
	if s == nil {
		return "CacheEntry<nil>"
	}
	return "CacheEntry{" + s.FileName() + " <- " + s.sourcePath + "}"
}

func CacheFileName(key string, format ImageFormat) string {
	return key + "." + format.Extension()
}
