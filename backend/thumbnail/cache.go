// Package thumbnail derives resized copies of source images into a content
// addressed cache directory and loads them back as paintables.
package thumbnail

import (
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"os"
	"path/filepath"
	"time"
	"vincit.fi/image-viewer/api"
	"vincit.fi/image-viewer/api/apitype"
	"vincit.fi/image-viewer/backend/database"
	"vincit.fi/image-viewer/backend/decoder"
	"vincit.fi/image-viewer/common"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/util"
)

const cacheFilePerm = 0o644

type Settings struct {
	Size               int
	Format             apitype.ImageFormat
	AnimatedThumbnails bool
	Filter             imaging.ResampleFilter
}

func DefaultSettings() Settings {
	return Settings{
		Size:               common.DefaultThumbnailSize,
		Format:             apitype.FormatPng,
		AnimatedThumbnails: true,
		Filter:             imaging.Gaussian,
	}
}

type Cache struct {
	root     string
	settings Settings
	index    *database.CacheIndex
	decoder  api.FrameDecoder
	factory  api.PaintableFactory

	api.ThumbnailCache
}

func NewCache(root string, settings Settings, index *database.CacheIndex, frameDecoder api.FrameDecoder, factory api.PaintableFactory) (*Cache, error) {
	if settings.Size <= 0 {
		return nil, fmt.Errorf("invalid thumbnail size %d", settings.Size)
	}
	if !settings.Format.CanEncode() {
		return nil, fmt.Errorf("can't write thumbnails as %s", settings.Format)
	}
	return &Cache{
		root:     root,
		settings: settings,
		index:    index,
		decoder:  frameDecoder,
		factory:  factory,
	}, nil
}

func (s *Cache) Root() string {
	return s.root
}

func (s *Cache) Settings() Settings {
	return s.settings
}

// outputFormat is the cache format for a source. Animated sources keep
// their motion as gif unless animated thumbnails are turned off.
func (s *Cache) outputFormat(sourcePath string) apitype.ImageFormat {
	if s.settings.AnimatedThumbnails && decoder.IsAnimatedFormat(filepath.Ext(sourcePath)) {
		return apitype.FormatGif
	}
	return s.settings.Format
}

func (s *Cache) pathFor(key string, format apitype.ImageFormat) string {
	return filepath.Join(s.root, apitype.CacheFileName(key, format))
}

// EnsureCached returns the cache file for path. On a miss the source is
// decoded, resized, encoded and written before returning.
func (s *Cache) EnsureCached(path string) (string, error) {
	sourcePath := AbsPath(path)
	key := Key(sourcePath)
	format := s.outputFormat(sourcePath)
	cachePath := s.pathFor(key, format)

	if util.DoesFileExist(cachePath) {
		logger.Debug.Printf("Cache hit '%s' -> '%s'", sourcePath, cachePath)
		return cachePath, nil
	}
	logger.Debug.Printf("Cache miss '%s'", sourcePath)

	start := time.Now()
	entry, err := s.populate(sourcePath, key, format, cachePath)
	if err != nil {
		return "", err
	}
	if err := s.index.Put(entry); err != nil {
		logger.Warn.Printf("Could not index '%s': %s", cachePath, err)
	}
	s.removeOtherFormats(key, format)

	logger.Debug.Printf("Cached '%s' as %s in %s", sourcePath, entry, time.Since(start))
	return cachePath, nil
}

func (s *Cache) populate(sourcePath string, key string, format apitype.ImageFormat, cachePath string) (*apitype.CacheEntry, error) {
	if err := util.MakeDirectoriesIfNotExist(filepath.Dir(s.root), s.root); err != nil {
		return nil, apitype.NewIoError("create cache directory", s.root, err)
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, apitype.NewIoError("read", sourcePath, err)
	}
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, apitype.NewIoError("stat", sourcePath, err)
	}

	frameSet, err := s.decoder.Decode(data, filepath.Ext(sourcePath))
	if err != nil {
		return nil, err
	}
	if !format.IsAnimated() || !s.settings.AnimatedThumbnails {
		frameSet = FirstFrame(frameSet)
	}
	resized, err := ResizeFrameSet(frameSet, s.settings.Size, s.settings.Filter)
	if err != nil {
		return nil, err
	}

	encoded, err := Encode(resized, format)
	if err != nil {
		return nil, apitype.NewDecodeError(format.String(), err)
	}
	if err := util.WriteFileAtomic(cachePath, encoded, cacheFilePerm); err != nil {
		return nil, apitype.NewIoError("write", cachePath, err)
	}

	return apitype.NewCacheEntry(key, sourcePath, format, resized.Size(), resized.Len()).
		WithSource(info.Size(), info.ModTime()).
		WithCreated(time.Now()), nil
}

// removeOtherFormats drops files left by an earlier output format so that a
// key has a single cache file.
func (s *Cache) removeOtherFormats(key string, keep apitype.ImageFormat) {
	for _, format := range apitype.SupportedFormats() {
		if format == keep || !format.CanEncode() {
			continue
		}
		if err := util.RemoveFileIfExists(s.pathFor(key, format)); err != nil {
			logger.Warn.Printf("Could not remove stale cache file: %s", err)
		}
	}
}

// Locate returns the existing cache file of path. The index record tells the
// format; without one the configured output format is assumed.
func (s *Cache) Locate(path string) (string, error) {
	sourcePath := AbsPath(path)
	key := Key(sourcePath)

	if entry, err := s.index.Get(key); err == nil {
		if cachePath := entry.PathIn(s.root); util.DoesFileExist(cachePath) {
			return cachePath, nil
		}
	} else if !errors.Is(err, apitype.ErrNotFound) {
		logger.Warn.Printf("Could not read index for '%s': %s", sourcePath, err)
	}

	if cachePath := s.pathFor(key, s.outputFormat(sourcePath)); util.DoesFileExist(cachePath) {
		return cachePath, nil
	}
	return "", apitype.ErrNotFound
}

// LoadCached loads the cache file of path into a new paintable. Returns
// apitype.ErrNotFound when nothing has been cached for path.
func (s *Cache) LoadCached(path string) (api.Paintable, error) {
	cachePath, err := s.Locate(path)
	if err != nil {
		return nil, err
	}
	paintable := s.factory()
	if err := paintable.LoadFile(cachePath); err != nil {
		paintable.Destroy()
		return nil, err
	}
	return paintable, nil
}

func (s *Cache) Entry(path string) (*apitype.CacheEntry, error) {
	return s.index.Get(Key(AbsPath(path)))
}

// Invalidate removes the cache file and the index record of path.
func (s *Cache) Invalidate(path string) error {
	sourcePath := AbsPath(path)
	key := Key(sourcePath)
	logger.Debug.Printf("Invalidating '%s'", sourcePath)

	for _, format := range apitype.SupportedFormats() {
		if !format.CanEncode() {
			continue
		}
		cachePath := s.pathFor(key, format)
		if err := util.RemoveFileIfExists(cachePath); err != nil {
			return apitype.NewIoError("remove", cachePath, err)
		}
	}
	if err := s.index.Remove(key); err != nil {
		return apitype.NewIoError("remove index entry", key, err)
	}
	return nil
}

// Close is a no-op. The index database is owned by whoever opened it.
func (s *Cache) Close() error {
	return nil
}
