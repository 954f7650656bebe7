package database

import (
	"vincit.fi/image-viewer/api/apitype"
)

func toCacheEntry(entry *apitype.CacheEntry) *CacheEntry {
	return &CacheEntry{
		Key:            entry.Key(),
		SourcePath:     entry.SourcePath(),
		Format:         entry.Format().Extension(),
		Width:          entry.Size().GetWidth(),
		Height:         entry.Size().GetHeight(),
		FrameCount:     entry.FrameCount(),
		SourceSize:     entry.SourceSize(),
		SourceModified: entry.SourceModified(),
		Created:        entry.Created(),
	}
}

func toApiCacheEntry(entry *CacheEntry) *apitype.CacheEntry {
	return apitype.NewCacheEntry(
		entry.Key,
		entry.SourcePath,
		apitype.ImageFormatFromHint(entry.Format),
		apitype.SizeOf(entry.Width, entry.Height),
		entry.FrameCount,
	).WithSource(entry.SourceSize, entry.SourceModified).WithCreated(entry.Created)
}

func toApiCacheEntries(entries []CacheEntry) []*apitype.CacheEntry {
	apiEntries := make([]*apitype.CacheEntry, len(entries))
	for i := range entries {
		apiEntries[i] = toApiCacheEntry(&entries[i])
	}
	return apiEntries
}
