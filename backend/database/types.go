package database

import "time"

type MigrationId int64

type Migration struct {
	Id MigrationId `db:"id"`
}

type CacheEntry struct {
	Key            string    `db:"key"`
	SourcePath     string    `db:"source_path"`
	Format         string    `db:"format"`
	Width          int       `db:"width"`
	Height         int       `db:"height"`
	FrameCount     int       `db:"frame_count"`
	SourceSize     int64     `db:"source_size"`
	SourceModified time.Time `db:"source_modified"`
	Created        time.Time `db:"created"`
}
