package database

type migration struct {
	id          MigrationId
	description string
	query       string
}

var migrations = []migration{
	{
		id:          0,
		description: "Cache entries",
		query: `
			CREATE TABLE cache_entry (
			    key TEXT PRIMARY KEY,
			    source_path TEXT,
			    format TEXT,
			    width INT,
			    height INT,
			    frame_count INT,
			    source_size INT,
			    source_modified DATETIME,
			    created DATETIME
			);
		`,
	},
	{
		id:          1,
		description: "Cache entry source index",
		query: `
			CREATE INDEX cache_entry_source_path_idx ON cache_entry (source_path);
		`,
	},
}
