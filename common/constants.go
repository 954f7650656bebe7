package common

import "time"

// ApplicationDir is the directory name used under the XDG cache and config
// homes.
const ApplicationDir = "image-viewer"

const (
	ConfigFileName       = "config.toml"
	CacheIndexFileName   = "index.db"
	DefaultThumbnailSize = 200
	DefaultFormat        = "png"
	DefaultFrameDelay    = 100 * time.Millisecond
	DefaultResizeFilter  = "gaussian"
	DefaultLogLevel      = "INFO"
)
