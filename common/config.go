package common

import (
	"errors"
	"github.com/BurntSushi/toml"
	"io/fs"
	"os"
	"path/filepath"
	"vincit.fi/image-viewer/common/logger"
	"vincit.fi/image-viewer/common/xdg"
)

// Config is the optional TOML configuration file. Zero values mean "not set".
type Config struct {
	LogLevel           string `toml:"log_level"`
	CacheDir           string `toml:"cache_dir"`
	ThumbnailSize      int    `toml:"thumbnail_size"`
	Format             string `toml:"format"`
	AnimatedThumbnails *bool  `toml:"animated_thumbnails"`
	Workers            int    `toml:"workers"`
	FrameDelayMs       int    `toml:"frame_delay_ms"`
	ResizeFilter       string `toml:"resize_filter"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/image-viewer/config.toml.
func DefaultConfigPath() (string, bool) {
	if configHome, ok := xdg.ConfigHome(); ok {
		return filepath.Join(configHome, ApplicationDir, ConfigFileName), true
	}
	return "", false
}

// LoadConfig reads the TOML file at path. A missing file is only an error
// when required is true.
func LoadConfig(path string, required bool) (*Config, error) {
	config := &Config{}
	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			logger.Debug.Printf("No config file in '%s'", path)
			return config, nil
		}
		return nil, err
	}

	metaData, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, err
	}
	for _, key := range metaData.Undecoded() {
		logger.Warn.Printf("Unknown config key '%s' in '%s'", key.String(), path)
	}
	logger.Debug.Printf("Loaded config from '%s'", path)
	return config, nil
}
