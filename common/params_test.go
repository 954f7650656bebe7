package common

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseParams(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Run("Defaults", func(t *testing.T) {
		params, err := ParseParams([]string{"a.gif", "b.png"})
		r.NoError(err)

		a.Equal(DefaultThumbnailSize, params.ThumbnailSize())
		a.Equal(DefaultFormat, params.Format())
		a.True(params.AnimatedThumbnails())
		a.Equal(DefaultFrameDelay, params.FrameDelay())
		a.Equal([]string{"a.gif", "b.png"}, params.Files())
		a.False(params.ThumbnailMode())
	})
	t.Run("Flags", func(t *testing.T) {
		params, err := ParseParams([]string{"-thumbnail", "-thumbnailSize", "64", "-format", "JPEG", "-recursive", "dir"})
		r.NoError(err)

		a.True(params.ThumbnailMode())
		a.True(params.Recursive())
		a.Equal(64, params.ThumbnailSize())
		a.Equal("jpeg", params.Format())
		a.Equal([]string{"dir"}, params.Files())
	})
	t.Run("Invalid size", func(t *testing.T) {
		_, err := ParseParams([]string{"-thumbnailSize", "0"})
		a.Error(err)
	})
	t.Run("Missing explicit config", func(t *testing.T) {
		_, err := ParseParams([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")})
		a.Error(err)
	})
}

func TestParseParams_Config(t *testing.T) {
	a := assert.New(t)
	r := require.New(t)

	path := writeConfig(t, `
log_level = "debug"
thumbnail_size = 128
format = "gif"
animated_thumbnails = false
frame_delay_ms = 40
resize_filter = "lanczos"
`)

	t.Run("Config values", func(t *testing.T) {
		params, err := ParseParams([]string{"-config", path})
		r.NoError(err)

		a.Equal("debug", params.LogLevel())
		a.Equal(128, params.ThumbnailSize())
		a.Equal("gif", params.Format())
		a.False(params.AnimatedThumbnails())
		a.Equal(40*time.Millisecond, params.FrameDelay())
		a.Equal("lanczos", params.ResizeFilter())
	})
	t.Run("Flags override config", func(t *testing.T) {
		params, err := ParseParams([]string{"-config", path, "-thumbnailSize", "300", "-animatedThumbnails=true"})
		r.NoError(err)

		a.Equal(300, params.ThumbnailSize())
		a.True(params.AnimatedThumbnails())
		a.Equal("gif", params.Format())
	})
}

func TestLoadConfig(t *testing.T) {
	a := assert.New(t)

	t.Run("Optional missing", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"), false)
		a.NoError(err)
		a.Equal(&Config{}, config)
	})
	t.Run("Malformed", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "thumbnail_size = ="), true)
		a.Error(err)
	})
}
