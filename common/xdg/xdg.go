// Package xdg resolves the per-user XDG base directories.
package xdg

import (
	"os"
	"path/filepath"
)

const (
	home = "HOME"

	cacheHomeKey     = "XDG_CACHE_HOME"
	cacheHomeDefault = ".cache"

	configHomeKey     = "XDG_CONFIG_HOME"
	configHomeDefault = ".config"
)

// CacheHome returns $XDG_CACHE_HOME, or $HOME/.cache when it is unset.
func CacheHome() (string, bool) {
	return envOrDefault(cacheHomeKey, cacheHomeDefault)
}

// ConfigHome returns $XDG_CONFIG_HOME, or $HOME/.config when it is unset.
func ConfigHome() (string, bool) {
	return envOrDefault(configHomeKey, configHomeDefault)
}

// Relative values in the variables are ignored.
func envOrDefault(key string, def string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok && filepath.IsAbs(val) {
		return val, true
	}
	base, ok := os.LookupEnv(home)
	if !ok || base == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			base = dir
		} else {
			return "", false
		}
	}
	return filepath.Join(base, def), true
}
