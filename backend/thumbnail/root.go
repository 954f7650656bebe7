package thumbnail

import (
	"errors"
	"path/filepath"
	"sync"
	"vincit.fi/image-viewer/common"
	"vincit.fi/image-viewer/common/xdg"
)

var errNoCacheHome = errors.New("neither XDG_CACHE_HOME nor HOME is set")

// ResolveRoot returns override when given. Otherwise the cache lives in
// $XDG_CACHE_HOME/image-viewer or $HOME/.cache/image-viewer.
func ResolveRoot(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	cacheHome, ok := xdg.CacheHome()
	if !ok {
		return "", errNoCacheHome
	}
	return filepath.Join(cacheHome, common.ApplicationDir), nil
}

var defaultRoot struct {
	once sync.Once
	path string
	err  error
}

// DefaultRoot resolves the process wide cache root on first use.
func DefaultRoot() (string, error) {
	defaultRoot.once.Do(func() {
		defaultRoot.path, defaultRoot.err = ResolveRoot("")
	})
	return defaultRoot.path, defaultRoot.err
}
