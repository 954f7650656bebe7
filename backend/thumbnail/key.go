package thumbnail

import (
	"encoding/hex"
	"lukechampine.com/blake3"
	"path/filepath"
)

// Key returns the cache key of a path: the lowercase hex BLAKE3-256 digest of
// the path string.
func Key(path string) string {
	sum := blake3.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

// AbsPath makes path absolute so that the same file always maps to the same
// key regardless of the working directory.
func AbsPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
