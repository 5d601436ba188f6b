package cache

import "path/filepath"

// Cache stores file contents for the duration of one run
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Len() int
	Clear()
}

// ContentKey generates a cache key from a resolved file path.
// Equivalent spellings of the same path share a key.
func ContentKey(path string) string {
	return "auditmatrix:content:" + filepath.Clean(path)
}
