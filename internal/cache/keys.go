package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Key prefixes for different cache record types
const (
	// PrefixCopy records the content fingerprint last written to a destination
	PrefixCopy = "copy"
)

// GenerateKey generates a cache key from a file path.
// The key is a SHA256 hash of the normalized absolute path.
func GenerateKey(path string) string {
	normalized := normalizeForKey(path)
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// GenerateKeyWithPrefix generates a cache key with a prefix
func GenerateKeyWithPrefix(prefix, path string) string {
	return prefix + ":" + GenerateKey(path)
}

// normalizeForKey cleans a path and makes it absolute and slash separated so
// equivalent spellings share a key
func normalizeForKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// CopyKey generates the fingerprint key of a copy destination
func CopyKey(destPath string) string {
	return GenerateKeyWithPrefix(PrefixCopy, destPath)
}
