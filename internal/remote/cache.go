package remote

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const archivePrefix = "archive_"

// ArchiveCache keeps downloaded ZIP archives on disk so that a failed
// install can be retried without downloading the payload again.
type ArchiveCache struct {
	cacheDir string
}

// NewArchiveCache creates a new archive cache at the specified directory.
func NewArchiveCache(cacheDir string) (*ArchiveCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &ArchiveCache{cacheDir: cacheDir}, nil
}

// Path returns the cache file path for an archive URL. The file may not exist.
func (c *ArchiveCache) Path(url string) string {
	return filepath.Join(c.cacheDir, c.archiveFilename(url))
}

// Lookup returns the cached path for url when it is present.
func (c *ArchiveCache) Lookup(url string) (string, bool) {
	path := c.Path(url)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Store copies r into the cache under url and returns the cached path.
// The file appears atomically once fully written.
func (c *ArchiveCache) Store(url string, r io.Reader) (string, error) {
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_archive_")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return "", err
	}
	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	cachePath := c.Path(url)
	if err := os.Rename(tmpPath, cachePath); err != nil {
		return "", err
	}
	return cachePath, nil
}

// Remove deletes the cached archive for url.
func (c *ArchiveCache) Remove(url string) error {
	if err := os.Remove(c.Path(url)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveOlderThan deletes archives last written before now minus age and
// returns how many were removed.
func (c *ArchiveCache) RemoveOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), archivePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil && !os.IsNotExist(err) {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

// Clear removes every cached archive.
func (c *ArchiveCache) Clear() error {
	_, err := c.RemoveOlderThan(-time.Hour)
	return err
}

// archiveFilename generates a stable filename from the URL hash.
func (c *ArchiveCache) archiveFilename(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%s%x.zip", archivePrefix, hash[:12])
}

// CacheDir returns the cache directory path.
func (c *ArchiveCache) CacheDir() string {
	return c.cacheDir
}
