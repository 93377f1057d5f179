// Package cache stores delivered ebook content on disk, keyed by network,
// contract, and listing. Files are written atomically and verified against
// an expected checksum when one is known.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AdekunleBamz/ebook-store/internal/util"
)

// Manager owns a local content cache directory.
type Manager struct {
	root string
}

// New creates a cache manager rooted at dir.
func New(dir string) *Manager {
	return &Manager{root: dir}
}

// Root returns the cache root directory.
func (m *Manager) Root() string {
	return m.root
}

func (m *Manager) dir(network, contract string, listingID uint64) string {
	return filepath.Join(m.root, network, contract, strconv.FormatUint(listingID, 10))
}

// Path returns the cache path for a listing's content file.
func (m *Manager) Path(network, contract string, listingID uint64, name string) string {
	return filepath.Join(m.dir(network, contract, listingID), name)
}

// Exists reports whether the content file is already cached.
func (m *Manager) Exists(network, contract string, listingID uint64, name string) bool {
	fi, err := os.Stat(m.Path(network, contract, listingID, name))
	return err == nil && !fi.IsDir()
}

// Store writes r to the cache, verifying the sha256 checksum after write
// when expectedSHA256 is non-empty. Returns the final file path.
func (m *Manager) Store(network, contract string, listingID uint64, name string, r io.Reader, expectedSHA256 string) (string, error) {
	if err := util.EnsureDir(m.dir(network, contract, listingID)); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	destPath := m.Path(network, contract, listingID, name)
	tmpPath := destPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing to cache: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := verifyFile(tmpPath, expectedSHA256); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return destPath, nil
}

// Clear removes the whole cache directory.
func (m *Manager) Clear() error {
	if err := os.RemoveAll(m.root); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats walks the cache and returns file count and total bytes.
func (m *Manager) Stats() (files int, bytes int64, err error) {
	err = filepath.Walk(m.root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !fi.IsDir() {
			files++
			bytes += fi.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		err = nil
	}
	return files, bytes, err
}

// verifyFile checks the file's sha256 against expected; an empty expected
// hash skips verification.
func verifyFile(path, expected string) error {
	if expected == "" {
		return nil
	}
	got, err := util.SHA256File(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	if got != expected {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, expected)
	}
	return nil
}
