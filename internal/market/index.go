package market

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentIndex is a local map from content fingerprints to the content
// identifiers that produced them. The chain stores only the fingerprint, so
// this is the client's memory of which identifier to fetch for a listing.
// Entries are recorded on publish and on explicit downloads.
type ContentIndex struct {
	path    string
	entries map[string]string // fingerprint hex -> content id
}

// LoadContentIndex reads the index file. A missing file yields an empty
// index, not an error.
func LoadContentIndex(path string) (*ContentIndex, error) {
	idx := &ContentIndex{path: path, entries: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("reading content index: %w", err)
	}
	if err := yaml.Unmarshal(data, &idx.entries); err != nil {
		return nil, fmt.Errorf("parsing content index: %w", err)
	}
	return idx, nil
}

// Lookup returns the content id recorded for a fingerprint.
func (x *ContentIndex) Lookup(fp [32]byte) (string, bool) {
	cid, ok := x.entries[hex.EncodeToString(fp[:])]
	return cid, ok
}

// Put records a content id under its own fingerprint and persists the index.
func (x *ContentIndex) Put(contentID string) error {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return fmt.Errorf("empty content id")
	}
	fp := sha256.Sum256([]byte(contentID))
	x.entries[hex.EncodeToString(fp[:])] = contentID
	return x.save()
}

func (x *ContentIndex) save() error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(x.entries)
	if err != nil {
		return err
	}
	return os.WriteFile(x.path, data, 0644)
}

// VerifyContentID checks that a content identifier hashes to the listing's
// on-chain fingerprint.
func VerifyContentID(contentID string, want [32]byte) error {
	got := sha256.Sum256([]byte(strings.TrimSpace(contentID)))
	if got != want {
		return fmt.Errorf("content id does not match the on-chain fingerprint")
	}
	return nil
}
