package market

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Listing limits enforced by the contract; checked locally before a wallet
// round-trip.
const (
	MaxTitleLen       = 64
	MaxDescriptionLen = 256
)

// Listing is one ebook record on the contract.
type Listing struct {
	ID          uint64
	Title       string
	Description string
	// ContentHash is the sha256 of the listing's content identifier string,
	// not of the file bytes.
	ContentHash [32]byte
	// Price in microSTX.
	Price     uint64
	Author    string
	CreatedAt uint64 // block height
	Active    bool
}

// Draft is an unsubmitted listing as entered by the author.
type Draft struct {
	Title       string
	Description string
	// ContentID is the external content identifier (e.g. an IPFS CID) the
	// published file lives under.
	ContentID string
	// Price in microSTX.
	Price uint64
}

// Validate checks the draft locally. Nothing goes near the wallet or the
// network until this passes.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(d.Title) > MaxTitleLen {
		return fmt.Errorf("title is %d characters, max %d", len(d.Title), MaxTitleLen)
	}
	if len(d.Description) > MaxDescriptionLen {
		return fmt.Errorf("description is %d characters, max %d", len(d.Description), MaxDescriptionLen)
	}
	if strings.TrimSpace(d.ContentID) == "" {
		return fmt.Errorf("content identifier is required")
	}
	if d.Price == 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	return nil
}

// Fingerprint returns the on-chain content fingerprint for the draft's
// content identifier.
func (d Draft) Fingerprint() [32]byte {
	return sha256.Sum256([]byte(strings.TrimSpace(d.ContentID)))
}

// Filter applies all non-empty criteria and returns matching listings.
type Filter struct {
	Search string // matches title, description, or author
	Author string // exact author principal
}

// Apply returns the subset of listings matching all non-empty filter fields.
func (f Filter) Apply(listings []Listing) []Listing {
	var out []Listing
	for _, l := range listings {
		if f.Author != "" && l.Author != f.Author {
			continue
		}
		if f.Search != "" && !matchesSearch(l, f.Search) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesSearch(l Listing, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(l.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(l.Description), q) {
		return true
	}
	return strings.Contains(strings.ToLower(l.Author), q)
}
