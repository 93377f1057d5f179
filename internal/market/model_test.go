package market_test

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/AdekunleBamz/ebook-store/internal/market"
)

func validDraft() market.Draft {
	return market.Draft{
		Title:     "The Go Programming Language",
		ContentID: "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi",
		Price:     5 * market.MicroStxPerStx,
	}
}

func TestDraftValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*market.Draft)
		wantErr bool
	}{
		{"valid", func(d *market.Draft) {}, false},
		{"valid with description", func(d *market.Draft) { d.Description = "a fine book" }, false},
		{"empty title", func(d *market.Draft) { d.Title = "" }, true},
		{"whitespace title", func(d *market.Draft) { d.Title = "   " }, true},
		{"title too long", func(d *market.Draft) { d.Title = strings.Repeat("x", market.MaxTitleLen+1) }, true},
		{"title at limit", func(d *market.Draft) { d.Title = strings.Repeat("x", market.MaxTitleLen) }, false},
		{"description too long", func(d *market.Draft) { d.Description = strings.Repeat("x", market.MaxDescriptionLen+1) }, true},
		{"zero price", func(d *market.Draft) { d.Price = 0 }, true},
		{"missing content id", func(d *market.Draft) { d.ContentID = "" }, true},
		{"whitespace content id", func(d *market.Draft) { d.ContentID = "  " }, true},
	}
	for _, c := range cases {
		d := validDraft()
		c.mutate(&d)
		err := d.Validate()
		if c.wantErr && err == nil {
			t.Errorf("%s: Validate() = nil, want error", c.name)
		}
		if !c.wantErr && err != nil {
			t.Errorf("%s: Validate() = %v, want nil", c.name, err)
		}
	}
}

func TestDraftFingerprint(t *testing.T) {
	d := validDraft()
	want := sha256.Sum256([]byte(d.ContentID))
	if got := d.Fingerprint(); got != want {
		t.Errorf("Fingerprint mismatch")
	}

	// Whitespace around the identifier must not change the fingerprint.
	padded := d
	padded.ContentID = "  " + d.ContentID + " "
	if padded.Fingerprint() != want {
		t.Error("Fingerprint changed by surrounding whitespace")
	}
}

func TestFilterApply(t *testing.T) {
	listings := []market.Listing{
		{ID: 1, Title: "Distributed Systems", Author: "SPAAA"},
		{ID: 2, Title: "Cooking for Gophers", Description: "recipes", Author: "SPBBB"},
		{ID: 3, Title: "More Systems", Author: "SPBBB"},
	}

	got := market.Filter{Search: "systems"}.Apply(listings)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("Search filter = %+v", got)
	}

	got = market.Filter{Author: "SPBBB"}.Apply(listings)
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("Author filter = %+v", got)
	}

	got = market.Filter{Search: "recipes", Author: "SPBBB"}.Apply(listings)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("combined filter = %+v", got)
	}

	if got := (market.Filter{Search: "nothing here"}).Apply(listings); len(got) != 0 {
		t.Errorf("no-match filter = %+v", got)
	}
}
