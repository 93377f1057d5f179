package market_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

var (
	contractID = chain.ContractID{Address: "ST1PQHQKV0RJXZFY1DGX8MNSNYVE3VGZJSRTPGZGM", Name: "ebook-store"}

	authorAddr = mustAddr(1)
	buyerAddr  = mustAddr(2)
)

func mustAddr(fill byte) string {
	var hash [20]byte
	for i := range hash {
		hash[i] = fill
	}
	return chain.EncodeAddress(26, hash)
}

// fakeChain serves the contract's read functions from an in-memory table.
type fakeChain struct {
	mu       sync.Mutex
	listings map[uint64]chain.Value
	count    uint64
	authors  map[string][]uint64
	buyers   map[string][]uint64
	access   map[string][]uint64
	calls    map[string]int
	failFn   string
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		listings: map[uint64]chain.Value{},
		authors:  map[string][]uint64{},
		buyers:   map[string][]uint64{},
		access:   map[string][]uint64{},
		calls:    map[string]int{},
	}
}

func (f *fakeChain) addListing(id uint64, title, author string, price uint64, active, camelKeys bool) {
	principal, err := chain.PrincipalValue(author)
	if err != nil {
		panic(err)
	}
	hashKey, createdKey := "content-hash", "created-at"
	if camelKeys {
		hashKey, createdKey = "contentHash", "createdAt"
	}
	f.listings[id] = chain.SomeValue(chain.TupleValue(map[string]chain.Value{
		"title":       chain.StringUTF8Value(title),
		"description": chain.StringUTF8Value("about " + title),
		hashKey:       chain.BufferValue(make([]byte, 32)),
		"price":       chain.UintValue(price),
		"author":      principal,
		createdKey:    chain.UintValue(100 + id),
		"active":      chain.BoolValue(active),
	}))
	if id > f.count {
		f.count = id
	}
	f.authors[author] = append(f.authors[author], id)
}

func uintList(ids []uint64) chain.Value {
	vs := make([]chain.Value, len(ids))
	for i, id := range ids {
		vs[i] = chain.UintValue(id)
	}
	return chain.ListValue(vs...)
}

func contains(ids []uint64, id uint64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (f *fakeChain) CallReadOnly(ctx context.Context, contract chain.ContractID, fn, sender string, args ...chain.Value) (chain.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[fn]++
	if fn == f.failFn {
		return chain.Value{}, fmt.Errorf("injected failure in %s", fn)
	}
	switch fn {
	case "get-ebook-count":
		return chain.OkValue(chain.UintValue(f.count)), nil
	case "get-ebook":
		if v, ok := f.listings[args[0].Uint]; ok {
			return v, nil
		}
		return chain.NoneValue(), nil
	case "get-author-ebooks":
		return chain.TupleValue(map[string]chain.Value{
			"ebook-ids": uintList(f.authors[args[0].Principal.String()]),
		}), nil
	case "get-buyer-ebooks":
		return uintList(f.buyers[args[0].Principal.String()]), nil
	case "has-access":
		return chain.BoolValue(contains(f.access[args[0].Principal.String()], args[1].Uint)), nil
	case "is-author":
		return chain.BoolValue(contains(f.authors[args[1].Principal.String()], args[0].Uint)), nil
	default:
		return chain.Value{}, fmt.Errorf("unexpected function %q", fn)
	}
}

// fakeSigner records submitted calls.
type fakeSigner struct {
	calls []wallet.ContractCall
	err   error
}

func (f *fakeSigner) SignContractCall(ctx context.Context, token string, call wallet.ContractCall) (*wallet.Receipt, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return &wallet.Receipt{TxID: "0xfeed"}, nil
}

func newContract(fc *fakeChain, fs *fakeSigner) *market.Contract {
	return market.New(fc, fs, contractID, "testnet")
}

func TestGetListing(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "SICP", authorAddr, 2_000_000, true, false)
	c := newContract(fc, nil)

	l, err := c.GetListing(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if l.ID != 1 || l.Title != "SICP" || l.Price != 2_000_000 || !l.Active {
		t.Errorf("listing = %+v", l)
	}
	if l.Author != authorAddr {
		t.Errorf("author = %q, want %q", l.Author, authorAddr)
	}
	if l.CreatedAt != 101 {
		t.Errorf("created at = %d", l.CreatedAt)
	}
}

func TestGetListing_CamelCaseKeys(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "SICP", authorAddr, 2_000_000, true, true)
	c := newContract(fc, nil)

	l, err := c.GetListing(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetListing with camel-case keys: %v", err)
	}
	if l.CreatedAt != 101 {
		t.Errorf("created at = %d", l.CreatedAt)
	}
}

func TestGetListing_NotFound(t *testing.T) {
	c := newContract(newFakeChain(), nil)
	_, err := c.GetListing(context.Background(), 99)
	if !errors.Is(err, market.ErrListingNotFound) {
		t.Errorf("error = %v, want ErrListingNotFound", err)
	}
}

func TestStorefront_FiltersInactive(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Active One", authorAddr, 1_000_000, true, false)
	fc.addListing(2, "Hidden", authorAddr, 1_000_000, false, false)
	fc.addListing(3, "Active Two", buyerAddr, 3_000_000, true, false)
	c := newContract(fc, nil)

	got, err := c.Storefront(context.Background())
	if err != nil {
		t.Fatalf("Storefront: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d listings, want 2", len(got))
	}
	// Order follows id order despite concurrent fetches.
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("order = %d, %d", got[0].ID, got[1].ID)
	}
}

func TestStorefront_EmptySkipsFetches(t *testing.T) {
	fc := newFakeChain()
	c := newContract(fc, nil)

	got, err := c.Storefront(context.Background())
	if err != nil {
		t.Fatalf("Storefront: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
	if fc.calls["get-ebook"] != 0 {
		t.Errorf("issued %d get-ebook calls for an empty store", fc.calls["get-ebook"])
	}
}

func TestStorefront_PartialFailureStillReturnsLoaded(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "One", authorAddr, 1_000_000, true, false)
	c := newContract(fc, nil)
	fc.count = 2 // id 2 resolves to none, which is skipped silently

	got, err := c.Storefront(context.Background())
	if err != nil {
		t.Fatalf("Storefront: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("listings = %+v", got)
	}
}

func TestStorefront_CountFailure(t *testing.T) {
	fc := newFakeChain()
	fc.failFn = "get-ebook-count"
	c := newContract(fc, nil)

	if _, err := c.Storefront(context.Background()); err == nil {
		t.Error("Storefront swallowed a count failure")
	}
}

func TestBookshelf_UsesIndexes(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Mine Active", authorAddr, 1_000_000, true, false)
	fc.addListing(2, "Mine Hidden", authorAddr, 1_000_000, false, false)
	fc.addListing(3, "Theirs", buyerAddr, 1_000_000, true, false)
	fc.buyers[authorAddr] = []uint64{3}
	c := newContract(fc, nil)

	shelf, err := c.Bookshelf(context.Background(), authorAddr, false)
	if err != nil {
		t.Fatalf("Bookshelf: %v", err)
	}
	// Deactivated listings stay on the author's own shelf.
	if len(shelf.Published) != 2 {
		t.Fatalf("published = %+v", shelf.Published)
	}
	if len(shelf.Purchased) != 1 || shelf.Purchased[0].ID != 3 {
		t.Fatalf("purchased = %+v", shelf.Purchased)
	}
	// The index was trusted, so no full-table scan happened.
	if fc.calls["get-ebook-count"] != 0 {
		t.Errorf("index path still scanned the table (%d count calls)", fc.calls["get-ebook-count"])
	}
}

func TestBookshelf_RescanFallsBackToScan(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Mine", authorAddr, 1_000_000, true, false)
	fc.addListing(2, "Theirs", buyerAddr, 1_000_000, true, false)
	c := newContract(fc, nil)

	shelf, err := c.Bookshelf(context.Background(), authorAddr, true)
	if err != nil {
		t.Fatalf("Bookshelf: %v", err)
	}
	if len(shelf.Published) != 1 || shelf.Published[0].ID != 1 {
		t.Errorf("published = %+v", shelf.Published)
	}
	if fc.calls["get-ebook-count"] == 0 {
		t.Error("rescan did not walk the table")
	}
}

func TestBookshelf_EmptyIndexTrusted(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Theirs", buyerAddr, 1_000_000, true, false)
	c := newContract(fc, nil)

	// An address that published nothing gets an empty shelf without the
	// client walking the whole listing table.
	shelf, err := c.Bookshelf(context.Background(), authorAddr, false)
	if err != nil {
		t.Fatalf("Bookshelf: %v", err)
	}
	if len(shelf.Published) != 0 {
		t.Errorf("published = %+v, want empty", shelf.Published)
	}
	if fc.calls["get-ebook-count"] != 0 {
		t.Errorf("empty index triggered a scan (%d count calls)", fc.calls["get-ebook-count"])
	}
}

func TestBookshelf_IndexFailureTriggersScan(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Mine", authorAddr, 1_000_000, true, false)
	fc.addListing(2, "Theirs", buyerAddr, 1_000_000, true, false)
	fc.failFn = "get-author-ebooks"
	c := newContract(fc, nil)

	shelf, err := c.Bookshelf(context.Background(), authorAddr, false)
	if err != nil {
		t.Fatalf("Bookshelf: %v", err)
	}
	if len(shelf.Published) != 1 || shelf.Published[0].ID != 1 {
		t.Errorf("scan fallback missed the listing: %+v", shelf.Published)
	}
	if fc.calls["get-ebook-count"] == 0 {
		t.Error("index failure did not fall back to a scan")
	}
}

func TestHasAccess(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Book", authorAddr, 1_000_000, true, false)
	fc.access[buyerAddr] = []uint64{1}
	c := newContract(fc, nil)

	ok, err := c.HasAccess(context.Background(), buyerAddr, 1)
	if err != nil || !ok {
		t.Errorf("HasAccess(buyer, 1) = %v, %v, want true", ok, err)
	}
	ok, err = c.HasAccess(context.Background(), buyerAddr, 2)
	if err != nil || ok {
		t.Errorf("HasAccess(buyer, 2) = %v, %v, want false", ok, err)
	}
}

func TestIsAuthor(t *testing.T) {
	fc := newFakeChain()
	fc.addListing(1, "Book", authorAddr, 1_000_000, true, false)
	c := newContract(fc, nil)

	ok, err := c.IsAuthor(context.Background(), 1, authorAddr)
	if err != nil || !ok {
		t.Errorf("IsAuthor(1, author) = %v, %v, want true", ok, err)
	}
	ok, err = c.IsAuthor(context.Background(), 1, buyerAddr)
	if err != nil || ok {
		t.Errorf("IsAuthor(1, buyer) = %v, %v, want false", ok, err)
	}
}

func TestRegister_ValidatesBeforeSigning(t *testing.T) {
	fs := &fakeSigner{}
	c := newContract(newFakeChain(), fs)

	_, err := c.Register(context.Background(), "tok", market.Draft{Title: "", ContentID: "cid", Price: 1})
	if err == nil {
		t.Fatal("empty title accepted")
	}
	_, err = c.Register(context.Background(), "tok", market.Draft{Title: "T", ContentID: "cid", Price: 0})
	if err == nil {
		t.Fatal("zero price accepted")
	}
	if len(fs.calls) != 0 {
		t.Errorf("signer reached before validation: %d calls", len(fs.calls))
	}
}

func TestRegister_SubmitsFingerprint(t *testing.T) {
	fs := &fakeSigner{}
	c := newContract(newFakeChain(), fs)

	d := validDraft()
	rcpt, err := c.Register(context.Background(), "tok", d)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rcpt.TxID != "0xfeed" {
		t.Errorf("TxID = %q", rcpt.TxID)
	}
	if len(fs.calls) != 1 {
		t.Fatalf("signer calls = %d", len(fs.calls))
	}
	call := fs.calls[0]
	if call.Function != "register-ebook" || len(call.Args) != 4 {
		t.Fatalf("call = %+v", call)
	}
	fp := d.Fingerprint()
	if string(call.Args[2].Bytes) != string(fp[:]) {
		t.Error("content fingerprint argument does not match draft")
	}
	if call.Args[3].Uint != d.Price {
		t.Errorf("price argument = %d", call.Args[3].Uint)
	}
}

func TestBuy_Rejected(t *testing.T) {
	fs := &fakeSigner{err: wallet.ErrRejected}
	c := newContract(newFakeChain(), fs)

	_, err := c.Buy(context.Background(), "tok", 1)
	if !errors.Is(err, wallet.ErrRejected) {
		t.Errorf("error = %v, want ErrRejected", err)
	}
}

func TestUpdatePrice_ZeroRejectedLocally(t *testing.T) {
	fs := &fakeSigner{}
	c := newContract(newFakeChain(), fs)

	if _, err := c.UpdatePrice(context.Background(), "tok", 1, 0); err == nil {
		t.Error("zero price accepted")
	}
	if len(fs.calls) != 0 {
		t.Error("signer reached for invalid price")
	}
}

func TestWriteWithoutSigner(t *testing.T) {
	c := market.New(newFakeChain(), nil, contractID, "testnet")
	if _, err := c.Buy(context.Background(), "", 1); err == nil {
		t.Error("write without signer succeeded")
	}
}
