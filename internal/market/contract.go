package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

// ErrListingNotFound is returned when the contract holds no listing for the
// requested id.
var ErrListingNotFound = errors.New("listing not found")

// ReadCaller is the read-only slice of the chain client.
type ReadCaller interface {
	CallReadOnly(ctx context.Context, contract chain.ContractID, fn, sender string, args ...chain.Value) (chain.Value, error)
}

// Signer submits contract calls for wallet-mediated approval and broadcast.
type Signer interface {
	SignContractCall(ctx context.Context, token string, call wallet.ContractCall) (*wallet.Receipt, error)
}

// Contract wraps the marketplace contract's read and write surface.
type Contract struct {
	reader  ReadCaller
	signer  Signer
	id      chain.ContractID
	network string
}

// New binds a contract wrapper to a chain reader and a wallet signer.
// signer may be nil for read-only use.
func New(reader ReadCaller, signer Signer, id chain.ContractID, network string) *Contract {
	return &Contract{reader: reader, signer: signer, id: id, network: network}
}

// ID returns the bound contract identifier.
func (c *Contract) ID() chain.ContractID {
	return c.id
}

// GetListing fetches one listing by id. Returns ErrListingNotFound when the
// contract has no record for it.
func (c *Contract) GetListing(ctx context.Context, id uint64) (*Listing, error) {
	v, err := c.reader.CallReadOnly(ctx, c.id, "get-ebook", "", chain.UintValue(id))
	if err != nil {
		return nil, err
	}
	v = v.Unwrap()
	if v.IsNone() {
		return nil, fmt.Errorf("listing %d: %w", id, ErrListingNotFound)
	}
	l, err := decodeListing(v)
	if err != nil {
		return nil, fmt.Errorf("listing %d: %w", id, err)
	}
	l.ID = id
	return l, nil
}

// GetListingCount fetches the total number of listings ever registered.
func (c *Contract) GetListingCount(ctx context.Context) (uint64, error) {
	v, err := c.reader.CallReadOnly(ctx, c.id, "get-ebook-count", "")
	if err != nil {
		return 0, err
	}
	v = v.Unwrap()
	if v.Type != chain.TypeUInt {
		return 0, fmt.Errorf("get-ebook-count returned %#x, want uint", byte(v.Type))
	}
	return v.Uint, nil
}

// HasAccess reports whether buyer holds an access grant for the listing.
func (c *Contract) HasAccess(ctx context.Context, buyer string, id uint64) (bool, error) {
	arg, err := chain.PrincipalValue(buyer)
	if err != nil {
		return false, fmt.Errorf("buyer address: %w", err)
	}
	v, err := c.reader.CallReadOnly(ctx, c.id, "has-access", buyer, arg, chain.UintValue(id))
	if err != nil {
		return false, err
	}
	return v.Unwrap().Bool(), nil
}

// IsAuthor reports whether addr registered the listing.
func (c *Contract) IsAuthor(ctx context.Context, id uint64, addr string) (bool, error) {
	arg, err := chain.PrincipalValue(addr)
	if err != nil {
		return false, fmt.Errorf("address: %w", err)
	}
	v, err := c.reader.CallReadOnly(ctx, c.id, "is-author", addr, chain.UintValue(id), arg)
	if err != nil {
		return false, err
	}
	return v.Unwrap().Bool(), nil
}

// AuthorListings fetches the ids of listings registered by author, in
// registration order.
func (c *Contract) AuthorListings(ctx context.Context, author string) ([]uint64, error) {
	return c.idList(ctx, "get-author-ebooks", author)
}

// BuyerListings fetches the ids of listings author has purchased, in
// purchase order.
func (c *Contract) BuyerListings(ctx context.Context, buyer string) ([]uint64, error) {
	return c.idList(ctx, "get-buyer-ebooks", buyer)
}

func (c *Contract) idList(ctx context.Context, fn, principal string) ([]uint64, error) {
	arg, err := chain.PrincipalValue(principal)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	v, err := c.reader.CallReadOnly(ctx, c.id, fn, principal, arg)
	if err != nil {
		return nil, err
	}
	v = v.Unwrap()
	if v.IsNone() {
		return nil, nil
	}
	// The index map may come back bare or wrapped in a one-field tuple.
	if v.Type == chain.TypeTuple {
		inner, ok := v.Field("ebook-ids", "ebookIds", "ids")
		if !ok {
			return nil, fmt.Errorf("%s returned a tuple without an id list", fn)
		}
		v = inner.Unwrap()
	}
	if v.Type != chain.TypeList {
		return nil, fmt.Errorf("%s returned %#x, want list", fn, byte(v.Type))
	}
	ids := make([]uint64, 0, len(v.List))
	for _, item := range v.List {
		item = item.Unwrap()
		if item.Type != chain.TypeUInt {
			return nil, fmt.Errorf("%s returned a non-uint id", fn)
		}
		ids = append(ids, item.Uint)
	}
	return ids, nil
}

// Register submits a new listing for wallet approval. The draft must already
// be validated.
func (c *Contract) Register(ctx context.Context, token string, d Draft) (*wallet.Receipt, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	fp := d.Fingerprint()
	return c.sign(ctx, token, "register-ebook",
		chain.StringUTF8Value(d.Title),
		chain.StringUTF8Value(d.Description),
		chain.BufferValue(fp[:]),
		chain.UintValue(d.Price),
	)
}

// Buy submits a purchase of the listing for wallet approval. Payment and the
// access grant are handled by the contract.
func (c *Contract) Buy(ctx context.Context, token string, id uint64) (*wallet.Receipt, error) {
	return c.sign(ctx, token, "buy-ebook", chain.UintValue(id))
}

// UpdatePrice submits an author-only price change for wallet approval.
func (c *Contract) UpdatePrice(ctx context.Context, token string, id, price uint64) (*wallet.Receipt, error) {
	if price == 0 {
		return nil, fmt.Errorf("price must be greater than zero")
	}
	return c.sign(ctx, token, "update-price", chain.UintValue(id), chain.UintValue(price))
}

// Deactivate submits an author-only deactivation for wallet approval.
// Deactivation hides the listing from the storefront; it does not revoke
// granted access and can be reversed by a later price update flow.
func (c *Contract) Deactivate(ctx context.Context, token string, id uint64) (*wallet.Receipt, error) {
	return c.sign(ctx, token, "deactivate-ebook", chain.UintValue(id))
}

func (c *Contract) sign(ctx context.Context, token, fn string, args ...chain.Value) (*wallet.Receipt, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("no wallet configured")
	}
	return c.signer.SignContractCall(ctx, token, wallet.ContractCall{
		Contract: c.id,
		Function: fn,
		Args:     args,
		Network:  c.network,
	})
}

// decodeListing maps the contract's listing tuple onto a Listing. Field
// names are looked up under both spellings the contract has been seen to
// use.
func decodeListing(v chain.Value) (*Listing, error) {
	if v.Type != chain.TypeTuple {
		return nil, fmt.Errorf("listing is %#x, want tuple", byte(v.Type))
	}
	var l Listing

	if fv, ok := v.Field("title"); ok {
		l.Title = string(fv.Unwrap().Bytes)
	}
	if fv, ok := v.Field("description"); ok {
		l.Description = string(fv.Unwrap().Bytes)
	}
	fv, ok := v.Field("content-hash", "contentHash")
	if !ok {
		return nil, fmt.Errorf("listing tuple has no content hash")
	}
	hash := fv.Unwrap().Bytes
	if len(hash) != len(l.ContentHash) {
		return nil, fmt.Errorf("content hash is %d bytes, want %d", len(hash), len(l.ContentHash))
	}
	copy(l.ContentHash[:], hash)

	fv, ok = v.Field("price")
	if !ok {
		return nil, fmt.Errorf("listing tuple has no price")
	}
	l.Price = fv.Unwrap().Uint

	fv, ok = v.Field("author")
	if !ok {
		return nil, fmt.Errorf("listing tuple has no author")
	}
	l.Author = fv.Unwrap().Principal.String()

	if fv, ok := v.Field("created-at", "createdAt"); ok {
		l.CreatedAt = fv.Unwrap().Uint
	}
	if fv, ok := v.Field("active"); ok {
		l.Active = fv.Unwrap().Bool()
	}
	return &l, nil
}
