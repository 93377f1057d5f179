package market

import (
	"context"
	"errors"
	"sync"
)

// fetchConcurrency bounds how many listing fetches are in flight at once
// during composite reads.
const fetchConcurrency = 8

// Storefront fetches every active listing: count first, then per-id fetches
// in bounded parallel batches collected by index. A zero count issues no
// per-record fetches. Failed fetches are reported through the joined error;
// the listings that did load are still returned.
func (c *Contract) Storefront(ctx context.Context) ([]Listing, error) {
	count, err := c.GetListingCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []Listing{}, nil
	}

	listings, err := c.fetchRange(ctx, 1, count)
	active := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.Active {
			active = append(active, l)
		}
	}
	return active, err
}

// Bookshelf is the my-books composite: what the address published and what
// it purchased. Inactive listings stay visible in Published.
type Bookshelf struct {
	Published []Listing
	Purchased []Listing
}

// Bookshelf loads the published and purchased listings for addr. The
// author-index lookup is primary; when rescan is set, or when the index
// lookup itself fails, a full-table scan over every listing stands in for it
// (index misses have been seen on devnet, hence the rescan escape hatch).
// An empty index is trusted as "published nothing". Purchases use the buyer
// index only.
func (c *Contract) Bookshelf(ctx context.Context, addr string, rescan bool) (*Bookshelf, error) {
	var errs []error
	shelf := &Bookshelf{}

	ids, idxErr := c.AuthorListings(ctx, addr)
	if rescan || idxErr != nil {
		published, err := c.scanByAuthor(ctx, addr)
		if err != nil {
			// The scan could not cover for the index either.
			if idxErr != nil {
				errs = append(errs, idxErr)
			}
			errs = append(errs, err)
		}
		shelf.Published = published
	} else {
		published, err := c.fetchIDs(ctx, ids)
		if err != nil {
			errs = append(errs, err)
		}
		shelf.Published = published
	}

	bought, err := c.BuyerListings(ctx, addr)
	if err != nil {
		errs = append(errs, err)
	}
	purchased, err := c.fetchIDs(ctx, bought)
	if err != nil {
		errs = append(errs, err)
	}
	shelf.Purchased = purchased

	return shelf, errors.Join(errs...)
}

// scanByAuthor walks the whole listing table comparing authors. O(n) remote
// reads; only used when the author index cannot be trusted.
func (c *Contract) scanByAuthor(ctx context.Context, addr string) ([]Listing, error) {
	count, err := c.GetListingCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return []Listing{}, nil
	}
	all, err := c.fetchRange(ctx, 1, count)
	mine := make([]Listing, 0)
	for _, l := range all {
		if l.Author == addr {
			mine = append(mine, l)
		}
	}
	return mine, err
}

func (c *Contract) fetchRange(ctx context.Context, first, last uint64) ([]Listing, error) {
	ids := make([]uint64, 0, last-first+1)
	for id := first; id <= last; id++ {
		ids = append(ids, id)
	}
	return c.fetchIDs(ctx, ids)
}

// fetchIDs loads the given listings concurrently, preserving id order in the
// result. Missing ids are skipped; other failures are joined into the
// returned error.
func (c *Contract) fetchIDs(ctx context.Context, ids []uint64) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}

	results := make([]*Listing, len(ids))
	errs := make([]error, len(ids))
	sem := make(chan struct{}, fetchConcurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			l, err := c.GetListing(ctx, id)
			if err != nil {
				if !errors.Is(err, ErrListingNotFound) {
					errs[i] = err
				}
				return
			}
			results[i] = l
		}(i, id)
	}
	wg.Wait()

	out := make([]Listing, 0, len(ids))
	for _, l := range results {
		if l != nil {
			out = append(out, *l)
		}
	}
	return out, errors.Join(errs...)
}
