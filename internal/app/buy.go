package app

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

func newBuyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buy <id>",
		Short: "Purchase an ebook (pays the listed price, grants access)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := readCtx()
			l, err := store.GetListing(ctx, id)
			cancel()
			if err != nil {
				return err
			}
			return buyListing(l)
		},
	}
	return cmd
}

// buyListing runs the purchase flow for an already-fetched listing.
func buyListing(l *market.Listing) error {
	p, addr, err := requireSession()
	if err != nil {
		return err
	}

	if !l.Active {
		return fmt.Errorf("ebook #%d is no longer for sale", l.ID)
	}
	if l.Author == addr {
		return fmt.Errorf("you published ebook #%d — authors already have access", l.ID)
	}

	ctx, cancel := readCtx()
	owned, err := store.HasAccess(ctx, addr, l.ID)
	cancel()
	if err != nil {
		return fmt.Errorf("checking access: %w", err)
	}
	if owned {
		ok("You already own %q — run 'ebookstore get %d' to fetch it", l.Title, l.ID)
		return nil
	}

	fmt.Printf("Buying %s for %s STX\n",
		color.WhiteString("%q", l.Title),
		color.CyanString(market.FormatStx(l.Price)))
	fmt.Println("Waiting for wallet approval …")

	actx, acancel := approvalCtx()
	defer acancel()
	r, err := store.Buy(actx, p.SessionToken, l.ID)
	if err != nil {
		if errors.Is(err, wallet.ErrRejected) {
			warn("Purchase cancelled in wallet.")
			return nil
		}
		return err
	}

	printReceipt("Purchase", r)
	return nil
}

func parseListingID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid ebook id %q", s)
	}
	return id, nil
}
