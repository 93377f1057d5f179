package app

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

func newPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price <id> <stx>",
		Short: "Change the price of an ebook you published",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}
			price, err := market.ParseStx(args[1])
			if err != nil {
				return fmt.Errorf("price: %w", err)
			}

			p, addr, err := requireSession()
			if err != nil {
				return err
			}
			if err := requireAuthorship(id, addr); err != nil {
				return err
			}

			fmt.Printf("Setting price of #%d to %s STX\n", id, color.CyanString(market.FormatStx(price)))
			fmt.Println("Waiting for wallet approval …")

			ctx, cancel := approvalCtx()
			defer cancel()
			r, err := store.UpdatePrice(ctx, p.SessionToken, id, price)
			if err != nil {
				if errors.Is(err, wallet.ErrRejected) {
					warn("Price change cancelled in wallet.")
					return nil
				}
				return err
			}

			printReceipt("Price change", r)
			return nil
		},
	}
	return cmd
}

// requireAuthorship pre-checks is-author so a doomed transaction never
// reaches the wallet. The contract still enforces it.
func requireAuthorship(id uint64, addr string) error {
	ctx, cancel := readCtx()
	defer cancel()
	isAuthor, err := store.IsAuthor(ctx, id, addr)
	if err != nil {
		return fmt.Errorf("checking authorship: %w", err)
	}
	if !isAuthor {
		return fmt.Errorf("ebook #%d was not published by this wallet", id)
	}
	return nil
}
