package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

func newDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Take an ebook you published off the storefront",
		Long: `Deactivate a listing so it no longer appears in the store.

Buyers keep the access they already paid for. The listing stays on your
shelf and can be repriced later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}

			p, addr, err := requireSession()
			if err != nil {
				return err
			}
			if err := requireAuthorship(id, addr); err != nil {
				return err
			}

			fmt.Printf("Deactivating #%d\n", id)
			fmt.Println("Waiting for wallet approval …")

			ctx, cancel := approvalCtx()
			defer cancel()
			r, err := store.Deactivate(ctx, p.SessionToken, id)
			if err != nil {
				if errors.Is(err, wallet.ErrRejected) {
					warn("Deactivation cancelled in wallet.")
					return nil
				}
				return err
			}

			printReceipt("Deactivation", r)
			return nil
		},
	}
	return cmd
}
