package app

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/tui"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

func newPublishCmd() *cobra.Command {
	var (
		title       string
		description string
		contentID   string
		priceStx    string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "List an ebook for sale",
		Long: `Register a new listing in the marketplace contract.

The content itself is not uploaded here — pin it to IPFS first and pass its
identifier. Only a fingerprint of the identifier goes on chain.

With no flags on a terminal, an interactive form collects the fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := requireSession()
			if err != nil {
				return err
			}

			var draft *market.Draft
			haveFlags := title != "" || description != "" || contentID != "" || priceStx != ""

			if !haveFlags && tui.ShouldUseTUI(cmd) {
				draft, err = tui.RunPublishForm(tui.PublishFormDefaults{})
				if err != nil {
					return err
				}
				if draft == nil {
					warn("Publish cancelled.")
					return nil
				}
			} else {
				price, err := market.ParseStx(priceStx)
				if err != nil {
					return fmt.Errorf("--price: %w", err)
				}
				draft = &market.Draft{
					Title:       title,
					Description: description,
					ContentID:   contentID,
					Price:       price,
				}
				if err := draft.Validate(); err != nil {
					return err
				}
			}

			fp := draft.Fingerprint()
			header("Publishing %q", draft.Title)
			printField("price", market.FormatStx(draft.Price)+" STX")
			printField("fingerprint", fmt.Sprintf("%x", fp[:]))
			fmt.Println("Waiting for wallet approval …")

			ctx, cancel := approvalCtx()
			defer cancel()
			r, err := store.Register(ctx, p.SessionToken, *draft)
			if err != nil {
				if errors.Is(err, wallet.ErrRejected) {
					warn("Publish cancelled in wallet.")
					return nil
				}
				return err
			}

			// Remember the content id so 'get' can resolve it later.
			if err := contentIdx.Put(draft.ContentID); err != nil {
				warn("Could not record content id: %v", err)
			}

			printReceipt("Listing", r)
			fmt.Printf("%s The ebook id is assigned on confirmation — check the explorer link\n", color.CyanString("note:"))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Listing title")
	cmd.Flags().StringVar(&description, "description", "", "Listing description")
	cmd.Flags().StringVar(&contentID, "cid", "", "Content identifier (IPFS CID)")
	cmd.Flags().StringVar(&priceStx, "price", "", "Price in STX, e.g. 2.5")
	return cmd
}
