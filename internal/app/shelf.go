package app

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/tui"
)

func newShelfCmd() *cobra.Command {
	var rescan bool

	cmd := &cobra.Command{
		Use:     "shelf",
		Aliases: []string{"my"},
		Short:   "Show your published and purchased ebooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, addr, err := requireSession()
			if err != nil {
				return err
			}

			if tui.ShouldUseTUI(cmd) {
				loader := func(ctx context.Context) ([]tui.ListingItem, error) {
					shelf, err := store.Bookshelf(ctx, addr, rescan)
					if err := partialErr(err, len(shelf.Published)+len(shelf.Purchased)); err != nil {
						return nil, err
					}
					items := make([]tui.ListingItem, 0, len(shelf.Published)+len(shelf.Purchased))
					for _, l := range shelf.Published {
						items = append(items, tui.ListingItem{Listing: l, Published: true})
					}
					for _, l := range shelf.Purchased {
						items = append(items, tui.ListingItem{Listing: l, Owned: true})
					}
					return items, nil
				}

				result, err := tui.RunBrowser("My Books", loader)
				if err != nil {
					return err
				}
				if result != nil && result.Action != tui.ActionNone && result.Listing != nil {
					return handleBrowserAction(result)
				}
				return nil
			}

			ctx, cancel := readCtx()
			defer cancel()

			shelf, err := store.Bookshelf(ctx, addr, rescan)
			if err := partialErr(err, len(shelf.Published)+len(shelf.Purchased)); err != nil {
				return err
			}

			printShelfSection("Published", shelf.Published, color.YellowString("✎"))
			fmt.Println()
			printShelfSection("Purchased", shelf.Purchased, color.GreenString("✓"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rescan, "rescan", false, "Scan the whole listing table instead of trusting the on-chain index")
	return cmd
}

func printShelfSection(title string, listings []market.Listing, mark string) {
	header("── %s  (%d)", title, len(listings))
	if len(listings) == 0 {
		fmt.Println("  none")
		return
	}
	for i := range listings {
		l := &listings[i]
		state := ""
		if !l.Active {
			state = color.RedString("  [inactive]")
		}
		fmt.Printf("  %s %-6s  %-40s  %s STX%s\n",
			mark,
			color.WhiteString(fmt.Sprintf("#%d", l.ID)),
			l.Title,
			color.CyanString(market.FormatStx(l.Price)),
			state,
		)
	}
}
