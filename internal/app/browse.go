package app

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/tui"
)

func newBrowseCmd() *cobra.Command {
	var (
		search string
		author string
		mine   bool
	)

	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"ls"},
		Short:   "Browse the storefront (interactive TUI or text output)",
		RunE: func(cmd *cobra.Command, args []string) error {
			viewer, _ := sessionStore.Address(network)
			if mine {
				if viewer == "" {
					return fmt.Errorf("--mine needs a connected wallet")
				}
				author = viewer
			}
			f := market.Filter{Search: search, Author: author}

			if tui.ShouldUseTUI(cmd) {
				loader := func(ctx context.Context) ([]tui.ListingItem, error) {
					listings, err := store.Storefront(ctx)
					if err := partialErr(err, len(listings)); err != nil {
						return nil, err
					}
					return annotate(ctx, f.Apply(listings), viewer), nil
				}

				result, err := tui.RunBrowser("Ebook Store", loader)
				if err != nil {
					return err
				}
				if result != nil && result.Action != tui.ActionNone && result.Listing != nil {
					return handleBrowserAction(result)
				}
				return nil
			}

			// CLI mode: plain text output.
			ctx, cancel := readCtx()
			defer cancel()

			listings, err := store.Storefront(ctx)
			if err := partialErr(err, len(listings)); err != nil {
				return err
			}
			matched := f.Apply(listings)
			if len(matched) == 0 {
				fmt.Println("No ebooks found.")
				return nil
			}

			header("── %s  (%d ebooks)", store.ID().Name, len(matched))
			for i := range matched {
				l := &matched[i]
				mark := ""
				if viewer != "" {
					if l.Author == viewer {
						mark = color.YellowString(" ✎")
					} else if owned, err := store.HasAccess(ctx, viewer, l.ID); err == nil && owned {
						mark = color.GreenString(" ✓")
					}
				}
				fmt.Printf("  %-6s  %-40s  %s STX%s\n",
					color.WhiteString(fmt.Sprintf("#%d", l.ID)),
					l.Title,
					color.CyanString(market.FormatStx(l.Price)),
					mark,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Full-text search (title, description, author)")
	cmd.Flags().StringVar(&author, "author", "", "Filter by author address")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only listings published by the connected wallet")
	return cmd
}

// annotate marks each listing with the viewer's relationship to it. Access
// lookups are best effort; a failed check just leaves the mark off.
func annotate(ctx context.Context, listings []market.Listing, viewer string) []tui.ListingItem {
	items := make([]tui.ListingItem, 0, len(listings))
	for _, l := range listings {
		item := tui.ListingItem{Listing: l}
		if viewer != "" {
			item.Published = l.Author == viewer
			if !item.Published {
				if owned, err := store.HasAccess(ctx, viewer, l.ID); err == nil {
					item.Owned = owned
				}
			}
		}
		items = append(items, item)
	}
	return items
}

// handleBrowserAction executes the action requested from the listing browser.
func handleBrowserAction(result *tui.BrowserResult) error {
	item := result.Listing
	l := &item.Listing

	switch result.Action {
	case tui.ActionShowDetails:
		printListing(l, item.Owned, item.Published)
		cacheStatus := color.RedString("not cached")
		if isCached(l) {
			cacheStatus = color.GreenString("cached") + "  " + cachedPath(l)
		}
		printField("cache", cacheStatus)
		return nil

	case tui.ActionBuy:
		return buyListing(l)

	case tui.ActionDownload:
		return downloadListing(l)

	default:
		return nil
	}
}
