package app

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show metadata, access, and cache status for an ebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseListingID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := readCtx()
			defer cancel()

			l, err := store.GetListing(ctx, id)
			if err != nil {
				return err
			}

			var owned, published bool
			if addr, signedIn := sessionStore.Address(network); signedIn {
				published = l.Author == addr
				if !published {
					if has, err := store.HasAccess(ctx, addr, l.ID); err != nil {
						warn("Could not check access: %v", err)
					} else {
						owned = has
					}
				}
			}

			printListing(l, owned, published)

			cacheStatus := color.RedString("not cached")
			if isCached(l) {
				cacheStatus = color.GreenString("cached") + "  " + cachedPath(l)
			}
			printField("cache", cacheStatus)
			return nil
		},
	}
	return cmd
}
