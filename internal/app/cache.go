package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local content cache",
		Long:  "Manage downloaded ebook content without touching listings or access rights.",
	}

	cmd.AddCommand(
		newCacheInfoCmd(),
		newCacheClearCmd(),
	)
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, bytes, err := cacheMgr.Stats()
			if err != nil {
				return fmt.Errorf("reading cache: %w", err)
			}
			header("Cache")
			printField("dir", cacheMgr.Root())
			printField("files", fmt.Sprintf("%d", files))
			printField("size", humanBytes(bytes))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached content",
		Long: `Remove every downloaded file from the local cache.

Purchased access lives on chain; anything removed here can be downloaded
again with 'ebookstore get'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, bytes, err := cacheMgr.Stats()
			if err != nil {
				return fmt.Errorf("reading cache: %w", err)
			}
			if files == 0 {
				ok("Cache is already empty")
				return nil
			}

			if !yes {
				fmt.Printf("This will remove %d cached files (%s)\n", files, humanBytes(bytes))
				fmt.Print("Proceed? (y/N): ")
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" && answer != "yes" {
					return fmt.Errorf("cancelled")
				}
			}

			if err := cacheMgr.Clear(); err != nil {
				return err
			}
			ok("Cleared %d files (%s)", files, humanBytes(bytes))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
