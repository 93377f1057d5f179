package app

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [txid]",
		Short: "Show connection status, or track a transaction",
		Long: `Without arguments, shows the configured network, contract, and session.
With a transaction id, looks up its confirmation state on the node.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showTxStatus(args[0])
			}
			return showOverview()
		},
	}
	return cmd
}

func showTxStatus(txid string) error {
	ctx, cancel := readCtx()
	defer cancel()

	tx, err := chainClient.GetTransaction(ctx, txid)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return fmt.Errorf("transaction %s is unknown to the node (not broadcast yet?)", txid)
		}
		return err
	}

	header("Transaction %s", tx.TxID)
	switch tx.LifecycleStatus() {
	case chain.TxSuccess:
		printField("status", color.GreenString("confirmed"))
		printField("block", fmt.Sprintf("%d", tx.BlockHeight))
	case chain.TxFailed:
		printField("status", color.RedString("failed"))
		printField("detail", tx.Status)
	default:
		printField("status", color.YellowString("pending"))
	}
	if network.ExplorerURL != "" {
		printField("explorer", explorerTxURL(tx.TxID))
	}
	return nil
}

func showOverview() error {
	header("ebookstore status")
	printField("network", network.Name)
	printField("node", network.CoreAPIBase)
	printField("contract", store.ID().String())
	printField("gateway", cfg.Gateway.URL)

	if addr, signedIn := sessionStore.Address(network); signedIn {
		printField("session", color.GreenString("connected"))
		printField("address", addr)
		if name := sessionStore.Profile().DisplayName; name != "" {
			printField("wallet", name)
		}
	} else {
		printField("session", color.RedString("not connected"))
	}

	ctx, cancel := readCtx()
	defer cancel()
	if count, err := store.GetListingCount(ctx); err != nil {
		warn("Could not reach the contract: %v", err)
	} else {
		printField("listings", fmt.Sprintf("%d", count))
	}

	files, bytes, err := cacheMgr.Stats()
	if err == nil {
		printField("cache", fmt.Sprintf("%d files (%s)", files, humanBytes(bytes)))
	}
	return nil
}
