package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/session"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

// readTimeout bounds read-only chain calls. Wallet approval waits are longer
// since a human is in the loop.
const (
	readTimeout    = 30 * time.Second
	approvalWindow = 5 * time.Minute
)

func readCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), readTimeout)
}

func approvalCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), approvalWindow)
}

// requireSession returns the signed-in profile and its address for the
// active network, or an actionable error.
func requireSession() (*session.Profile, string, error) {
	p := sessionStore.Profile()
	if p == nil {
		return nil, "", fmt.Errorf("not connected — run 'ebookstore connect' first")
	}
	addr, ok := sessionStore.Address(network)
	if !ok {
		return nil, "", fmt.Errorf("wallet has no %s address — reconnect with 'ebookstore connect'", network.Name)
	}
	return p, addr, nil
}

// partialErr decides what to do with a composite read that loaded some
// listings and failed on others. With nothing loaded the error stands; with
// partial results the page still renders and the failures become a warning.
func partialErr(err error, loaded int) error {
	if err == nil {
		return nil
	}
	if loaded == 0 {
		return err
	}
	warn("Some listings could not be loaded: %v", err)
	return nil
}

func printField(label, value string) {
	fmt.Printf("  %-14s %s\n", color.CyanString(label+":"), value)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// contentFile is the cache file name for a listing's delivered content. The
// cache directory already encodes network, contract, and listing id.
const contentFile = "content"

func cachedPath(l *market.Listing) string {
	return cacheMgr.Path(network.Name, store.ID().String(), l.ID, contentFile)
}

func isCached(l *market.Listing) bool {
	return cacheMgr.Exists(network.Name, store.ID().String(), l.ID, contentFile)
}

// shortHash renders a content hash for display.
func shortHash(h [32]byte) string {
	return fmt.Sprintf("%x", h[:])
}

// explorerTxURL builds the block explorer link for a transaction.
func explorerTxURL(txid string) string {
	id := txid
	if !strings.HasPrefix(id, "0x") {
		id = "0x" + id
	}
	u := fmt.Sprintf("%s/txid/%s", network.ExplorerURL, id)
	if !network.IsMainnet() {
		u += "?chain=" + network.Name
	}
	return u
}

// printReceipt shows the submitted transaction and where to watch it.
func printReceipt(action string, r *wallet.Receipt) {
	ok("%s submitted", action)
	printField("txid", r.TxID)
	if network.ExplorerURL != "" {
		printField("explorer", explorerTxURL(r.TxID))
	}
	fmt.Printf("\n%s Run 'ebookstore status %s' to track confirmation\n", color.CyanString("hint:"), r.TxID)
}

// printListing shows the full detail block for one listing.
func printListing(l *market.Listing, owned, published bool) {
	header("Ebook #%d", l.ID)
	printField("title", l.Title)
	if l.Description != "" {
		printField("description", l.Description)
	}
	printField("author", l.Author)
	printField("price", market.FormatStx(l.Price)+" STX")
	printField("content_hash", shortHash(l.ContentHash))
	if l.CreatedAt != 0 {
		printField("listed_at", fmt.Sprintf("block %d", l.CreatedAt))
	}
	state := color.GreenString("active")
	if !l.Active {
		state = color.RedString("inactive")
	}
	printField("state", state)
	switch {
	case published:
		printField("ownership", color.YellowString("✎ you published this"))
	case owned:
		printField("ownership", color.GreenString("✓ you own this"))
	}
}
