package app

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/tui"
	"github.com/AdekunleBamz/ebook-store/internal/util"
)

func newGetCmd() *cobra.Command {
	var (
		cid    string
		force  bool
		copyTo string
	)

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download a purchased ebook into the local cache",
		Long: `Download an ebook's content from the gateway into the local cache.

The chain stores only a fingerprint of the content identifier. The identifier
itself is remembered locally for ebooks you published or fetched before;
otherwise pass it with --cid. Either way it is verified against the on-chain
fingerprint before anything is downloaded.`,
		Args: cobra.ExactArgs(1),
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

			if !force && isCached(l) {
				ok("Already cached: %s", cachedPath(l))
				return copyOut(cachedPath(l), copyTo)
			}

			path, err := fetchListing(cmd, l, cid)
			if err != nil {
				return err
			}
			return copyOut(path, copyTo)
		},
	}

	cmd.Flags().StringVar(&cid, "cid", "", "Content identifier (required if not known locally)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-download even if already cached")
	cmd.Flags().StringVar(&copyTo, "to", "", "Copy to this path after download")
	return cmd
}

// downloadListing is the browser's download action: cache-or-fetch with the
// locally known content id.
func downloadListing(l *market.Listing) error {
	if isCached(l) {
		ok("Already cached: %s", cachedPath(l))
		return nil
	}
	_, err := fetchListing(nil, l, "")
	return err
}

// fetchListing checks access, resolves and verifies the content id, and
// streams the content through the gateway into the cache.
func fetchListing(cmd *cobra.Command, l *market.Listing, cid string) (string, error) {
	_, addr, err := requireSession()
	if err != nil {
		return "", err
	}

	if l.Author != addr {
		ctx, cancel := readCtx()
		owned, err := store.HasAccess(ctx, addr, l.ID)
		cancel()
		if err != nil {
			return "", fmt.Errorf("checking access: %w", err)
		}
		if !owned {
			return "", fmt.Errorf("no access to ebook #%d — run 'ebookstore buy %d' first", l.ID, l.ID)
		}
	}

	if cid == "" {
		known, found := contentIdx.Lookup(l.ContentHash)
		if !found {
			return "", fmt.Errorf("content id for ebook #%d is not known locally — pass it with --cid", l.ID)
		}
		cid = known
	}
	if err := market.VerifyContentID(cid, l.ContentHash); err != nil {
		return "", err
	}

	fmt.Printf("Downloading %s …\n", color.WhiteString("%q", l.Title))

	ctx, cancel := approvalCtx()
	defer cancel()
	rc, size, err := gatewayCli.Fetch(ctx, cid)
	if err != nil {
		return "", fmt.Errorf("gateway: %w", err)
	}
	defer func() { _ = rc.Close() }()

	var path string
	if cmd != nil && util.IsTTY() && tui.ShouldUseTUI(cmd) {
		path, err = storeWithProgress(l, rc, size, tui.ShowProgress)
	} else {
		path, err = cacheMgr.Store(network.Name, store.ID().String(), l.ID, contentFile, rc, "")
	}
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}

	// Remember the id so the next download needs no --cid.
	if err := contentIdx.Put(cid); err != nil {
		warn("Could not record content id: %v", err)
	}

	ok("Cached: %s", path)
	return path, nil
}

// storeWithProgress streams r into the cache while show renders a progress
// display fed from the byte counter. The cache result travels back over its
// own channel so the caller never touches shared state with the goroutine.
func storeWithProgress(l *market.Listing, r io.Reader, size int64, show func(label string, total int64, updates <-chan int64) error) (string, error) {
	progressCh := make(chan int64, 50)
	type storeResult struct {
		path string
		err  error
	}
	resCh := make(chan storeResult, 1)

	go func() {
		pr := tui.NewProgressReader(r, size, progressCh)
		p, err := cacheMgr.Store(network.Name, store.ID().String(), l.ID, contentFile, pr, "")
		close(progressCh)
		resCh <- storeResult{path: p, err: err}
	}()

	label := fmt.Sprintf("Downloading #%d", l.ID)
	if size > 0 {
		label = fmt.Sprintf("Downloading #%d (%s)", l.ID, humanBytes(size))
	}
	showErr := show(label, size, progressCh)

	res := <-resCh
	if res.err != nil {
		return "", res.err
	}
	if showErr != nil {
		return "", showErr
	}
	return res.path, nil
}

func copyOut(path, dest string) error {
	if dest == "" {
		return nil
	}
	if err := util.CopyFile(path, dest); err != nil {
		return err
	}
	ok("Copied to %s", dest)
	return nil
}
