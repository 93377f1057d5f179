package app

import (
	"errors"
	"testing"

	"github.com/AdekunleBamz/ebook-store/internal/config"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, c := range cases {
		got := humanBytes(c.in)
		if got != c.want {
			t.Errorf("humanBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseListingID(t *testing.T) {
	if _, err := parseListingID("0"); err == nil {
		t.Error("parseListingID(0) should fail, ids start at 1")
	}
	if _, err := parseListingID("abc"); err == nil {
		t.Error("parseListingID(abc) should fail")
	}
	if _, err := parseListingID("-1"); err == nil {
		t.Error("parseListingID(-1) should fail")
	}
	id, err := parseListingID("42")
	if err != nil || id != 42 {
		t.Errorf("parseListingID(42) = %d, %v", id, err)
	}
}

func TestExplorerTxURL(t *testing.T) {
	saved := network
	defer func() { network = saved }()

	network = config.ResolveNetwork("mainnet")
	got := explorerTxURL("abc123")
	want := network.ExplorerURL + "/txid/0xabc123"
	if got != want {
		t.Errorf("mainnet url = %q, want %q", got, want)
	}

	network = config.ResolveNetwork("testnet")
	got = explorerTxURL("0xdef456")
	want = network.ExplorerURL + "/txid/0xdef456?chain=testnet"
	if got != want {
		t.Errorf("testnet url = %q, want %q", got, want)
	}
}

func TestPartialErr(t *testing.T) {
	readErr := errors.New("listing 3: timeout")

	if err := partialErr(nil, 5); err != nil {
		t.Errorf("no error should pass through clean, got %v", err)
	}
	if err := partialErr(readErr, 0); !errors.Is(err, readErr) {
		t.Errorf("nothing loaded should surface the error, got %v", err)
	}
	if err := partialErr(readErr, 2); err != nil {
		t.Errorf("partial results should render with a warning, got %v", err)
	}
}
