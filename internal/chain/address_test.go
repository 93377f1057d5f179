package chain_test

import (
	"strings"
	"testing"

	"github.com/AdekunleBamz/ebook-store/internal/chain"
)

// The all-zero hash160 at version 22 is the well-known mainnet burn address.
const burnAddress = "SP000000000000000000002Q6VF78"

func TestEncodeAddress_BurnVector(t *testing.T) {
	var zero [20]byte
	got := chain.EncodeAddress(22, zero)
	if got != burnAddress {
		t.Errorf("EncodeAddress(22, zero) = %q, want %q", got, burnAddress)
	}
}

func TestDecodeAddress_BurnVector(t *testing.T) {
	version, hash, err := chain.DecodeAddress(burnAddress)
	if err != nil {
		t.Fatalf("DecodeAddress: %v", err)
	}
	if version != 22 {
		t.Errorf("version = %d, want 22", version)
	}
	for _, b := range hash {
		if b != 0 {
			t.Fatalf("hash not zero: %x", hash)
		}
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	var hash [20]byte
	for i := range hash {
		hash[i] = byte(i + 1)
	}
	for _, version := range []byte{22, 26} {
		addr := chain.EncodeAddress(version, hash)
		if addr[0] != 'S' {
			t.Errorf("address %q does not start with S", addr)
		}
		v2, h2, err := chain.DecodeAddress(addr)
		if err != nil {
			t.Fatalf("DecodeAddress(%q): %v", addr, err)
		}
		if v2 != version || h2 != hash {
			t.Errorf("round trip mismatch for version %d", version)
		}
	}
}

func TestDecodeAddress_Lowercase(t *testing.T) {
	if _, _, err := chain.DecodeAddress(strings.ToLower(burnAddress)); err != nil {
		t.Errorf("lowercase address rejected: %v", err)
	}
}

func TestDecodeAddress_BadChecksum(t *testing.T) {
	// Swap the last digit for a different valid c32 digit.
	corrupted := burnAddress[:len(burnAddress)-1] + "9"
	if corrupted == burnAddress {
		corrupted = burnAddress[:len(burnAddress)-1] + "7"
	}
	if _, _, err := chain.DecodeAddress(corrupted); err == nil {
		t.Error("corrupted address accepted")
	}
}

func TestDecodeAddress_Garbage(t *testing.T) {
	for _, s := range []string{"", "S", "XP000", "SP+++", "SP12"} {
		if _, _, err := chain.DecodeAddress(s); err == nil {
			t.Errorf("DecodeAddress(%q) accepted garbage", s)
		}
	}
}

func TestParsePrincipal_Contract(t *testing.T) {
	p, err := chain.ParsePrincipal(burnAddress + ".ebook-store")
	if err != nil {
		t.Fatalf("ParsePrincipal: %v", err)
	}
	if p.Contract != "ebook-store" {
		t.Errorf("Contract = %q", p.Contract)
	}
	if p.String() != burnAddress+".ebook-store" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestParsePrincipal_EmptyContract(t *testing.T) {
	if _, err := chain.ParsePrincipal(burnAddress + "."); err == nil {
		t.Error("empty contract name accepted")
	}
}
