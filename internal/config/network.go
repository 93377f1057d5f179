package config

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// c32check version bytes for standard single-signature addresses.
const (
	VersionMainnet byte = 22 // addresses starting SP
	VersionTestnet byte = 26 // addresses starting ST
)

// Network is an immutable endpoint descriptor for one Stacks network.
type Network struct {
	Name        string
	CoreAPIBase string
	ExplorerURL string
	// Version is the address version byte accounts on this network use.
	Version byte
}

var (
	mainnet = Network{
		Name:        "mainnet",
		CoreAPIBase: "https://api.mainnet.hiro.so",
		ExplorerURL: "https://explorer.hiro.so",
		Version:     VersionMainnet,
	}
	testnet = Network{
		Name:        "testnet",
		CoreAPIBase: "https://api.testnet.hiro.so",
		ExplorerURL: "https://explorer.hiro.so",
		Version:     VersionTestnet,
	}
	devnet = Network{
		Name:        "devnet",
		CoreAPIBase: "http://localhost:3999",
		ExplorerURL: "http://localhost:8000",
		Version:     VersionTestnet,
	}
)

// ResolveNetwork maps a configured network name to its endpoint descriptor.
// Unrecognized names fall back to devnet with a diagnostic.
func ResolveNetwork(name string) Network {
	switch name {
	case "mainnet":
		return mainnet
	case "testnet":
		return testnet
	case "devnet", "":
		return devnet
	default:
		fmt.Fprintln(os.Stderr, color.YellowString("!"),
			fmt.Sprintf("unknown network %q, falling back to devnet", name))
		return devnet
	}
}

// IsMainnet reports whether this descriptor targets mainnet.
func (n Network) IsMainnet() bool {
	return n.Name == "mainnet"
}
