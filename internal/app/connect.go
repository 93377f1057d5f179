package app

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

func newConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Sign in through the local wallet agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionStore.IsSignedIn() {
				addr, _ := sessionStore.Address(network)
				ok("Already connected as %s", addr)
				return nil
			}

			fmt.Printf("Connecting to wallet agent at %s …\n", cfg.Wallet.AgentURL)
			fmt.Println("Approve the connection in your wallet.")

			ctx, cancel := approvalCtx()
			defer cancel()
			profile, err := walletClient.Connect(ctx)
			if err != nil {
				if errors.Is(err, wallet.ErrRejected) {
					warn("Connection rejected in wallet.")
					return nil
				}
				if errors.Is(err, wallet.ErrAgentUnreachable) {
					return fmt.Errorf("wallet agent unreachable at %s — is it running?", cfg.Wallet.AgentURL)
				}
				return err
			}

			if err := sessionStore.SignIn(*profile); err != nil {
				return fmt.Errorf("persisting session: %w", err)
			}

			addr, _ := sessionStore.Address(network)
			ok("Connected as %s", addr)
			if profile.DisplayName != "" {
				printField("wallet", profile.DisplayName)
			}
			return nil
		},
	}
	return cmd
}

func newDisconnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disconnect",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sessionStore.IsSignedIn() {
				fmt.Println("Not connected.")
				return nil
			}
			if err := sessionStore.SignOut(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			ok("Disconnected")
			return nil
		},
	}
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in wallet address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := sessionStore.Profile()
			if p == nil {
				fmt.Println(color.YellowString("Not connected — run 'ebookstore connect'"))
				return nil
			}
			if p.DisplayName != "" {
				printField("wallet", p.DisplayName)
			}
			if p.MainnetAddress != "" {
				printField("mainnet", p.MainnetAddress)
			}
			if p.TestnetAddress != "" {
				printField("testnet", p.TestnetAddress)
			}
			addr, hasAddr := sessionStore.Address(network)
			if hasAddr {
				printField("active", fmt.Sprintf("%s (%s)", addr, network.Name))
			} else {
				warn("No address for the active network (%s)", network.Name)
			}
			return nil
		},
	}
	return cmd
}
