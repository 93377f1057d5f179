package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AdekunleBamz/ebook-store/internal/cache"
	"github.com/AdekunleBamz/ebook-store/internal/chain"
	"github.com/AdekunleBamz/ebook-store/internal/config"
	"github.com/AdekunleBamz/ebook-store/internal/gateway"
	"github.com/AdekunleBamz/ebook-store/internal/market"
	"github.com/AdekunleBamz/ebook-store/internal/session"
	"github.com/AdekunleBamz/ebook-store/internal/util"
	"github.com/AdekunleBamz/ebook-store/internal/wallet"
)

var (
	cfg          *config.Config
	network      config.Network
	sessionStore *session.Store
	chainClient  *chain.Client
	walletClient *wallet.Client
	store        *market.Contract
	contentIdx   *market.ContentIndex
	gatewayCli   *gateway.Client
	cacheMgr     *cache.Manager

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagNetwork       string
)

var rootCmd = &cobra.Command{
	Use:   "ebookstore",
	Short: "Buy and publish ebooks on the Stacks blockchain",
	Long: `ebookstore is a client for an on-chain ebook marketplace.

Listings, purchases, and access rights live in a Stacks smart contract.
Ebook files are fetched from an IPFS gateway. Keys never leave your
wallet: transactions are signed through a local wallet agent.

Run 'ebookstore browse' to explore the store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/ebookstore/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "Stacks network: mainnet, testnet, or devnet (overrides config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		if flagConfig != "" {
			os.Setenv("EBOOKSTORE_CONFIG", flagConfig)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagNetwork != "" {
			cfg.Network = flagNetwork
		}
		network = cfg.ResolvedNetwork()

		if cfg.Contract.Address == "" {
			return fmt.Errorf("no contract address configured — set contract.address in %s or EBOOKSTORE_CONTRACT_ADDRESS", config.DefaultPath())
		}
		contractID, err := chain.ParseContractID(cfg.ContractID())
		if err != nil {
			return fmt.Errorf("invalid contract %q: %w", cfg.ContractID(), err)
		}

		sessionStore, err = session.Load(config.SessionPath())
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}

		chainClient = chain.New(network.CoreAPIBase)
		walletClient = wallet.New(cfg.Wallet.AgentURL)
		store = market.New(chainClient, walletClient, contractID, network.Name)
		gatewayCli = gateway.New(cfg.Gateway.URL)
		cacheMgr = cache.New(cfg.Defaults.CacheDir)
		contentIdx, err = market.LoadContentIndex(config.ContentIndexPath())
		if err != nil {
			return fmt.Errorf("loading content index: %w", err)
		}
		return nil
	}

	rootCmd.AddCommand(
		newBrowseCmd(),
		newInfoCmd(),
		newPublishCmd(),
		newBuyCmd(),
		newShelfCmd(),
		newPriceCmd(),
		newDeactivateCmd(),
		newGetCmd(),
		newStatusCmd(),
		newConnectCmd(),
		newDisconnectCmd(),
		newWhoamiCmd(),
		newCacheCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
