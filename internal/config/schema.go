package config

// Config is the top-level ebookstore configuration.
type Config struct {
	Network  string         `mapstructure:"network"`
	Contract ContractConfig `mapstructure:"contract"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// ContractConfig identifies the marketplace contract.
type ContractConfig struct {
	Address string `mapstructure:"address"`
	Name    string `mapstructure:"name"`
}

// WalletConfig holds the local wallet agent connection settings.
// The agent owns keys and signing; this client never sees either.
type WalletConfig struct {
	AgentURL string `mapstructure:"agent_url"`
}

// GatewayConfig holds the content gateway used to deliver purchased files.
type GatewayConfig struct {
	URL string `mapstructure:"url"`
}

// DefaultsConfig holds default values for operations.
type DefaultsConfig struct {
	CacheDir string `mapstructure:"cache_dir"`
	// CoreAPIBase overrides the network's node endpoint when set.
	CoreAPIBase string `mapstructure:"core_api_base"`
}

// ContractID returns the fully qualified contract identifier.
func (c *Config) ContractID() string {
	return c.Contract.Address + "." + c.Contract.Name
}

// ResolvedNetwork returns the endpoint descriptor for the configured network,
// applying the core API override if present.
func (c *Config) ResolvedNetwork() Network {
	n := ResolveNetwork(c.Network)
	if c.Defaults.CoreAPIBase != "" {
		n.CoreAPIBase = c.Defaults.CoreAPIBase
	}
	return n
}
