// Package session holds the persisted wallet sign-in state. The wallet agent
// owns the actual credentials; this is only the client-side record of who is
// signed in and which addresses the agent reported.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AdekunleBamz/ebook-store/internal/config"
)

// Profile is the user data the wallet agent hands back on connect.
type Profile struct {
	DisplayName    string `yaml:"display_name,omitempty" json:"displayName,omitempty"`
	MainnetAddress string `yaml:"mainnet_address" json:"mainnetAddress"`
	TestnetAddress string `yaml:"testnet_address" json:"testnetAddress"`
	SessionToken   string `yaml:"session_token,omitempty" json:"sessionToken,omitempty"`
}

// Store is the session holder. It is constructed once and passed to pages
// explicitly; nothing in this package is process-global.
type Store struct {
	path    string
	profile *Profile
}

// Load reads the session state file. A missing file yields a signed-out
// store, not an error.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	if p.MainnetAddress != "" || p.TestnetAddress != "" {
		s.profile = &p
	}
	return s, nil
}

// SignIn stores the profile and persists it.
func (s *Store) SignIn(p Profile) error {
	s.profile = &p
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&p)
	if err != nil {
		return err
	}
	// Session token lives here; keep it out of group/world reach.
	return os.WriteFile(s.path, data, 0600)
}

// SignOut clears the stored state synchronously.
func (s *Store) SignOut() error {
	s.profile = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsSignedIn reports whether a profile is stored.
func (s *Store) IsSignedIn() bool {
	return s != nil && s.profile != nil
}

// Profile returns the stored profile, or nil when signed out.
func (s *Store) Profile() *Profile {
	if s == nil {
		return nil
	}
	return s.profile
}

// Address selects the account identifier for the given network. ok is false
// when signed out or when the profile has no address for that network.
func (s *Store) Address(n config.Network) (string, bool) {
	if !s.IsSignedIn() {
		return "", false
	}
	addr := s.profile.TestnetAddress
	if n.IsMainnet() {
		addr = s.profile.MainnetAddress
	}
	return addr, addr != ""
}
