package state

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"cardview/internal/config"
	"cardview/internal/vault"
)

// State wires the settings, vault, source manager, and watcher together for
// command-layer use.
type State struct {
	Config  *config.Config
	Vault   *vault.Vault
	Manager *Manager
	Watcher *VaultWatcher
	Home    string
}

// NewState loads the configuration and builds the manager. vaultOverride,
// when non-empty, takes precedence over the configured vault directory.
func NewState(vaultOverride string) (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	vaultDir := cfg.Current.VaultDir
	if vaultOverride != "" {
		vaultDir = vaultOverride
	}
	if vaultDir == "" {
		return nil, errors.New("no vault directory configured; set vaultdir or pass --vault")
	}

	v := vault.New(vaultDir, cfg.Current.ExcludedFolders)
	manager := NewManager(v, cfg)

	watcher, err := NewVaultWatcher(vaultDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault watcher: %w", err)
	}
	watcher.OnChange(func(string) {
		if _, err := manager.Refresh(); err != nil {
			// Refresh failures leave the previous card set in place.
			return
		}
	})

	return &State{
		Config:  cfg,
		Vault:   v,
		Manager: manager,
		Watcher: watcher,
		Home:    home,
	}, nil
}

// GetHomeDir resolves the user's home directory.
func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}

// LoadConfig points viper at the config location and loads settings.
func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + "/" + config.ConfigDir)
	viper.SetConfigName(config.ConfigFile)
	viper.SetConfigType(config.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.Load(home)
}

// Close releases the watcher.
func (s *State) Close() error {
	if s == nil || s.Watcher == nil {
		return nil
	}
	err := s.Watcher.Close()
	s.Watcher = nil
	return err
}
