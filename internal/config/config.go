package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigDir      = ".cardview"
	ConfigFile     = "config"
	ConfigFileType = "yaml"
)

// Settings holds everything the card-set state machine needs to start up and
// everything it persists across runs.
type Settings struct {
	VaultDir             string   `yaml:"vaultdir"                json:"vault_dir"`
	DefaultSourceType    string   `yaml:"default_source_type"     json:"default_source_type"`
	DefaultFolderCardSet string   `yaml:"default_folder_card_set" json:"default_folder_card_set"`
	DefaultTagCardSet    string   `yaml:"default_tag_card_set"    json:"default_tag_card_set"`
	IncludeSubfolders    bool     `yaml:"include_subfolders"      json:"include_subfolders"`
	TagCaseSensitive     bool     `yaml:"tag_case_sensitive"      json:"tag_case_sensitive"`
	SearchCaseSensitive  bool     `yaml:"search_case_sensitive"   json:"search_case_sensitive"`
	IsCardSetFixed       bool     `yaml:"is_card_set_fixed"       json:"is_card_set_fixed"`
	ExcludedFolders      []string `yaml:"excluded_folders"        json:"excluded_folders"`
}

// Config couples the settings with their on-disk location.
type Config struct {
	Current Settings `yaml:",inline"`

	path string `yaml:"-"`
}

func newSettings() Settings {
	return Settings{
		DefaultSourceType: "folder",
		IncludeSubfolders: true,
	}
}

// GetConfigPath returns the config file location under the home directory.
func GetConfigPath(home string) string {
	return filepath.Join(
		home,
		ConfigDir,
		fmt.Sprintf("%s.%s", ConfigFile, ConfigFileType),
	)
}

// EnsureConfigExists creates an empty config file when none is present so
// first runs behave like every later run.
func EnsureConfigExists(home string) error {
	path := GetConfigPath(home)

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte{}, 0o644)
}

// Load reads the config file under home, applying defaults for anything the
// file does not set, and syncs the result into viper.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Current: newSettings(), path: path}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.ensureDefaults()
	cfg.syncViper()
	return cfg, nil
}

// LoadFromFile reads a config from an explicit path, mainly for tests and
// the --config flag.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Current: newSettings(), path: path}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}

	cfg.ensureDefaults()
	cfg.syncViper()
	return cfg, nil
}

func (cfg *Config) ensureDefaults() {
	if cfg.Current.DefaultSourceType == "" {
		cfg.Current.DefaultSourceType = "folder"
	}
	if cfg.Current.ExcludedFolders == nil {
		cfg.Current.ExcludedFolders = []string{}
	}
}

// Settings exposes the mutable settings block.
func (cfg *Config) Settings() *Settings {
	return &cfg.Current
}

// GetConfigPath returns the file the config was loaded from.
func (cfg *Config) GetConfigPath() string {
	return cfg.path
}

// Save writes the settings back to disk and refreshes the viper mirror.
func (cfg *Config) Save() error {
	cfg.syncViper()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cfg.path, data, 0o644)
}

func (cfg *Config) syncViper() {
	viper.Set("vaultdir", cfg.Current.VaultDir)
	viper.Set("default_source_type", cfg.Current.DefaultSourceType)
	viper.Set("default_folder_card_set", cfg.Current.DefaultFolderCardSet)
	viper.Set("default_tag_card_set", cfg.Current.DefaultTagCardSet)
	viper.Set("include_subfolders", cfg.Current.IncludeSubfolders)
	viper.Set("tag_case_sensitive", cfg.Current.TagCaseSensitive)
	viper.Set("search_case_sensitive", cfg.Current.SearchCaseSensitive)
	viper.Set("is_card_set_fixed", cfg.Current.IsCardSetFixed)
	if cfg.Current.ExcludedFolders == nil {
		viper.Set("excluded_folders", []string{})
	} else {
		viper.Set("excluded_folders", append([]string(nil), cfg.Current.ExcludedFolders...))
	}
}
