package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Library     LibraryConfig     `toml:"library"`
	Cache       CacheConfig       `toml:"cache"`
	Database    DatabaseConfig    `toml:"database"`
	Sorter      SorterConfig      `toml:"sorter"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// LibraryConfig identifies the fixed playlists the toolkit files tracks into.
//
// AllPlaylistID/Name is the distinguished playlist every properly filed track
// belongs to. RemovedPlaylistID/Name marks tracks queued for purging. The
// names are checked against what the remote returns for the ids on every load.
type LibraryConfig struct {
	Prefix              string `toml:"prefix"`
	AllPlaylistID       string `toml:"all_playlist_id"`
	AllPlaylistName     string `toml:"all_playlist_name"`
	RemovedPlaylistID   string `toml:"removed_playlist_id"`
	RemovedPlaylistName string `toml:"removed_playlist_name"`
}

// CacheConfig contains settings for the on-disk playlist membership cache.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig contains settings for the sqlite lookup cache.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SorterConfig contains tuning knobs for the interactive sorter.
type SorterConfig struct {
	PlaybackStartMs   int  `toml:"playback_start_ms"`
	RetryAttempts     int  `toml:"retry_attempts"`
	RetryDelaySeconds int  `toml:"retry_delay_seconds"`
	ClipTempo         bool `toml:"clip_tempo"`
}

// RetryDelay returns the configured delay between retried remote calls.
func (s SorterConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the
// embedded example config. Refuses to clobber an existing file.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
