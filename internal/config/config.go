package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Catalog API
	API APIConfig `json:"api"`

	// Playback
	Player PlayerConfig `json:"player"`

	// Downloads
	Download DownloadConfig `json:"download"`

	// Offline audio cache
	Cache CacheConfig `json:"cache"`

	// UI preferences
	UI UIConfig `json:"ui"`
}

// APIConfig holds catalog API settings
type APIConfig struct {
	BaseURL           string  `json:"base_url"`
	Language          string  `json:"language"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// PlayerConfig holds external audio player settings
type PlayerConfig struct {
	Binary   string `json:"binary"`   // e.g. "mpv"
	Autoplay bool   `json:"autoplay"` // attempt playback as soon as a surah resolves
}

// DownloadConfig holds download settings
type DownloadConfig struct {
	Directory string `json:"directory"` // empty means ~/Downloads
}

// CacheConfig holds offline audio cache settings
type CacheConfig struct {
	Enabled bool   `json:"enabled"`
	Version string `json:"version"` // bumping clears older cache generations
}

// UIConfig holds UI preferences
type UIConfig struct {
	Language         string `json:"language"` // "ar" or "en" for user-facing messages
	SearchDebounceMs int    `json:"search_debounce_ms"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://www.mp3quran.net/api/v3",
			Language:          "ar",
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
		},
		Player: PlayerConfig{
			Binary:   "mpv",
			Autoplay: true,
		},
		Download: DownloadConfig{},
		Cache: CacheConfig{
			Enabled: true,
			Version: "v1",
		},
		UI: UIConfig{
			Language:         "ar",
			SearchDebounceMs: 300,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".quran", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}

	cfg.applyFallbacks()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DownloadDir resolves the configured download directory,
// defaulting to ~/Downloads.
func (c *Config) DownloadDir() string {
	if c.Download.Directory != "" {
		return c.Download.Directory
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Downloads")
}

// applyFallbacks fills zero values left by hand-edited config files.
func (c *Config) applyFallbacks() {
	def := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.Language == "" {
		c.API.Language = def.API.Language
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = def.API.TimeoutSeconds
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = def.API.RequestsPerSecond
	}
	if c.Player.Binary == "" {
		c.Player.Binary = def.Player.Binary
	}
	if c.Cache.Version == "" {
		c.Cache.Version = def.Cache.Version
	}
	if c.UI.Language == "" {
		c.UI.Language = def.UI.Language
	}
	if c.UI.SearchDebounceMs <= 0 {
		c.UI.SearchDebounceMs = def.UI.SearchDebounceMs
	}
}
