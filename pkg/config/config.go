package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config holds the full plateful configuration.
type Config struct {
	Database string       `toml:"database"`
	Server   ServerConfig `toml:"server"`
	Search   SearchConfig `toml:"search"`
	Tags     TagsConfig   `toml:"tags"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SearchConfig configures search behaviour shared by the web UI and the
// terminal browse client.
type SearchConfig struct {
	// Debounce is how long the browse engine waits after the last keystroke
	// before issuing a search request.
	Debounce Duration `toml:"debounce"`
	// Limit is the maximum number of recipes returned per search.
	Limit int `toml:"limit"`
}

// TagsConfig declares the tag catalog. Quick tags get always-visible filter
// buttons on the listing page; extra tags live in the multi-select dropdown.
type TagsConfig struct {
	Quick []TagInfo `toml:"quick"`
	Extra []TagInfo `toml:"extra"`
}

// TagInfo is a single catalog tag. Label is optional; a display label is
// derived from the value when empty.
type TagInfo struct {
	Value string `toml:"value"`
	Label string `toml:"label,omitempty"`
}

// Duration wraps time.Duration for TOML round-tripping.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func defaultTags() TagsConfig {
	return TagsConfig{
		Quick: []TagInfo{
			{Value: "breakfast", Label: "Breakfast"},
			{Value: "lunch", Label: "Lunch"},
			{Value: "dinner", Label: "Dinner"},
			{Value: "dessert", Label: "Dessert"},
			{Value: "vegan", Label: "Vegan"},
		},
		Extra: []TagInfo{
			{Value: "snack", Label: "Snack"},
			{Value: "healthy", Label: "Healthy"},
			{Value: "gluten-free", Label: "Gluten-free"},
			{Value: "vegetarian", Label: "Vegetarian"},
			{Value: "spicy", Label: "Spicy"},
		},
	}
}

func GetDefaultConfig() (*Config, error) {
	dbPath, err := GetDefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("getting default database path: %w", err)
	}
	return &Config{
		Database: dbPath,
		Server:   ServerConfig{Host: "localhost", Port: 8080},
		Search:   SearchConfig{Debounce: Duration{250 * time.Millisecond}, Limit: 30},
		Tags:     defaultTags(),
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Database == "" {
		dbPath, err := GetDefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("getting default database path: %w", err)
		}
		config.Database = dbPath
	}

	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Search.Debounce.Duration == 0 {
		config.Search.Debounce = Duration{250 * time.Millisecond}
	}
	if config.Search.Limit == 0 {
		config.Search.Limit = 30
	}
	if len(config.Tags.Quick) == 0 && len(config.Tags.Extra) == 0 {
		config.Tags = defaultTags()
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample configuration, pointing the
// database at the user's data directory.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	dbPath := c.Database
	if dbPath == "" {
		var err error
		dbPath, err = GetDefaultDBPath()
		if err != nil {
			return fmt.Errorf("getting default database path: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/plateful/plateful.db", dbPath, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultDataDir returns the default directory for the recipe database.
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	platefulDir := filepath.Join(dataDir, "plateful")

	if err := os.MkdirAll(platefulDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", platefulDir, err)
	}

	return platefulDir, nil
}

// GetDefaultDBPath returns the default database path in the user's data directory.
func GetDefaultDBPath() (string, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "plateful.db"), nil
}

// GetConfigDir returns the configuration directory for plateful.
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	platefulConfigDir := filepath.Join(configDir, "plateful")

	if err := os.MkdirAll(platefulConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", platefulConfigDir, err)
	}

	return platefulConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
