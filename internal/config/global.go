package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// GlobalConfig represents erptable settings stored in the user's config directory
type GlobalConfig struct {
	Display DisplayConfig         `toml:"display"`
	SQL     SQLConfig             `toml:"sql"`
	Views   map[string]ViewConfig `toml:"views"`
}

// DisplayConfig controls how tables are drawn
type DisplayConfig struct {
	PageSize       int    `toml:"page_size" config:"display.page_size" default:"10" min:"1" max:"1000" desc:"Rows per page"`
	Searchable     bool   `toml:"searchable" config:"display.searchable" default:"true" desc:"Show the search box and result caption"`
	Locale         string `toml:"locale" config:"display.locale" default:"en" desc:"Message language (en, pt-BR)"`
	MaxColWidth    int    `toml:"max_col_width" config:"display.max_col_width" default:"30" min:"3" max:"500" desc:"Widest automatic column in the interactive view"`
	CurrencySymbol string `toml:"currency_symbol" config:"display.currency_symbol" default:"R$" desc:"Prefix for currency cells"`
}

// SQLConfig contains settings for `erptable sql`
type SQLConfig struct {
	Timeout int `toml:"timeout" config:"sql.timeout" default:"60" min:"1" max:"3600" desc:"Query timeout in seconds"`
	MaxRows int `toml:"max_rows" config:"sql.max_rows" default:"10000" min:"1" max:"1000000" desc:"Rows fetched before the result is cut off"`
}

// DefaultGlobalConfig returns a new global config with default values
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Display: DisplayConfig{
			PageSize:       10,
			Searchable:     true,
			Locale:         "en",
			MaxColWidth:    30,
			CurrencySymbol: "R$",
		},
		SQL: SQLConfig{
			Timeout: 60,
			MaxRows: 10000,
		},
		Views: make(map[string]ViewConfig),
	}
}

// GlobalConfigPath returns the path to the global config file
// Follows the XDG Base Directory layout on Linux, platform conventions elsewhere
func GlobalConfigPath() string {
	if p := os.Getenv("ERPTABLE_CONFIG"); p != "" {
		return p
	}

	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, "Library", "Application Support", "erptable")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "erptable")
	default: // Linux and others - follow XDG
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "erptable")
		} else {
			home, _ := os.UserHomeDir()
			configDir = filepath.Join(home, ".config", "erptable")
		}
	}

	return filepath.Join(configDir, "config.toml")
}

// LoadGlobal reads the global config file, using defaults if it doesn't exist
func LoadGlobal() (*GlobalConfig, error) {
	return LoadFrom(GlobalConfigPath())
}

// LoadFrom reads a config file at path. A missing file yields the defaults.
func LoadFrom(configPath string) (*GlobalConfig, error) {
	// Start with defaults; keys absent from the file keep them
	cfg := DefaultGlobalConfig()

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	// Explicit zero values are not meaningful for these keys
	defaults := DefaultGlobalConfig()

	if cfg.Display.PageSize <= 0 {
		cfg.Display.PageSize = defaults.Display.PageSize
	}
	if cfg.Display.Locale == "" {
		cfg.Display.Locale = defaults.Display.Locale
	}
	if cfg.Display.MaxColWidth == 0 {
		cfg.Display.MaxColWidth = defaults.Display.MaxColWidth
	}
	if cfg.Display.CurrencySymbol == "" {
		cfg.Display.CurrencySymbol = defaults.Display.CurrencySymbol
	}
	if cfg.SQL.Timeout == 0 {
		cfg.SQL.Timeout = defaults.SQL.Timeout
	}
	if cfg.SQL.MaxRows == 0 {
		cfg.SQL.MaxRows = defaults.SQL.MaxRows
	}
	if cfg.Views == nil {
		cfg.Views = make(map[string]ViewConfig)
	}

	return cfg, nil
}

// Save writes the global config file
func (c *GlobalConfig) Save() error {
	return c.SaveTo(GlobalConfigPath())
}

// SaveTo writes the config to configPath, creating its directory
func (c *GlobalConfig) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// GetValue returns a global config value by key (uses reflection)
func (c *GlobalConfig) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a global config value by key (uses reflection with validation)
func (c *GlobalConfig) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
