package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the public file host the original page used
	DefaultEndpoint = "https://tmpfiles.org/api/v1/upload"
	// DefaultMaxBytes is the advisory client-side limit (100 MiB)
	DefaultMaxBytes int64 = 100 * 1024 * 1024
	// DefaultArchiveName names the zip sent when several files are selected
	DefaultArchiveName = "clipcast-files.zip"
)

// Config represents the application configuration structure.
// It defines the upload service, QR rendering, logging and theme settings.
type Config struct {
	Upload struct {
		Endpoint       string `yaml:"endpoint"`        // Multipart POST target
		Field          string `yaml:"field"`           // Form field carrying the file
		URLPath        string `yaml:"url_path"`        // Dotted path of the URL in the JSON response
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Request timeout (0 = none)
		MaxBytes       int64  `yaml:"max_bytes"`       // Client-side total size limit
		ArchiveName    string `yaml:"archive_name"`    // Filename used for multi-file uploads
		Notice         string `yaml:"notice"`          // Informational text shown next to the file card
	} `yaml:"upload"`
	QR struct {
		Size       int    `yaml:"size"`       // Bitmap size in pixels
		Foreground string `yaml:"foreground"` // Module colour, #rrggbb
		Background string `yaml:"background"` // Background colour, #rrggbb
	} `yaml:"qr"`
	Selection struct {
		Exclude []string `yaml:"exclude"` // Glob patterns never uploaded
	} `yaml:"selection"`
	Log struct {
		File  string `yaml:"file"`  // Log file for the interactive front ends
		JSON  bool   `yaml:"json"`  // Force JSON output
		Debug bool   `yaml:"debug"` // Enable debug output
	} `yaml:"log"`
	Theme struct {
		Name    string `yaml:"name"`    // Theme name (default, dark, light, etc.)
		Primary string `yaml:"primary"` // Primary color for titles and borders
		Success string `yaml:"success"` // Success message color
		Error   string `yaml:"error"`   // Error message color
		Info    string `yaml:"info"`    // Informational message color
		Border  string `yaml:"border"`  // Border color for cards
	} `yaml:"theme"`
}

// Timeout returns the upload timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Upload.TimeoutSeconds) * time.Second
}

// DefaultPath returns ~/.config/clipcast/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "clipcast", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/clipcast/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Upload.Endpoint != "" {
		cfg.Upload.Endpoint = tempCfg.Upload.Endpoint
	}
	if tempCfg.Upload.Field != "" {
		cfg.Upload.Field = tempCfg.Upload.Field
	}
	if tempCfg.Upload.URLPath != "" {
		cfg.Upload.URLPath = tempCfg.Upload.URLPath
	}
	if tempCfg.Upload.TimeoutSeconds != 0 {
		cfg.Upload.TimeoutSeconds = tempCfg.Upload.TimeoutSeconds
	}
	if tempCfg.Upload.MaxBytes != 0 {
		cfg.Upload.MaxBytes = tempCfg.Upload.MaxBytes
	}
	if tempCfg.Upload.ArchiveName != "" {
		cfg.Upload.ArchiveName = tempCfg.Upload.ArchiveName
	}
	if tempCfg.Upload.Notice != "" {
		cfg.Upload.Notice = tempCfg.Upload.Notice
	}

	if tempCfg.QR.Size != 0 {
		cfg.QR.Size = tempCfg.QR.Size
	}
	if tempCfg.QR.Foreground != "" {
		cfg.QR.Foreground = tempCfg.QR.Foreground
	}
	if tempCfg.QR.Background != "" {
		cfg.QR.Background = tempCfg.QR.Background
	}

	if len(tempCfg.Selection.Exclude) > 0 {
		cfg.Selection.Exclude = tempCfg.Selection.Exclude
	}

	if tempCfg.Log.File != "" {
		cfg.Log.File = tempCfg.Log.File
	}
	cfg.Log.JSON = tempCfg.Log.JSON
	cfg.Log.Debug = tempCfg.Log.Debug

	if tempCfg.Theme.Name != "" {
		cfg.ApplyTheme(tempCfg.Theme.Name)
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Upload.Endpoint = DefaultEndpoint
	cfg.Upload.Field = "file"
	cfg.Upload.URLPath = "data.url"
	cfg.Upload.TimeoutSeconds = 120
	cfg.Upload.MaxBytes = DefaultMaxBytes
	cfg.Upload.ArchiveName = DefaultArchiveName
	cfg.Upload.Notice = "Max 100MB • Auto-deletes after 1 hour."

	// White modules on black, as the original page rendered them
	cfg.QR.Size = 260
	cfg.QR.Foreground = "#ffffff"
	cfg.QR.Background = "#000000"

	cfg.Selection.Exclude = []string{}

	cfg.Log.File = filepath.Join(os.TempDir(), "clipcast.log")

	cfg.ApplyTheme("default")

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	u, err := url.Parse(c.Upload.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upload endpoint must be an absolute http(s) URL: %q", c.Upload.Endpoint)
	}
	if strings.TrimSpace(c.Upload.Field) == "" {
		return fmt.Errorf("upload form field is required")
	}
	if strings.TrimSpace(c.Upload.URLPath) == "" {
		return fmt.Errorf("upload url_path is required")
	}
	if c.Upload.TimeoutSeconds < 0 {
		return fmt.Errorf("upload timeout must be >= 0 seconds")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be > 0")
	}
	if c.Upload.ArchiveName == "" || strings.ContainsAny(c.Upload.ArchiveName, `/\`) {
		return fmt.Errorf("invalid archive name: %q", c.Upload.ArchiveName)
	}

	if c.QR.Size < 21 {
		return fmt.Errorf("qr size must be >= 21 pixels")
	}
	if !hexColor.MatchString(c.QR.Foreground) {
		return fmt.Errorf("invalid qr foreground color: %s", c.QR.Foreground)
	}
	if !hexColor.MatchString(c.QR.Background) {
		return fmt.Errorf("invalid qr background color: %s", c.QR.Background)
	}

	for i, pattern := range c.Selection.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude pattern %d: pattern is empty", i)
		}
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration pointing at a local test server.
func NewTestConfig(endpoint string) *Config {
	cfg := defaultConfig()
	cfg.Upload.Endpoint = endpoint
	cfg.Upload.TimeoutSeconds = 5
	cfg.Log.File = ""
	return cfg
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary": "213", // Purple
			"success": "114", // Green
			"error":   "196", // Red
			"info":    "245", // Grey
			"border":  "213", // Purple
		},
		"dark": {
			"primary": "105", // Dark Blue
			"success": "78",  // Dark Green
			"error":   "160", // Dark Red
			"info":    "33",  // Dark Blue
			"border":  "105", // Dark Blue
		},
		"light": {
			"primary": "135", // Light Purple
			"success": "150", // Light Green
			"error":   "210", // Light Red
			"info":    "117", // Light Blue
			"border":  "135", // Light Purple
		},
		"monochrome": {
			"primary": "255", // Bright White
			"success": "252", // White
			"error":   "250", // Light Grey
			"info":    "245", // Grey
			"border":  "240", // Dark Grey
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the theme in the configuration.
// It updates the theme colors based on the theme name.
func (c *Config) ApplyTheme(name string) {
	theme := GetTheme(name)

	c.Theme.Name = name
	c.Theme.Primary = theme["primary"]
	c.Theme.Success = theme["success"]
	c.Theme.Error = theme["error"]
	c.Theme.Info = theme["info"]
	c.Theme.Border = theme["border"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
