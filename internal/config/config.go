// Package config manages YAML-based configuration and CLI flags for the BiasLens server.
package config

import (
	"flag"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDatasetBaseURL points at the contents API of the public
// Bollywood-Data corpus.
const DefaultDatasetBaseURL = "https://api.github.com/repos/BollywoodData/Bollywood-Data/contents"

// Config holds all configuration options for BiasLens
type Config struct {
	Port  int    `yaml:"port"`
	Theme string `yaml:"theme"`
	Watch bool   `yaml:"watch"`
	Open  bool   `yaml:"open"`

	// Dataset acquisition settings. GitHubToken is optional; it only raises
	// the anonymous rate limit of the contents API.
	DatasetBaseURL string `yaml:"dataset_base_url"`
	GitHubToken    string `yaml:"github_token,omitempty"`

	// External bias analyzer. Left empty, the analyze/rewrite endpoints
	// report the analyzer as unconfigured.
	AnalyzerURL   string `yaml:"analyzer_url,omitempty"`
	AnalyzerKey   string `yaml:"analyzer_key,omitempty"`
	AnalyzerModel string `yaml:"analyzer_model,omitempty"`

	// Internal: path to config file for saving
	configPath string
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		Theme:          "light",
		Watch:          true,
		Open:           false,
		DatasetBaseURL: DefaultDatasetBaseURL,
		AnalyzerModel:  "gpt-4o-mini",
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/biaslens"
	}
	return filepath.Join(home, ".config", "biaslens")
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load loads configuration from file, environment, and command line flags
func Load() (*Config, error) {
	cfg := DefaultConfig()

	port := flag.Int("port", 0, "HTTP server port")
	theme := flag.String("theme", "", "Default theme (light/dark)")
	watch := flag.Bool("watch", true, "Reload settings when the config file changes")
	open := flag.Bool("open", false, "Open browser on startup")
	datasetURL := flag.String("dataset-url", "", "Contents API base URL for the dataset")
	token := flag.String("token", "", "GitHub token for the contents API (optional)")
	analyzerURL := flag.String("analyzer-url", "", "Bias analyzer endpoint URL")
	configFile := flag.String("config", "", "Configuration file path")

	flag.Parse()

	// Determine config file path
	var cfgPath string
	if *configFile != "" {
		cfgPath = *configFile
	} else {
		// Try ~/.config/biaslens/config.yaml first
		globalConfig := GetConfigPath()
		if _, err := os.Stat(globalConfig); err == nil {
			cfgPath = globalConfig
		} else {
			// Fall back to local biaslens.yaml
			if _, err := os.Stat("biaslens.yaml"); err == nil {
				cfgPath = "biaslens.yaml"
			}
		}
	}

	// Load from config file if found
	if cfgPath != "" {
		if err := cfg.loadFromFile(cfgPath); err != nil && *configFile != "" {
			// Only return error if user explicitly specified config file
			return nil, err
		}
		cfg.configPath = cfgPath
	} else {
		// Set default config path for saving
		cfg.configPath = GetConfigPath()
	}

	// Environment fills in the token when the file does not carry one
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	// Command line flags override config file (only if explicitly set)
	if *port != 0 {
		cfg.Port = *port
	}
	if *theme != "" {
		cfg.Theme = *theme
	}
	if *datasetURL != "" {
		cfg.DatasetBaseURL = *datasetURL
	}
	if *token != "" {
		cfg.GitHubToken = *token
	}
	if *analyzerURL != "" {
		cfg.AnalyzerURL = *analyzerURL
	}
	// Bool flags - use command line value (they have explicit defaults)
	cfg.Watch = *watch
	cfg.Open = *open

	if cfg.DatasetBaseURL == "" {
		cfg.DatasetBaseURL = DefaultDatasetBaseURL
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Reload re-reads the config file in place so long-running servers pick up
// edited credentials without a restart.
func (c *Config) Reload() error {
	if c.configPath == "" {
		return nil
	}
	return c.loadFromFile(c.configPath)
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// SetToken updates the GitHub token, keeping the next Save in sync.
func (c *Config) SetToken(token string) {
	c.GitHubToken = token
}

// SetAnalyzer updates the analyzer endpoint settings.
func (c *Config) SetAnalyzer(url, key, model string) {
	c.AnalyzerURL = url
	c.AnalyzerKey = key
	if model != "" {
		c.AnalyzerModel = model
	}
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}
