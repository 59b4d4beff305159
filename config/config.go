package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	OFF    OFFConfig
	Carbon CarbonConfig
	Gemini GeminiConfig
	App    AppConfig
	Store  StoreConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OFFConfig holds Open Food Facts API configuration
type OFFConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	ContributeURL string `mapstructure:"contribute_url"`
	UserAgent     string `mapstructure:"user_agent"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
}

// CarbonConfig holds the emissions-estimation API configuration.
// An empty APIKey disables live mode; estimates then always use the
// local fallback formula.
type CarbonConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GeminiConfig holds the generative-AI alternatives configuration.
// An empty APIKey disables AI suggestions; alternatives then come from
// the OFF category search only.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AppConfig holds application-level behavior settings
type AppConfig struct {
	DestinationCountry string `mapstructure:"destination_country"`
	AlternativesLimit  int    `mapstructure:"alternatives_limit"`
}

// StoreConfig holds favourites store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/sustainscan/")

	// Environment variable settings
	v.SetEnvPrefix("SUSTAINSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// OFF defaults
	v.SetDefault("off.base_url", "https://world.openfoodfacts.net/api/v2")
	v.SetDefault("off.contribute_url", "https://world.openfoodfacts.org/cgi/product_jqm2.pl")
	v.SetDefault("off.user_agent", "SustainScan/1.0.0")

	// Carbon defaults
	v.SetDefault("carbon.base_url", "https://www.carboninterface.com/api/v1")

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	// App defaults
	v.SetDefault("app.destination_country", "India")
	v.SetDefault("app.alternatives_limit", 5)

	// Store defaults
	v.SetDefault("store.path", "sustainscan.db")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.App.DestinationCountry == "" {
		return fmt.Errorf("destination country must not be empty")
	}

	if config.App.AlternativesLimit <= 0 {
		return fmt.Errorf("alternatives limit must be positive, got: %d", config.App.AlternativesLimit)
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store path is required (set SUSTAINSCAN_STORE_PATH or use :memory:)")
	}

	return nil
}
