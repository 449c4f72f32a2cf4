package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file, with CHIRP_* environment
// variables overriding file values
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".chirp"))
		}

		// Check /etc
		v.AddConfigPath("/etc/chirp/")
	}

	// Allow e.g. CHIRP_TWITTER_CONSUMER_KEY to override the file
	v.SetEnvPrefix("chirp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Twitter defaults
	v.SetDefault("twitter.api_version", "1.1")
	v.SetDefault("twitter.endpoint_format", "https://{endpoint}.twitter.com")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Twitter.ConsumerKey == "" {
		return fmt.Errorf("twitter.consumer_key is required")
	}

	if cfg.Twitter.ConsumerSecret == "" || cfg.Twitter.ConsumerSecret == "your-consumer-secret-here" {
		return fmt.Errorf("twitter.consumer_secret must be set to a valid secret")
	}

	// An OAuth1 credential pair must be complete or absent
	if (cfg.Twitter.AccessToken == "") != (cfg.Twitter.AccessTokenSecret == "") {
		return fmt.Errorf("twitter.access_token and twitter.access_token_secret must be set together")
	}

	if cfg.Twitter.EndpointFormat != "" && !strings.Contains(cfg.Twitter.EndpointFormat, "{endpoint}") {
		return fmt.Errorf("twitter.endpoint_format must contain an {endpoint} placeholder")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
