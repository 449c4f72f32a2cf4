package config

// Config represents the complete configuration structure
type Config struct {
	Twitter TwitterConfig `mapstructure:"twitter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TwitterConfig holds Twitter API credentials and client settings
type TwitterConfig struct {
	ConsumerKey       string `mapstructure:"consumer_key"`
	ConsumerSecret    string `mapstructure:"consumer_secret"`
	AccessToken       string `mapstructure:"access_token"`
	AccessTokenSecret string `mapstructure:"access_token_secret"`
	BearerToken       string `mapstructure:"bearer_token"`
	APIVersion        string `mapstructure:"api_version"`
	EndpointFormat    string `mapstructure:"endpoint_format"`
	UserAgent         string `mapstructure:"user_agent"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
