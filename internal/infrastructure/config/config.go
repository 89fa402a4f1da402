package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Practice   PracticeConfig   `mapstructure:"practice"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DictionaryConfig locates the word catalog the engine loads at startup.
type DictionaryConfig struct {
	Path string `mapstructure:"path"`
	// GlossLang is the translation language used for hints and glosses.
	GlossLang string `mapstructure:"gloss_lang"`
}

// DatabaseConfig holds progress-store configuration. Driver is "sqlite3"
// or "postgres"; DSN is passed to the driver as-is.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// PracticeConfig holds session defaults.
type PracticeConfig struct {
	SessionSize int `mapstructure:"session_size"`
	UserLevel   int `mapstructure:"user_level"`
	Seed        int `mapstructure:"seed"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("dictionary.path", "data/dictionary.json")
	viper.SetDefault("dictionary.gloss_lang", "es")

	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.dsn", "lexdrill.db")

	viper.SetDefault("practice.session_size", 5)
	viper.SetDefault("practice.user_level", 10)
	viper.SetDefault("practice.seed", 0)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
