package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
)

// Global configuration structure.
type Global struct {
	LogFormat    string `mapstructure:"log_format"`
	CSVDelimiter string `mapstructure:"csv_delimiter"`

	// Redis node store
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`

	// Table read from SQL sources when no query is given
	SQLTable string `mapstructure:"sql_table"`
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ID3")
	v.AutomaticEnv()

	v.SetDefault("log_format", "text")
	v.SetDefault("csv_delimiter", ",")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "id3")
	v.SetDefault("sql_table", "samples")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".id3"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			// optional read
			_ = v.ReadInConfig()
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values that cannot be used as they are.
func (c *Global) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	return nil
}

// Comma returns the CSV delimiter as a rune.
func (c *Global) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}
