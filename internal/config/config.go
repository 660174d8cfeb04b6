// Package config provides configuration management using viper.
// It supports loading from YAML files, environment variable overrides and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage drivers for player records.
const (
	StorageYAML     = "yaml"
	StoragePostgres = "postgres"
)

// ErrEmptyToken is returned when no bot token is configured.
var ErrEmptyToken = errors.New("bot token is empty")

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Log       LogConfig       `mapstructure:"log"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Game      GameConfig      `mapstructure:"game"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// StorageConfig selects where player records are kept.
type StorageConfig struct {
	Driver     string `mapstructure:"driver"`
	PlayerFile string `mapstructure:"player_file"`
}

// CatalogConfig holds the question catalog file paths.
type CatalogConfig struct {
	ComposerFile string `mapstructure:"composer_file"`
	PastaFile    string `mapstructure:"pasta_file"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// GameConfig holds game tuning.
type GameConfig struct {
	// ComposerSplit is the percentage of questions about composers.
	ComposerSplit int `mapstructure:"composer_split"`
	// IdleTimeout ends games with no activity for this long. Zero keeps them forever.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// Seed fixes the question order when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file, environment variables and flags.
// It looks for config.yaml in configPath, the working directory and ./config.
// flags may be nil; flags that were set on the command line override everything else.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, STORAGE_DRIVER, GAME_COMPOSER_SPLIT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"storage-driver": "storage.driver",
	"player-file":    "storage.player_file",
	"composer-file":  "catalog.composer_file",
	"pasta-file":     "catalog.pasta_file",
}

// bindFlags binds the known flags present in flags to their configuration keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.poll_timeout", "10s")
	v.SetDefault("log.level", "info")

	// Storage defaults match the file names used by earlier versions of the bot
	v.SetDefault("storage.driver", StorageYAML)
	v.SetDefault("storage.player_file", "player_data.yaml")
	v.SetDefault("catalog.composer_file", "composer_data.yaml")
	v.SetDefault("catalog.pasta_file", "pasta_data.yaml")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "composerpasta")
	v.SetDefault("database.name", "composerpasta")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Game defaults
	v.SetDefault("game.composer_split", 50)
	v.SetDefault("game.idle_timeout", "0s")
	v.SetDefault("game.seed", 0)
}

// Validate checks the settings needed to run the bot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return ErrEmptyToken
	}
	return c.ValidateGame()
}

// ValidateGame checks the settings that do not involve the chat connection.
func (c *Config) ValidateGame() error {
	if c.Storage.Driver != StorageYAML && c.Storage.Driver != StoragePostgres {
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, StorageYAML, StoragePostgres)
	}
	if c.Game.ComposerSplit < 0 || c.Game.ComposerSplit > 100 {
		return fmt.Errorf("game.composer_split must be between 0 and 100, got %d", c.Game.ComposerSplit)
	}
	if c.Game.IdleTimeout < 0 {
		return fmt.Errorf("game.idle_timeout must not be negative, got %s", c.Game.IdleTimeout)
	}
	return nil
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	return slices.Contains(c.Admin.IDs, userID)
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	return slices.Contains(c.Whitelist.Chats, chatID)
}
