package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config maps the entire application configuration.
type Config struct {
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port
		BaseURL string `mapstructure:"base_url"` // base URL used when rendering short links
	} `mapstructure:"server"`

	Database struct {
		Name string `mapstructure:"name"` // SQLite database file backing the local registry
	} `mapstructure:"database"`

	// Registry selects where link records live. With an empty base_url the
	// server uses its own SQLite-backed store; otherwise every component
	// talks to the remote CRUD resource at that address.
	Registry struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"registry"`

	// Sync controls the polling list synchronizer.
	Sync struct {
		IntervalSeconds int `mapstructure:"interval_seconds"`
	} `mapstructure:"sync"`

	// Analytics configures the asynchronous click pipeline.
	Analytics struct {
		BufferSize  int `mapstructure:"buffer_size"`  // click event channel buffer
		WorkerCount int `mapstructure:"worker_count"` // goroutines draining the channel
	} `mapstructure:"analytics"`
}

// LoadConfig loads configuration with Viper: YAML file under ./configs,
// environment overrides ("server.port" -> SERVER_PORT), and defaults for
// everything. A .env file is honored when present.
func LoadConfig() (*Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("database.name", "quicklink.db")
	viper.SetDefault("registry.base_url", "")
	viper.SetDefault("registry.timeout_seconds", 10)
	viper.SetDefault("sync.interval_seconds", 3)
	viper.SetDefault("analytics.buffer_size", 1000)
	viper.SetDefault("analytics.worker_count", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	log.Printf("Configuration loaded: Port=%d, DB=%s, Sync Interval=%ds, Click Buffer=%d",
		cfg.Server.Port, cfg.Database.Name, cfg.Sync.IntervalSeconds, cfg.Analytics.BufferSize)

	return &cfg, nil
}
