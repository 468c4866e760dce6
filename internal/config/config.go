// Package config provides the structures and loading function for the
// application configuration.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	SeedDemoData    bool   `yaml:"seed_demo_data" env:"SEED_DEMO_DATA"`
	Storage         `yaml:"storage"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
}

// Storage selects and configures the active persistence backend.
// Backend accepts "json" or "sqlite"; anything else falls back to the
// flat-file backend.
type Storage struct {
	Backend    string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"json"`
	DataDir    string `yaml:"data_dir" env:"DATA_DIR" env-default:"data"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/subtrack.db"`
}

// HTTPServer configures the HTTP listener.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection configures the optional overview cache. When Enabled
// is false the service runs with a no-op cache.
type RedisConnection struct {
	Enabled      bool          `yaml:"enabled" env:"REDIS_ENABLED"`
	AddressRedis string        `yaml:"addressredis" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// MustLoad loads the config from the file named by CONFIG_PATH and
// exits the process on any error.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
