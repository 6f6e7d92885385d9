package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env" env:"APP_ENV"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Bank     BankConfig     `yaml:"bank"`
	Game     GameConfig     `yaml:"game"`
	Language LanguageConfig `yaml:"language"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"SERVER_PORT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      string `yaml:"ttl" env:"REDIS_TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

type BankConfig struct {
	TTL string `yaml:"ttl" env:"BANK_TTL"`
}

type GameConfig struct {
	RevealDelay  string `yaml:"reveal_delay" env:"GAME_REVEAL_DELAY"`
	ResolveDelay string `yaml:"resolve_delay" env:"GAME_RESOLVE_DELAY"`
}

type LanguageConfig struct {
	Default string `yaml:"default" env:"LANGUAGE_DEFAULT"`
	// Store is one of memory, file or redis.
	Store string `yaml:"store" env:"LANGUAGE_STORE"`
	File  string `yaml:"file" env:"LANGUAGE_FILE"`
}

// Load reads YAML config from path, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
