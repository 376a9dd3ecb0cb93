// Package config содержит логику чтения конфигурации сервиса записи на услуги.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress    = "localhost:8080"
	defaultSQLitePath    = "trava.db"
	defaultMongoDatabase = "trava"
)

// Config содержит параметры конфигурации сервиса записи на услуги.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	StorageDriver string `env:"STORAGE_DRIVER"`
	DatabaseURI   string `env:"DATABASE_URI"`
	SQLitePath    string `env:"SQLITE_PATH"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE"`
	AuthSecret    string `env:"AUTH_SECRET"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Непустые переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.StorageDriver, "s", "", "storage driver: memory, sqlite, postgres or mongo")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "postgres database URI")
	flag.StringVar(&cfg.SQLitePath, "f", defaultSQLitePath, "sqlite database file")
	flag.StringVar(&cfg.MongoURI, "m", "", "mongodb URI")
	flag.StringVar(&cfg.AuthSecret, "k", "", "secret key for auth tokens")
	flag.StringVar(&cfg.PublicBaseURL, "b", "", "public base URL for booking and payment links")

	flag.Parse()

	override(&cfg.RunAddress, fromEnv.RunAddress)
	override(&cfg.StorageDriver, fromEnv.StorageDriver)
	override(&cfg.DatabaseURI, fromEnv.DatabaseURI)
	override(&cfg.SQLitePath, fromEnv.SQLitePath)
	override(&cfg.MongoURI, fromEnv.MongoURI)
	override(&cfg.MongoDatabase, fromEnv.MongoDatabase)
	override(&cfg.AuthSecret, fromEnv.AuthSecret)
	override(&cfg.PublicBaseURL, fromEnv.PublicBaseURL)

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = defaultMongoDatabase
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://" + cfg.RunAddress
	}

	// без явного драйвера адрес базы выбирает хранилище
	if cfg.StorageDriver == "" {
		switch {
		case cfg.DatabaseURI != "":
			cfg.StorageDriver = "postgres"
		case cfg.MongoURI != "":
			cfg.StorageDriver = "mongo"
		default:
			cfg.StorageDriver = "sqlite"
		}
	}

	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
