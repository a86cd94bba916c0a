// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Currency string `env:"CURRENCY" envDefault:"USD"`

	DB DBConfig

	NotifyBuffer    int           `env:"NOTIFY_BUFFER" envDefault:"256"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DBConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"mysql"`
	User       string `env:"MYSQL_USER" envDefault:"user"`
	Password   string `env:"MYSQL_PWD" envDefault:"password"`
	Host       string `env:"MYSQL_HOST" envDefault:"tcp(127.0.0.1:3306)"`
	Name       string `env:"MYSQL_DATABASE" envDefault:"enabler_db"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"enabler.db"`
}

// DSN returns the data source name for the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.SQLitePath
	}
	return fmt.Sprintf("%s:%s@%s/%s?parseTime=true&loc=Local&clientFoundRows=true", c.User, c.Password, c.Host, c.Name)
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}
	if c.NotifyBuffer < 1 {
		return fmt.Errorf("NOTIFY_BUFFER must be positive, got %d", c.NotifyBuffer)
	}
	return nil
}

func (c *Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("invalid CURRENCY %q: %w", c.Currency, err)
	}
	return unit, nil
}
