// Package config loads the YAML configuration of the populate command.
package config

import (
	"fmt"
	"os"

	e "github.com/gartstein/populate/internal/company/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the populate command looks for its configuration.
const DefaultPath = "config/populate.yaml"

// Config struct for YAML configuration
type Config struct {
	DBDriver     string   `yaml:"DB_DRIVER"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	DBPath       string   `yaml:"DB_PATH"`
	DBLogLevel   string   `yaml:"DB_LOG_LEVEL"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	Seed         Seed     `yaml:"SEED"`
}

// Seed overrides the generation constants. Zero values keep the defaults,
// except SeedValue where 0 means "random".
type Seed struct {
	MinCompanies   int    `yaml:"MIN_COMPANIES"`
	MaxCompanies   int    `yaml:"MAX_COMPANIES"`
	MinOffices     int    `yaml:"MIN_OFFICES"`
	MaxOffices     int    `yaml:"MAX_OFFICES"`
	TotalEmployees int    `yaml:"TOTAL_EMPLOYEES"`
	SeedValue      uint64 `yaml:"RANDOM_SEED"`
}

var defaultPorts = map[string]int{
	"postgres":  5432,
	"mysql":     3306,
	"sqlserver": 1433,
}

// Load reads the YAML file at path, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(file)
}

// Parse decodes raw YAML into a Config, applies defaults and validates it.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBDriver == "" {
		c.DBDriver = "postgres"
	}
	if c.DBPort == 0 {
		c.DBPort = defaultPorts[c.DBDriver]
	}
	if c.DBHost == "" && c.DBDriver != "sqlite" {
		c.DBHost = "localhost"
	}
	if c.DBSSLMode == "" && c.DBDriver == "postgres" {
		c.DBSSLMode = "disable"
	}
	if c.DBLogLevel == "" {
		c.DBLogLevel = "error"
	}
	if c.Topic == "" {
		c.Topic = "populate.events"
	}
}

// Validate checks the connection settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlserver":
		if c.DBName == "" {
			return fmt.Errorf("%w: DB_NAME is required for driver %s", e.ErrInvalidInput, c.DBDriver)
		}
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("%w: DB_PATH is required for driver sqlite", e.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", e.ErrInvalidInput, c.DBDriver)
	}
	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("%w: unsupported DB_LOG_LEVEL %q", e.ErrInvalidInput, c.DBLogLevel)
	}
	return nil
}

// EventsEnabled reports whether seeded entities should be published to Kafka.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
