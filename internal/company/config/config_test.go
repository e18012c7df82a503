package config

import (
	"os"
	"path/filepath"
	"testing"

	e "github.com/gartstein/populate/internal/company/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "populate.yaml")
	raw := `
DB_DRIVER: mysql
DB_HOST: db.internal
DB_USER: seeder
DB_PASSWORD: secret
DB_NAME: populate
KAFKA_BROKERS:
  - kafka-1:9092
  - kafka-2:9092
TOPIC: seed.events
SEED:
  MAX_COMPANIES: 6
  TOTAL_EMPLOYEES: 25
  RANDOM_SEED: 42
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 3306, cfg.DBPort, "port should default per driver")
	assert.Equal(t, "", cfg.DBSSLMode, "sslmode only defaults for postgres")
	assert.Equal(t, "error", cfg.DBLogLevel)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "seed.events", cfg.Topic)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, Seed{MaxCompanies: 6, TotalEmployees: 25, SeedValue: 42}, cfg.Seed)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("DB_NAME: populate\n"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "populate.events", cfg.Topic)
	assert.False(t, cfg.EventsEnabled())
}

func TestParseSQLite(t *testing.T) {
	cfg, err := Parse([]byte("DB_DRIVER: sqlite\nDB_PATH: populate.db\n"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DBHost)
	assert.Equal(t, 0, cfg.DBPort)
	assert.Equal(t, "populate.db", cfg.DBPath)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown driver", raw: "DB_DRIVER: oracle\nDB_NAME: x\n"},
		{name: "missing database name", raw: "DB_DRIVER: postgres\n"},
		{name: "sqlite without path", raw: "DB_DRIVER: sqlite\n"},
		{name: "unknown log level", raw: "DB_NAME: x\nDB_LOG_LEVEL: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("DB_PORT: [not a number\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
