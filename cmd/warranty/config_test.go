package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
GRPC_PORT: 6000
HTTP_PORT: 6001
DB_DRIVER: sqlite
DB_PATH: /var/lib/warranty
PLATFORM_DB_NAME: platform
KAFKA_BROKERS:
  - kafka-1:9092
  - kafka-2:9092
TOPIC: claims
CONSUMER_GROUP: activity
JWT_SECRET: s3cret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv(configEnv, path)

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.GRPCPort)
	assert.Equal(t, 6001, cfg.HTTPPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1, cfg.Partitions)
	assert.Equal(t, "s3cret", cfg.JWTSecret)

	dbCfg := initDatabase(cfg)
	assert.Equal(t, "sqlite", dbCfg.Driver)
	assert.Equal(t, "/var/lib/warranty", dbCfg.Path)
	assert.Equal(t, "platform", dbCfg.PlatformDBName)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(configEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("GRPC_PORT: [not a port"), 0o600))
	t.Setenv(configEnv, path)

	_, err := loadConfig()
	assert.Error(t, err)
}
