package main

import (
	"os"
	"path/filepath"

	"github.com/gartstein/warranty/internal/warranty/db"
	"gopkg.in/yaml.v3"
)

// configEnv overrides the default config location.
const configEnv = "WARRANTY_CONFIG"

// Config struct for YAML configuration
type Config struct {
	GRPCPort       int      `yaml:"GRPC_PORT"`
	HTTPPort       int      `yaml:"HTTP_PORT"`
	DBDriver       string   `yaml:"DB_DRIVER"`
	DBHost         string   `yaml:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD"`
	DBSSLMode      string   `yaml:"DB_SSLMODE"`
	DBPath         string   `yaml:"DB_PATH"`
	DBLogLevel     string   `yaml:"DB_LOG_LEVEL"`
	DBMaxOpenConns int      `yaml:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int      `yaml:"DB_MAX_IDLE_CONNS"`
	DBPingRetries  uint64   `yaml:"DB_PING_RETRIES"`
	PlatformDBName string   `yaml:"PLATFORM_DB_NAME"`
	TenantDBPrefix string   `yaml:"TENANT_DB_PREFIX"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS"`
	Topic          string   `yaml:"TOPIC"`
	Partitions     int      `yaml:"TOPIC_PARTITIONS"`
	ConsumerGroup  string   `yaml:"CONSUMER_GROUP"`
	JWTSecret      string   `yaml:"JWT_SECRET"`
}

// loadConfig reads the YAML file named by WARRANTY_CONFIG, falling back
// to the config shipped in the repository.
func loadConfig() (*Config, error) {
	configPath := os.Getenv(configEnv)
	if configPath == "" {
		configPath = filepath.Join("internal", "warranty", "config", "config.yaml")
	}
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Partitions < 1 {
		cfg.Partitions = 1
	}
	return &cfg, nil
}

// initDatabase maps the service config onto the database config.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Driver:         cfg.DBDriver,
		Host:           cfg.DBHost,
		Port:           cfg.DBPort,
		User:           cfg.DBUser,
		Password:       cfg.DBPassword,
		SSLMode:        cfg.DBSSLMode,
		Path:           cfg.DBPath,
		PlatformDBName: cfg.PlatformDBName,
		TenantDBPrefix: cfg.TenantDBPrefix,
		LogLevel:       cfg.DBLogLevel,
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleConns:   cfg.DBMaxIdleConns,
		PingRetries:    cfg.DBPingRetries,
	}
}
