package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"clanwars/database"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Transaction retry policy for serialization failures and deadlocks
	TxMaxRetries int           `env:"TX_MAX_RETRIES" envDefault:"5"`
	TxRetryDelay time.Duration `env:"TX_RETRY_DELAY" envDefault:"25ms"`

	// Game settings
	GameSettingsFile       string        `env:"GAME_SETTINGS_FILE"` // Optional YAML file with default game settings
	SettingsReloadInterval time.Duration `env:"SETTINGS_RELOAD_INTERVAL" envDefault:"1m"`

	// NATS configuration
	NATSEnabled bool   `env:"NATS_ENABLED" envDefault:"true"`
	NATSServers string `env:"NATS_SERVERS" envDefault:"nats://nats:4222"` // comma-separated

	// Discord direct-message notifications (disabled when token is empty)
	DiscordToken string `env:"DISCORD_TOKEN"`

	// Async dispatch of post-commit side effects
	DispatchQueueSize     int     `env:"DISPATCH_QUEUE_SIZE" envDefault:"1024"`
	DispatchWorkers       int     `env:"DISPATCH_WORKERS" envDefault:"4"`
	DispatchRatePerSecond float64 `env:"DISPATCH_RATE_PER_SECOND" envDefault:"50"`

	// OpenTelemetry metrics
	OTelEnabled              bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" envDefault:"clanwars"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" envDefault:"console"` // console, otlp or none
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" envDefault:"otel-collector:4317"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MILLIS" envDefault:"15000"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// NATSServerList splits the configured NATS servers
func (c *Config) NATSServerList() []string {
	var servers []string
	for _, s := range strings.Split(c.NATSServers, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}
	if config.TxMaxRetries < 1 {
		return nil, fmt.Errorf("TX_MAX_RETRIES must be at least 1")
	}
	if config.DispatchWorkers < 1 {
		return nil, fmt.Errorf("DISPATCH_WORKERS must be at least 1")
	}

	return config, nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:            "test",
		TxMaxRetries:           5,
		TxRetryDelay:           time.Millisecond,
		SettingsReloadInterval: time.Minute,
		DispatchQueueSize:      64,
		DispatchWorkers:        1,
		DispatchRatePerSecond:  1000,
		OTelExporterType:       "none",
	}
}
