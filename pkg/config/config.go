package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/storage"
)

// Config holds all application configuration. Values come from an
// optional YAML file overlaid with APPTVN_* environment variables;
// environment wins.
type Config struct {
	Server        ServerConfig
	Storage       storage.Config
	Identity      IdentityConfig
	Observability ObservabilityConfig
	CORS          CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server, on its own port for probes.
	HealthPort string
}

// IdentityConfig holds identity-provider settings. IssuerURL and
// ClientID are required; the admin endpoint is only needed for signup
// and account recovery.
type IdentityConfig struct {
	IssuerURL    string
	ClientID     string
	AdminBaseURL string
	ServiceKey   string
	CacheSize    int
	CacheTTL     time.Duration
}

// ObservabilityConfig holds logging, metrics and OTel settings.
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool

	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool
}

// CORSConfig holds the allowed web origins.
type CORSConfig struct {
	AllowedOrigins []string
}

// fileConfig is the YAML document shape. Only the fields operators
// actually override live here; everything else is env-only.
type fileConfig struct {
	Server struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		HealthPort string `yaml:"health_port"`
	} `yaml:"server"`
	Database struct {
		URL         string `yaml:"url"`
		ReplicaURLs string `yaml:"replica_urls"`
		MaxConns    int    `yaml:"max_conns"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	Identity struct {
		IssuerURL    string `yaml:"issuer_url"`
		ClientID     string `yaml:"client_id"`
		AdminBaseURL string `yaml:"admin_base_url"`
	} `yaml:"identity"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// LoadConfig builds the configuration from defaults, the YAML file
// named by APPTVN_CONFIG_FILE (if any) and APPTVN_* environment
// variables, then validates it.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("APPTVN_CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			HealthPort:      "9090",
		},
		Storage: storage.DefaultConfig(),
		Identity: IdentityConfig{
			CacheSize: 1024,
			CacheTTL:  time.Minute,
		},
		Observability: ObservabilityConfig{
			LogLevel:           observability.InfoLevel,
			MetricsEnabled:     true,
			OTelEndpoint:       "localhost:4317",
			OTelServiceName:    "apptvn-api",
			OTelServiceVersion: "1.0.0",
			OTelInsecure:       true,
		},
	}
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	setString(&cfg.Server.Host, fc.Server.Host)
	setString(&cfg.Server.Port, fc.Server.Port)
	setString(&cfg.Server.HealthPort, fc.Server.HealthPort)
	setString(&cfg.Storage.PostgresURL, fc.Database.URL)
	if fc.Database.ReplicaURLs != "" {
		cfg.Storage.PostgresReplicaURLs = storage.ParseReplicaURLs(fc.Database.ReplicaURLs)
	}
	if fc.Database.MaxConns > 0 {
		cfg.Storage.PostgresMaxConns = fc.Database.MaxConns
	}
	setString(&cfg.Storage.RedisURL, fc.Redis.URL)
	setString(&cfg.Identity.IssuerURL, fc.Identity.IssuerURL)
	setString(&cfg.Identity.ClientID, fc.Identity.ClientID)
	setString(&cfg.Identity.AdminBaseURL, fc.Identity.AdminBaseURL)
	if fc.Logging.Level != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(fc.Logging.Level)
	}
	if len(fc.CORS.AllowedOrigins) > 0 {
		cfg.CORS.AllowedOrigins = fc.CORS.AllowedOrigins
	}

	return nil
}

func applyEnv(cfg *Config) {
	// Server
	setString(&cfg.Server.Host, os.Getenv("APPTVN_HOST"))
	setString(&cfg.Server.Port, os.Getenv("APPTVN_PORT"))
	setString(&cfg.Server.HealthPort, os.Getenv("APPTVN_HEALTH_PORT"))
	setDuration(&cfg.Server.ReadTimeout, "APPTVN_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "APPTVN_WRITE_TIMEOUT")
	setDuration(&cfg.Server.IdleTimeout, "APPTVN_IDLE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "APPTVN_SHUTDOWN_TIMEOUT")

	// Database
	setString(&cfg.Storage.PostgresURL, os.Getenv("APPTVN_POSTGRES_URL"))
	if replicas := os.Getenv("APPTVN_POSTGRES_REPLICA_URLS"); replicas != "" {
		cfg.Storage.PostgresReplicaURLs = storage.ParseReplicaURLs(replicas)
	}
	setInt(&cfg.Storage.PostgresMaxConns, "APPTVN_POSTGRES_MAX_CONNS")
	setInt(&cfg.Storage.PostgresMinConns, "APPTVN_POSTGRES_MIN_CONNS")
	setDuration(&cfg.Storage.PostgresTimeout, "APPTVN_POSTGRES_TIMEOUT")

	// Redis
	setString(&cfg.Storage.RedisURL, os.Getenv("APPTVN_REDIS_URL"))
	setString(&cfg.Storage.RedisPassword, os.Getenv("APPTVN_REDIS_PASSWORD"))
	setInt(&cfg.Storage.RedisDB, "APPTVN_REDIS_DB")
	setInt(&cfg.Storage.RedisPoolSize, "APPTVN_REDIS_POOL_SIZE")

	// Identity
	setString(&cfg.Identity.IssuerURL, os.Getenv("APPTVN_IDENTITY_ISSUER_URL"))
	setString(&cfg.Identity.ClientID, os.Getenv("APPTVN_IDENTITY_CLIENT_ID"))
	setString(&cfg.Identity.AdminBaseURL, os.Getenv("APPTVN_IDENTITY_ADMIN_URL"))
	setString(&cfg.Identity.ServiceKey, os.Getenv("APPTVN_IDENTITY_SERVICE_KEY"))
	setInt(&cfg.Identity.CacheSize, "APPTVN_IDENTITY_CACHE_SIZE")
	setDuration(&cfg.Identity.CacheTTL, "APPTVN_IDENTITY_CACHE_TTL")

	// Observability
	if level := os.Getenv("APPTVN_LOG_LEVEL"); level != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(strings.ToLower(level))
	}
	setBool(&cfg.Observability.MetricsEnabled, "APPTVN_METRICS_ENABLED")
	setBool(&cfg.Observability.OTelEnabled, "APPTVN_OTEL_ENABLED")
	setString(&cfg.Observability.OTelEndpoint, os.Getenv("APPTVN_OTEL_ENDPOINT"))
	setString(&cfg.Observability.OTelServiceName, os.Getenv("APPTVN_OTEL_SERVICE_NAME"))
	setString(&cfg.Observability.OTelServiceVersion, os.Getenv("APPTVN_OTEL_SERVICE_VERSION"))
	setBool(&cfg.Observability.OTelInsecure, "APPTVN_OTEL_INSECURE")

	// CORS
	if origins := os.Getenv("APPTVN_CORS_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		cfg.CORS.AllowedOrigins = cfg.CORS.AllowedOrigins[:0]
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cfg.CORS.AllowedOrigins = append(cfg.CORS.AllowedOrigins, trimmed)
			}
		}
	}
}

// Validate checks that the configuration can actually run the service.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Storage.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Identity.IssuerURL == "" {
		return fmt.Errorf("identity issuer URL is required")
	}
	if c.Identity.ClientID == "" {
		return fmt.Errorf("identity client ID is required")
	}
	if c.Identity.AdminBaseURL != "" && c.Identity.ServiceKey == "" {
		return fmt.Errorf("identity service key is required when the admin endpoint is configured")
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setBool(dst *bool, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = strings.ToLower(value) == "true" || value == "1"
	}
}

func setInt(dst *int, key string) {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			*dst = intVal
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			*dst = duration
		}
	}
}
