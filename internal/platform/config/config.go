package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	pstrings "dealchecker/pkg/platform/strings"
)

// Environments accepted in APP_ENVIRONMENT.
var Environments = []string{"local", "development", "test", "stage", "production"}

// Config is the whole process configuration.
type Config struct {
	Server   Server
	Auth     AuthConfig
	Registry RegistryConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	Tasks    TaskConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// AuthConfig configures token validation and the route capabilities.
type AuthConfig struct {
	JWTSigningKey    string
	JWTIssuer        string
	ReadPermissions  []string
	WritePermissions []string
	RequiredRole     string
}

type RegistryConfig struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// DatabaseConfig selects the PostgreSQL task store. An empty URL keeps tasks
// in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig selects the shared idempotency guard. An empty URL keeps locks
// in process.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Enabled           bool
	Brokers           []string
	AuditTopic        string
	Partitions        int32
	ReplicationFactor int16
}

// StorageConfig points at the S3-compatible bucket holding deal documents.
// An empty endpoint serves no documents.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type TaskConfig struct {
	IdempotencyTTL  time.Duration
	AuditBufferSize int
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var errs []error
	p := parser{errs: &errs}

	cfg := Config{
		Server: Server{
			Addr:            envOr("DEALCHECKER_ADDR", ":8080"),
			Environment:     envOr("APP_ENVIRONMENT", "local"),
			LogLevel:        envOr("LOG_LEVEL", "info"),
			ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey:    os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:        envOr("JWT_ISSUER", "dealchecker"),
			ReadPermissions:  list("READ_PERMISSIONS", "deal:read"),
			WritePermissions: list("WRITE_PERMISSIONS", "deal:read,deal:write"),
			RequiredRole:     envOr("REQUIRED_ROLE", "EMPLOYEE"),
		},
		Registry: RegistryConfig{
			BaseURL:          os.Getenv("REGISTRY_BASE_URL"),
			Timeout:          p.duration("REGISTRY_TIMEOUT", 5*time.Second),
			FailureThreshold: p.integer("REGISTRY_BREAKER_THRESHOLD", 5),
			Cooldown:         p.duration("REGISTRY_BREAKER_COOLDOWN", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    p.integer("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    p.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Enabled:           p.boolean("KAFKA_ENABLED", false),
			Brokers:           list("KAFKA_BROKERS", "localhost:9092"),
			AuditTopic:        envOr("KAFKA_AUDIT_TOPIC", "dealchecker.audit"),
			Partitions:        int32(p.integer("KAFKA_AUDIT_PARTITIONS", 3)),
			ReplicationFactor: int16(p.integer("KAFKA_AUDIT_REPLICATION", 1)),
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
			AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
			Bucket:    envOr("STORAGE_BUCKET", "deal-documents"),
			UseSSL:    p.boolean("STORAGE_USE_SSL", false),
		},
		Tasks: TaskConfig{
			IdempotencyTTL:  p.duration("IDEMPOTENCY_TTL", 30*time.Second),
			AuditBufferSize: p.integer("AUDIT_BUFFER_SIZE", 1024),
		},
	}

	if !slices.Contains(Environments, cfg.Server.Environment) {
		errs = append(errs, fmt.Errorf("APP_ENVIRONMENT must be one of %s", strings.Join(Environments, ", ")))
	}
	if cfg.Auth.JWTSigningKey == "" {
		if cfg.IsProduction() {
			errs = append(errs, errors.New("JWT_SIGNING_KEY is required in production"))
		}
		cfg.Auth.JWTSigningKey = devSigningKey
	}
	if cfg.Registry.BaseURL == "" {
		errs = append(errs, errors.New("REGISTRY_BASE_URL is required"))
	}
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED=true"))
	}

	return cfg, errors.Join(errs...)
}

// IsProduction reports whether the process runs in a production-like stage.
func (c Config) IsProduction() bool {
	return c.Server.Environment == "production" || c.Server.Environment == "stage"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func list(key, fallback string) []string {
	return pstrings.SplitList(envOr(key, fallback), ",")
}

// parser collects malformed values instead of failing on the first one.
type parser struct {
	errs *[]error
}

func (p parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (p parser) integer(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p parser) boolean(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}
