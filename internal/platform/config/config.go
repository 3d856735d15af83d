// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration. Optional backends left empty
// fall back to in-memory implementations.
type Config struct {
	Server    Server
	Log       Log
	Auth      Auth
	Providers Providers
	Workflow  Workflow
	Redis     RedisConfig
	Postgres  PostgresConfig
	Kafka     KafkaConfig
	RateLimit RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"KYC_ADDR" envDefault:":8080"`
	PublicBaseURL   string        `env:"KYC_PUBLIC_BASE_URL"`
	ShutdownTimeout time.Duration `env:"KYC_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Auth struct {
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"suresavings-accounts"`
	JWTAudience   string `env:"JWT_AUDIENCE" envDefault:"suresavings-kyc"`
}

// Providers holds the external verification services.
type Providers struct {
	IdentityProviderID string        `env:"IDP_PROVIDER_ID" envDefault:"identity-provider"`
	IdentityURL        string        `env:"IDP_BASE_URL" envDefault:"http://localhost:9001"`
	IdentityAPIKey     string        `env:"IDP_API_KEY"`
	IdentityTimeout    time.Duration `env:"IDP_TIMEOUT" envDefault:"15s"`

	OCRURL     string        `env:"OCR_BASE_URL" envDefault:"http://localhost:9002"`
	OCRAPIKey  string        `env:"OCR_API_KEY"`
	OCRTimeout time.Duration `env:"OCR_TIMEOUT" envDefault:"20s"`

	GeocoderURL     string        `env:"GEOCODER_BASE_URL" envDefault:"http://localhost:9003"`
	GeocoderAPIKey  string        `env:"GEOCODER_API_KEY"`
	GeocoderTimeout time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"5s"`
	GeocodeCacheTTL time.Duration `env:"GEOCODE_CACHE_TTL" envDefault:"24h"`
}

// Workflow tunes the verification workflow.
type Workflow struct {
	OCRLowConfidence     int           `env:"OCR_LOW_CONFIDENCE_THRESHOLD" envDefault:"60"`
	GeoHighAccuracy      bool          `env:"GEO_HIGH_ACCURACY" envDefault:"true"`
	GeoTimeout           time.Duration `env:"GEO_TIMEOUT" envDefault:"10s"`
	GeoMaxCacheAge       time.Duration `env:"GEO_MAX_CACHE_AGE" envDefault:"60s"`
	ProximityRadiusM     float64       `env:"PROXIMITY_RADIUS_METERS" envDefault:"500"`
	AttestationTTL       time.Duration `env:"ATTESTATION_TTL" envDefault:"72h"`
	AttestationRetention time.Duration `env:"ATTESTATION_RETENTION" envDefault:"720h"`
	MaxImageBytes        int64         `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

type PostgresConfig struct {
	DSN          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdle  time.Duration `env:"DB_CONN_MAX_IDLE" envDefault:"5m"`
}

type KafkaConfig struct {
	Brokers          []string `env:"KAFKA_BROKERS" envSeparator:","`
	ClientID         string   `env:"KAFKA_CLIENT_ID" envDefault:"kyc-workflow"`
	DecisionTopic    string   `env:"KAFKA_DECISION_TOPIC" envDefault:"kyc.tier-decisions"`
	AttestationTopic string   `env:"KAFKA_ATTESTATION_TOPIC" envDefault:"kyc.attestation-requests"`
	Partitions       int32    `env:"KAFKA_TOPIC_PARTITIONS" envDefault:"3"`
	Replication      int16    `env:"KAFKA_TOPIC_REPLICATION" envDefault:"1"`
}

// RateLimit bounds request rates. A zero limit disables that policy.
type RateLimit struct {
	Disabled          bool          `env:"RATE_LIMIT_DISABLED" envDefault:"false"`
	AttestationLimit  int           `env:"RATE_LIMIT_ATTESTATION" envDefault:"20"`
	AttestationWindow time.Duration `env:"RATE_LIMIT_ATTESTATION_WINDOW" envDefault:"1m"`
	SessionLimit      int           `env:"RATE_LIMIT_SESSION" envDefault:"120"`
	SessionWindow     time.Duration `env:"RATE_LIMIT_SESSION_WINDOW" envDefault:"1m"`
}

// FromEnv parses the environment into a Config.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Workflow.OCRLowConfidence < 0 || cfg.Workflow.OCRLowConfidence > 100 {
		return Config{}, fmt.Errorf("OCR_LOW_CONFIDENCE_THRESHOLD must be within 0..100, got %d", cfg.Workflow.OCRLowConfidence)
	}
	if cfg.Workflow.AttestationTTL < 0 {
		return Config{}, fmt.Errorf("ATTESTATION_TTL must not be negative")
	}
	return cfg, nil
}
