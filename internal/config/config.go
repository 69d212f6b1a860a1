package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Mongo    MongoConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Log      LogConfig
}

type ServerConfig struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	Driver   string
	URL      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL string
}

type MongoConfig struct {
	URI      string
	Database string
}

type WorkerConfig struct {
	AuditQueue        string
	NoticeConcurrency int
	HandlerTimeout    time.Duration
}

type AuthConfig struct {
	JWTSecret string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			RequestTimeout:  getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
			URL:      getEnv("DB_URL", postgresURL()),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", getEnv("REDIS_HOST", "localhost")+":6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL: getEnv("RABBITMQ_URL", fmt.Sprintf("amqp://%s:%s@%s:5672/",
				getEnv("RABBITMQ_USER", "guest"),
				getEnv("RABBITMQ_PASS", "guest"),
				getEnv("RABBITMQ_HOST", "localhost"))),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", mongoURI()),
			Database: getEnv("MONGO_DB", "escrow_audit"),
		},
		Worker: WorkerConfig{
			AuditQueue:        getEnv("AUDIT_QUEUE", "escrow_audit_queue"),
			NoticeConcurrency: getEnvInt("NOTICE_CONCURRENCY", 5),
			HandlerTimeout:    getEnvDuration("WORKER_HANDLER_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case StoragePostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.DB.Driver)
	}
	if c.DB.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Server.RequestTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be positive")
	}
	if c.Worker.NoticeConcurrency <= 0 {
		return fmt.Errorf("NOTICE_CONCURRENCY must be positive")
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	return nil
}

// postgresURL builds a DSN from the DB_* variables used by docker-compose.
func postgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "escrow"),
		getEnv("DB_PASSWORD", "secret123"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "escrow"))
}

func mongoURI() string {
	user, pass := os.Getenv("MONGO_USER"), os.Getenv("MONGO_PASS")
	host := getEnv("MONGO_HOST", "localhost")
	if user == "" {
		return "mongodb://" + host + ":27017"
	}
	return "mongodb://" + user + ":" + pass + "@" + host + ":27017"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
