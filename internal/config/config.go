package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	BackendGrpc   = "grpc"
	BackendScript = "script"

	SinkLog      = "log"
	SinkRedis    = "redis"
	SinkRabbitMQ = "rabbitmq"
)

type Config struct {
	Server     ServerConfig
	Grpc       GrpcConfig
	Processing ProcessingConfig
	Script     ScriptConfig
	Messaging  MessagingConfig
	Database   DatabaseConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port               int `validate:"min=1,max=65535"`
	CORSAllowedOrigins []string
	// JWTSecret enables bearer auth on the processing routes when set.
	JWTSecret string
}

type GrpcConfig struct {
	Host                     string `validate:"required"`
	Port                     int    `validate:"min=1,max=65535"`
	EnableTLS                bool
	ConnectionTimeoutSeconds int `validate:"min=1"`
	RequestTimeoutSeconds    int `validate:"min=1"`
	MaxRetryAttempts         int `validate:"min=1,max=10"`
	MaxPollAttempts          int `validate:"min=1"`
	PollDelaySeconds         int `validate:"min=0"`
}

func (g GrpcConfig) Target() string {
	return fmt.Sprintf("%s:%d", g.Host, g.Port)
}

func (g GrpcConfig) ConnectionTimeout() time.Duration {
	return time.Duration(g.ConnectionTimeoutSeconds) * time.Second
}

func (g GrpcConfig) RequestTimeout() time.Duration {
	return time.Duration(g.RequestTimeoutSeconds) * time.Second
}

func (g GrpcConfig) PollDelay() time.Duration {
	return time.Duration(g.PollDelaySeconds) * time.Second
}

type ProcessingConfig struct {
	Backend               string `validate:"oneof=grpc script"`
	MaxConcurrentRequests int    `validate:"min=1"`
	TempDataDirectory     string `validate:"required"`
	CleanupAfterHours     int    `validate:"min=1"`
}

func (p ProcessingConfig) RetainRunsFor() time.Duration {
	return time.Duration(p.CleanupAfterHours) * time.Hour
}

type ScriptConfig struct {
	Path             string `validate:"required_if=Enabled true"`
	WorkingDirectory string
	CondaEnvName     string
	TimeoutMinutes   int `validate:"min=1"`
	// Enabled mirrors Processing.Backend == script so the path check applies only then.
	Enabled bool
}

func (s ScriptConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMinutes) * time.Minute
}

type MessagingConfig struct {
	StatusSink         string `validate:"oneof=log redis rabbitmq"`
	RedisAddr          string `validate:"required_if=StatusSink redis"`
	RedisPassword      string
	RedisDB            int `validate:"min=0"`
	RedisStatusChannel string
	RedisResultsKey    string
	RabbitMQURL        string `validate:"required_if=StatusSink rabbitmq"`
}

type DatabaseConfig struct {
	// PostgresURL selects the gorm run repository; empty keeps runs in memory.
	PostgresURL string
}

type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Pretty bool
}

var validate = validator.New()

// Load reads configuration from environment variables, after loading .env if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := &envReader{}
	backend := strings.ToLower(getEnv("PROCESSING_BACKEND", BackendGrpc))

	cfg := &Config{
		Server: ServerConfig{
			Port:               env.getEnvAsInt("PORT", 8085),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:4200", "http://localhost:3000", "http://localhost:8085"}),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Grpc: GrpcConfig{
			Host:                     getEnv("GRPC_HOST", "localhost"),
			Port:                     env.getEnvAsInt("GRPC_PORT", 50051),
			EnableTLS:                env.getEnvAsBool("GRPC_ENABLE_TLS", false),
			ConnectionTimeoutSeconds: env.getEnvAsInt("GRPC_CONNECTION_TIMEOUT_SECONDS", 30),
			RequestTimeoutSeconds:    env.getEnvAsInt("GRPC_REQUEST_TIMEOUT_SECONDS", 600),
			MaxRetryAttempts:         env.getEnvAsInt("GRPC_MAX_RETRY_ATTEMPTS", 3),
			MaxPollAttempts:          env.getEnvAsInt("GRPC_MAX_POLL_ATTEMPTS", 60),
			PollDelaySeconds:         env.getEnvAsInt("GRPC_POLL_DELAY_SECONDS", 5),
		},
		Processing: ProcessingConfig{
			Backend:               backend,
			MaxConcurrentRequests: env.getEnvAsInt("PROCESSING_MAX_CONCURRENT_REQUESTS", 5),
			TempDataDirectory:     getEnv("PROCESSING_TEMP_DATA_DIRECTORY", "/tmp/route-processing"),
			CleanupAfterHours:     env.getEnvAsInt("PROCESSING_CLEANUP_AFTER_HOURS", 2),
		},
		Script: ScriptConfig{
			Path:             getEnv("SCRIPT_PATH", ""),
			WorkingDirectory: getEnv("SCRIPT_WORKING_DIRECTORY", ""),
			CondaEnvName:     getEnv("SCRIPT_CONDA_ENV_NAME", ""),
			TimeoutMinutes:   env.getEnvAsInt("SCRIPT_TIMEOUT_MINUTES", 10),
			Enabled:          backend == BackendScript,
		},
		Messaging: MessagingConfig{
			StatusSink:         strings.ToLower(getEnv("STATUS_SINK", SinkLog)),
			RedisAddr:          getEnv("REDIS_ADDR", ""),
			RedisPassword:      getEnv("REDIS_PASSWORD", ""),
			RedisDB:            env.getEnvAsInt("REDIS_DB", 0),
			RedisStatusChannel: getEnv("REDIS_STATUS_CHANNEL", "route_processing_status"),
			RedisResultsKey:    getEnv("REDIS_RESULTS_KEY", "route_processing_results"),
			RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		},
		Database: DatabaseConfig{
			PostgresURL: getEnv("POSTGRES_URL", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: env.getEnvAsBool("LOG_PRETTY", false),
		},
	}

	if err := env.err(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and the settings each backend or sink requires.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader collects malformed values so Load reports all of them at once.
type envReader struct {
	errs []error
}

func (r *envReader) getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intVal, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not an integer", key, value))
		return defaultValue
	}
	return intVal
}

func (r *envReader) getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolVal, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a boolean", key, value))
		return defaultValue
	}
	return boolVal
}

func (r *envReader) err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(r.errs...))
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
