package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:4200", "http://localhost:3000", "http://localhost:8085"}, cfg.Server.CORSAllowedOrigins)

	assert.Equal(t, "localhost:50051", cfg.Grpc.Target())
	assert.False(t, cfg.Grpc.EnableTLS)
	assert.Equal(t, 30*time.Second, cfg.Grpc.ConnectionTimeout())
	assert.Equal(t, 600*time.Second, cfg.Grpc.RequestTimeout())
	assert.Equal(t, 3, cfg.Grpc.MaxRetryAttempts)
	assert.Equal(t, 60, cfg.Grpc.MaxPollAttempts)
	assert.Equal(t, 5*time.Second, cfg.Grpc.PollDelay())

	assert.Equal(t, BackendGrpc, cfg.Processing.Backend)
	assert.Equal(t, 5, cfg.Processing.MaxConcurrentRequests)
	assert.Equal(t, "/tmp/route-processing", cfg.Processing.TempDataDirectory)
	assert.Equal(t, 2*time.Hour, cfg.Processing.RetainRunsFor())
	assert.Equal(t, 10*time.Minute, cfg.Script.Timeout())

	assert.Equal(t, SinkLog, cfg.Messaging.StatusSink)
	assert.Empty(t, cfg.Database.PostgresURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRPC_HOST", "optimizer.internal")
	t.Setenv("GRPC_PORT", "6000")
	t.Setenv("GRPC_ENABLE_TLS", "true")
	t.Setenv("GRPC_MAX_RETRY_ATTEMPTS", "5")
	t.Setenv("PROCESSING_BACKEND", "SCRIPT")
	t.Setenv("SCRIPT_PATH", "/opt/mrl/run.py")
	t.Setenv("SCRIPT_CONDA_ENV_NAME", "mrl")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("STATUS_SINK", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "optimizer.internal:6000", cfg.Grpc.Target())
	assert.True(t, cfg.Grpc.EnableTLS)
	assert.Equal(t, 5, cfg.Grpc.MaxRetryAttempts)
	assert.Equal(t, BackendScript, cfg.Processing.Backend)
	assert.True(t, cfg.Script.Enabled)
	assert.Equal(t, "mrl", cfg.Script.CondaEnvName)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, SinkRedis, cfg.Messaging.StatusSink)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedValuesFail(t *testing.T) {
	t.Setenv("GRPC_PORT", "not-a-port")
	t.Setenv("GRPC_MAX_RETRY_ATTEMPTS", "abc")
	t.Setenv("GRPC_ENABLE_TLS", "maybe")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "GRPC_PORT")
	assert.Contains(t, err.Error(), "GRPC_MAX_RETRY_ATTEMPTS")
	assert.Contains(t, err.Error(), "GRPC_ENABLE_TLS")
}

func TestLoad_TrimsNumericValues(t *testing.T) {
	t.Setenv("GRPC_PORT", " 6001 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6001, cfg.Grpc.Port)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"PROCESSING_BACKEND": "lambda"}},
		{"script without path", map[string]string{"PROCESSING_BACKEND": "script"}},
		{"redis sink without addr", map[string]string{"STATUS_SINK": "redis"}},
		{"rabbitmq sink without url", map[string]string{"STATUS_SINK": "rabbitmq"}},
		{"unknown sink", map[string]string{"STATUS_SINK": "kafka"}},
		{"zero workers", map[string]string{"PROCESSING_MAX_CONCURRENT_REQUESTS": "0"}},
		{"port out of range", map[string]string{"GRPC_PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
