package optimization

import "time"

// MaxRetryCeiling bounds MaxRetryAttempts.
const MaxRetryCeiling = 20

// Config holds the deadlines and loop bounds of one optimization flow.
type Config struct {
	ConnectionTimeout time.Duration
	RequestTimeout    time.Duration
	MaxRetryAttempts  int
	MaxPollAttempts   int
	PollDelay         time.Duration
	// HealthServiceName is sent with HealthCheck calls.
	HealthServiceName string
}

func DefaultConfig() Config {
	return Config{
		ConnectionTimeout: 30 * time.Second,
		RequestTimeout:    600 * time.Second,
		MaxRetryAttempts:  3,
		MaxPollAttempts:   60,
		PollDelay:         5 * time.Second,
		HealthServiceName: "route-processing-service",
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ConnectionTimeout <= 0 {
		c.ConnectionTimeout = d.ConnectionTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.MaxRetryAttempts <= 0 {
		c.MaxRetryAttempts = d.MaxRetryAttempts
	}
	if c.MaxRetryAttempts > MaxRetryCeiling {
		c.MaxRetryAttempts = MaxRetryCeiling
	}
	if c.MaxPollAttempts <= 0 {
		c.MaxPollAttempts = d.MaxPollAttempts
	}
	if c.PollDelay < 0 {
		c.PollDelay = d.PollDelay
	}
	if c.HealthServiceName == "" {
		c.HealthServiceName = d.HealthServiceName
	}
	return c
}
