package utils

import "errors"

var (
	ErrRunNotFound     = errors.New("processing run not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDatabaseError   = errors.New("database error")
	ErrShuttingDown    = errors.New("service is shutting down")
	ErrScriptExecution = errors.New("optimization script failed")
)
