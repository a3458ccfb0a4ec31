package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrFamilyNotFound       = errors.New("template family not found")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrFeedFull             = errors.New("maximum feed clients reached")
	ErrInvalidLogLevel      = errors.New("invalid log level")
)
