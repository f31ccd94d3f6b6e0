package server

import "errors"

var (
	// Configuration errors
	ErrMissingAddress = errors.New("server address is required")
	ErrEmptyCertPath  = errors.New("certificate or key file path cannot be empty")
	ErrUnknownProfile = errors.New("unknown TLS profile")
	ErrFailedLoadCert = errors.New("failed to load certificate")

	// Server lifecycle errors
	ErrServerAlreadyRunning = errors.New("server is already running")
)
