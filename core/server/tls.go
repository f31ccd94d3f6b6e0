package server

import (
	"crypto/tls"
	"fmt"
	"strings"
)

// TLSProfile names one of Mozilla's server-side TLS compatibility levels.
type TLSProfile string

const (
	// TLSIntermediate allows TLS 1.2+ with ECDHE AEAD suites.
	TLSIntermediate TLSProfile = "intermediate"
	// TLSModern requires TLS 1.3.
	TLSModern TLSProfile = "modern"
)

// IntermediateTLSConfig returns a TLS configuration following Mozilla's
// Intermediate compatibility guidelines.
func IntermediateTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
			tls.CurveP384,
		},
	}
}

// ModernTLSConfig returns a TLS 1.3 only configuration.
// TLS 1.3 cipher suites are not configurable and are auto-selected.
func ModernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}
}

// NewTLSConfig builds a TLS config for the named profile and loads the
// certificate pair into it. An empty profile means intermediate.
func NewTLSConfig(profile TLSProfile, certFile, keyFile string) (*tls.Config, error) {
	if certFile == "" || keyFile == "" {
		return nil, ErrEmptyCertPath
	}

	var cfg *tls.Config
	switch TLSProfile(strings.ToLower(string(profile))) {
	case "", TLSIntermediate:
		cfg = IntermediateTLSConfig()
	case TLSModern:
		cfg = ModernTLSConfig()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, profile)
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedLoadCert, err)
	}
	cfg.Certificates = []tls.Certificate{cert}

	return cfg, nil
}
