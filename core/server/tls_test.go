package server_test

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/webroot/core/server"
)

func TestTLSProfiles(t *testing.T) {
	t.Parallel()

	inter := server.IntermediateTLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS12), inter.MinVersion)
	assert.Contains(t, inter.CipherSuites, uint16(tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256))
	assert.Len(t, inter.CurvePreferences, 3)

	modern := server.ModernTLSConfig()
	assert.Equal(t, uint16(tls.VersionTLS13), modern.MinVersion)
	assert.Empty(t, modern.CipherSuites)
}

func TestNewTLSConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile server.TLSProfile
		cert    string
		key     string
		wantErr error
	}{
		{"empty cert", server.TLSModern, "", "key.pem", server.ErrEmptyCertPath},
		{"empty key", server.TLSModern, "cert.pem", "", server.ErrEmptyCertPath},
		{"unknown profile", "legacy", "cert.pem", "key.pem", server.ErrUnknownProfile},
		{"missing files", server.TLSIntermediate, "/nonexistent/c.pem", "/nonexistent/k.pem", server.ErrFailedLoadCert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := server.NewTLSConfig(tt.profile, tt.cert, tt.key)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
