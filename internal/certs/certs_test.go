package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialOf(t *testing.T, m *Manager) string {
	t.Helper()
	cert, err := m.Certificate()
	require.NoError(t, err)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed.SerialNumber.String()
}

func TestManager_GeneratesAndReuses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	m := NewManager(dir)

	first := serialOf(t, m)
	assert.FileExists(t, m.CertFile())
	assert.FileExists(t, filepath.Join(dir, "localhost.key"))

	info, err := os.Stat(filepath.Join(dir, "localhost.key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Equal(t, first, serialOf(t, m), "a valid certificate is reused")
}

func TestManager_ReplacesCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)
	require.NoError(t, os.WriteFile(m.certFile, []byte("garbage"), 0o600))
	require.NoError(t, os.WriteFile(m.keyFile, []byte("garbage"), 0o600))

	cert, err := m.Certificate()
	require.NoError(t, err)
	assert.NoError(t, verify(cert, time.Now()))
}

func TestVerify(t *testing.T) {
	m := NewManager(t.TempDir())
	cert, err := m.Certificate()
	require.NoError(t, err)

	assert.NoError(t, verify(cert, time.Now()))
	assert.ErrorContains(t, verify(cert, time.Now().Add(Validity+time.Hour)), "expired")
	assert.ErrorContains(t, verify(cert, time.Now().Add(-time.Hour)), "not yet valid")
}
