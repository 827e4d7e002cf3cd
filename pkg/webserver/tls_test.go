// pkg/webserver/tls_test.go

package webserver

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundworklabs/groundwork/pkg/gw_io"
	"github.com/groundworklabs/groundwork/pkg/logger"
)

func testContext(t *testing.T) *gw_io.RuntimeContext {
	t.Helper()
	logger.InitFallback()
	return gw_io.NewContext(t.Context(), "test")
}

func TestGenerateSelfSigned(t *testing.T) {
	certPEM, keyPEM, err := GenerateSelfSigned("localhost")
	require.NoError(t, err)

	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	assert.Equal(t, "CERTIFICATE", block.Type)

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cert.Subject.CommonName)
	assert.Contains(t, cert.DNSNames, "localhost")
	assert.True(t, cert.NotAfter.After(cert.NotBefore))

	keyBlock, _ := pem.Decode(keyPEM)
	require.NotNil(t, keyBlock)
	assert.Equal(t, "EC PRIVATE KEY", keyBlock.Type)
	_, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	require.NoError(t, err)
}

func TestEnsureSelfSignedCert(t *testing.T) {
	rc := testContext(t)
	dir := filepath.Join(t.TempDir(), "tls")

	require.NoError(t, EnsureSelfSignedCert(rc, dir))

	certPath := filepath.Join(dir, CertFileName)
	keyPath := filepath.Join(dir, KeyFileName)

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	first, err := os.ReadFile(certPath)
	require.NoError(t, err)

	// Second run must not regenerate.
	require.NoError(t, EnsureSelfSignedCert(rc, dir))
	second, err := os.ReadFile(certPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContainerConfigPorts(t *testing.T) {
	tests := []struct {
		name      string
		opts      DeployOptions
		wantPorts []string
		wantBinds int
	}{
		{
			name:      "http only",
			opts:      DeployOptions{Image: "nginx:stable", HTTPPort: 8080},
			wantPorts: []string{"80/tcp"},
		},
		{
			name: "https adds 443 and tls mount",
			opts: DeployOptions{
				Image: "nginx:stable", HTTPPort: 80, HTTPSPort: 443,
				EnableHTTPS: true, TLSDir: "/etc/groundwork/tls",
			},
			wantPorts: []string{"80/tcp", "443/tcp"},
			wantBinds: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contCfg, hostCfg := containerConfig(tt.opts)

			assert.Len(t, contCfg.ExposedPorts, len(tt.wantPorts))
			for _, p := range tt.wantPorts {
				bindings, ok := hostCfg.PortBindings[nat.Port(p)]
				require.True(t, ok, "missing binding for %s", p)
				require.Len(t, bindings, 1)
			}
			assert.Len(t, hostCfg.Binds, tt.wantBinds)
			assert.Equal(t, "unless-stopped", string(hostCfg.RestartPolicy.Name))
		})
	}
}

func TestContainerConfigHostPortMapping(t *testing.T) {
	_, hostCfg := containerConfig(DeployOptions{Image: "nginx:stable", HTTPPort: 8080})
	bindings := hostCfg.PortBindings[nat.Port("80/tcp")]
	require.Len(t, bindings, 1)
	assert.Equal(t, fmt.Sprintf("%d", 8080), bindings[0].HostPort)
}
