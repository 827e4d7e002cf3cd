// pkg/webserver/tls.go

package webserver

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/groundworklabs/groundwork/pkg/gw_io"
)

const (
	CertFileName = "server.crt"
	KeyFileName  = "server.key"

	certValidity = 365 * 24 * time.Hour
)

// EnsureSelfSignedCert creates dir and writes a self-signed ECDSA P-256
// certificate and key if they do not already exist. Existing files are
// never overwritten.
func EnsureSelfSignedCert(rc *gw_io.RuntimeContext, dir string) error {
	logger := otelzap.Ctx(rc.Ctx)

	certPath := filepath.Join(dir, CertFileName)
	keyPath := filepath.Join(dir, KeyFileName)

	if fileExists(certPath) && fileExists(keyPath) {
		logger.Info("TLS certificate already present", zap.String("cert", certPath))
		return nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return cerr.Wrapf(err, "failed to create TLS directory %s", dir)
	}

	certPEM, keyPEM, err := GenerateSelfSigned("localhost")
	if err != nil {
		return err
	}

	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return cerr.Wrapf(err, "failed to write %s", keyPath)
	}
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return cerr.Wrapf(err, "failed to write %s", certPath)
	}

	logger.Info("Generated self-signed TLS certificate",
		zap.String("cert", certPath),
		zap.Duration("validity", certValidity))
	return nil
}

// GenerateSelfSigned returns PEM-encoded certificate and key for the given
// host, valid for localhost and loopback addresses.
func GenerateSelfSigned(host string) (certPEM, keyPEM []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to generate key")
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to generate serial number")
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: host, Organization: []string{"groundwork"}},
		NotBefore:    now,
		NotAfter:     now.Add(certValidity),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{host},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
	}
	if host != "localhost" {
		template.DNSNames = append(template.DNSNames, "localhost")
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to create certificate")
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, nil, cerr.Wrap(err, "failed to marshal key")
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
