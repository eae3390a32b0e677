package certificates

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

const organization = "aqlc"

// GenerateSelfSignedCertificate returns a server certificate for hosts, valid
// until expire. IP hosts go to the IP SANs, the rest to the DNS names.
// Without hosts the certificate covers localhost.
func GenerateSelfSignedCertificate(expire time.Time, hosts ...string) (tls.Certificate, error) {
	if len(hosts) == 0 {
		hosts = []string{"localhost", "127.0.0.1"}
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate serial number: %w", err)
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Issuer: pkix.Name{
			Organization: []string{organization},
		},
		Subject: pkix.Name{
			Organization:       []string{organization},
			OrganizationalUnit: []string{"Query Compiler"},
			CommonName:         hosts[0],
		},
		NotBefore:             time.Now(),
		NotAfter:              expire,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to generate ecdsa private key: %w", err)
	}

	certData, err := x509.CreateCertificate(rand.Reader, template, template, privateKey.Public(), privateKey)
	if err != nil {
		return tls.Certificate{}, err
	}

	cert, err := x509.ParseCertificate(certData)
	if err != nil {
		return tls.Certificate{}, err
	}

	return tls.Certificate{
		Certificate: [][]byte{certData},
		PrivateKey:  privateKey,
		Leaf:        cert,
	}, nil
}

// Load reads a PEM certificate and key pair. Empty paths fall back to a
// self-signed certificate valid for one year.
func Load(certFile string, keyFile string) (tls.Certificate, error) {
	if certFile == "" && keyFile == "" {
		return GenerateSelfSignedCertificate(time.Now().AddDate(1, 0, 0))
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load certificate %s: %w", certFile, err)
	}
	return cert, nil
}
