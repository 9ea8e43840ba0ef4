package gateway

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"os"

	"gpwebpay-gateway/internal/config"

	"github.com/youmark/pkcs8"
)

// Signer signs outbound digests with the merchant's RSA private key and
// verifies inbound digests against the gateway's public certificate.
// GP webpay uses SHA-1 RSA signatures, base64-encoded on the wire.
//
// Key material is loaded once at construction and never mutated; a Signer
// is safe for concurrent use.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewSigner builds a Signer from PEM-encoded key material. The private key
// must decrypt with the given passphrase; failures here are configuration
// errors and the caller must refuse to start.
func NewSigner(privateKeyPEM, certificatePEM []byte, passphrase string) (*Signer, error) {
	privateKey, err := parsePrivateKey(privateKeyPEM, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	publicKey, err := parseCertificatePublicKey(certificatePEM)
	if err != nil {
		return nil, fmt.Errorf("failed to load gateway certificate: %w", err)
	}

	return &Signer{
		privateKey: privateKey,
		publicKey:  publicKey,
	}, nil
}

// NewSignerFromConfig reads key material from the configured file paths.
func NewSignerFromConfig(cfg config.GatewayConfig) (*Signer, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file: %w", err)
	}

	certificatePEM, err := os.ReadFile(cfg.PublicCertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	return NewSigner(privateKeyPEM, certificatePEM, cfg.KeyPassphrase)
}

// Sign produces the base64-encoded SHA-1 RSA signature over the UTF-8
// bytes of digest.
func (s *Signer) Sign(digest string) (string, error) {
	hash := sha1.Sum([]byte(digest))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA1, hash[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign digest: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}

// Verify checks a base64-encoded signature against the digest bytes.
// It is total: malformed base64, truncated signatures and cryptographic
// mismatches all return false. The signature arrives from an untrusted
// redirect, so no input may cause a fault.
func (s *Signer) Verify(digest, signature string) bool {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	hash := sha1.Sum([]byte(digest))
	return rsa.VerifyPKCS1v15(s.publicKey, crypto.SHA1, hash[:], raw) == nil
}

func parsePrivateKey(pemBytes []byte, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key material")
	}

	if block.Type == "ENCRYPTED PRIVATE KEY" {
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt PKCS#8 private key: %w", err)
		}
		return key, nil
	}

	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		decrypted, err := x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
		der = decrypted
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is not an RSA key")
	}
	return key, nil
}

func parseCertificatePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in certificate material")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	publicKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate does not carry an RSA public key")
	}
	return publicKey, nil
}
