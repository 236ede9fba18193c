package session

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	_ "embed"
)

// The bundled known-good certificates. Only their public keys matter:
// comparing keys instead of whole certificate bytes tolerates certificate
// rotations that keep the same key pair.
var (
	//go:embed certs/netflix.pem
	primaryCertPEM []byte
	//go:embed certs/netflix-assets.pem
	assetsCertPEM []byte
)

// ErrCertificatePinMismatch is returned during the TLS handshake when the
// server's public key matches none of the pinned keys. The connection is
// dropped, no request is sent.
var ErrCertificatePinMismatch = errors.New("server public key does not match any pinned key")

// PinFromCertPEM extracts the DER SubjectPublicKeyInfo from a PEM-encoded
// certificate.
func PinFromCertPEM(pemBytes []byte) ([]byte, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate block found in pem data")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse pinned certificate: %w", err)
	}
	return cert.RawSubjectPublicKeyInfo, nil
}

func bundledPins(willDownloadAssets bool) ([][]byte, error) {
	primary, err := PinFromCertPEM(primaryCertPEM)
	if err != nil {
		return nil, err
	}
	pins := [][]byte{primary}

	if willDownloadAssets {
		assets, err := PinFromCertPEM(assetsCertPEM)
		if err != nil {
			return nil, err
		}
		pins = append(pins, assets)
	}
	return pins, nil
}

// verifyPinnedKey checks the leaf certificate's public key against the
// pinned keys. It runs after (and in addition to) the standard chain
// verification, so a match here still requires an otherwise trusted chain.
func verifyPinnedKey(rawCerts [][]byte, pins [][]byte) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("server presented no certificates")
	}
	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("parse leaf certificate: %w", err)
	}
	for _, pin := range pins {
		if bytes.Equal(leaf.RawSubjectPublicKeyInfo, pin) {
			return nil
		}
	}
	return ErrCertificatePinMismatch
}
