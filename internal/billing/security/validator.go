package security

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"log/slog"
)

// SignatureValidator decides whether a signed storefront payload is genuine.
// The controller accepts any implementation so tests can substitute a
// deterministic fake without touching key material.
type SignatureValidator interface {
	Validate(signedData, signature string) bool
}

// KeyProvider supplies the storefront's base64-encoded public key on demand.
type KeyProvider interface {
	PublicKey() string
}

// RSAValidator verifies SHA1-with-RSA signatures against the storefront's
// public key, which is what the storefront billing service emits.
//
// Every failure path returns false: missing key, empty payload, malformed
// encodings and cryptographic mismatch all fail closed.
type RSAValidator struct {
	keys   KeyProvider
	logger *slog.Logger
}

// NewRSAValidator builds the default validator around a key provider.
func NewRSAValidator(keys KeyProvider, logger *slog.Logger) *RSAValidator {
	return &RSAValidator{keys: keys, logger: logger}
}

// Validate reports whether signature is a valid signature of signedData under
// the configured public key.
func (v *RSAValidator) Validate(signedData, signature string) bool {
	if v.keys == nil {
		v.logger.Warn("no key provider configured, rejecting payload")
		return false
	}
	encodedKey := v.keys.PublicKey()
	if encodedKey == "" {
		v.logger.Warn("no public key configured, rejecting payload")
		return false
	}
	if signedData == "" || signature == "" {
		return false
	}

	key, err := parsePublicKey(encodedKey)
	if err != nil {
		v.logger.Error("invalid public key", "error", err)
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		v.logger.Warn("signature is not valid base64", "error", err)
		return false
	}

	digest := sha1.Sum([]byte(signedData))
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA1, digest[:], sig); err != nil {
		v.logger.Warn("signature does not match data")
		return false
	}
	return true
}

func parsePublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, x509.ErrUnsupportedAlgorithm
	}
	return key, nil
}
