// Package security holds the trust boundary of the billing core: the
// obfuscation of ledger fields at rest and the signature gate that inbound
// storefront payloads must pass before anything else looks at them.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	obfuscationIterations = 4096
	obfuscationKeyLen     = 32
	obfuscationNonceLen   = 12
)

// keyContext binds derived keys to this use so a salt reused elsewhere does
// not yield the same key material.
var keyContext = []byte("entitle.ledger.obfuscation.v1")

// Obfuscate applies a reversible, salt-keyed transform to plaintext for
// at-rest storage. It is deterministic for a given (salt, plaintext) pair so
// stored values can be matched against freshly obfuscated query keys.
//
// A nil or empty salt bypasses the transform entirely; callers are expected
// to log that they are operating unobfuscated.
func Obfuscate(salt []byte, plaintext string) string {
	if len(salt) == 0 {
		return plaintext
	}
	key := deriveKey(salt)
	aead := newAEAD(key)

	// Deterministic nonce from the keyed plaintext digest. Equality of
	// ciphertexts therefore leaks only equality of plaintexts, which the
	// lookup-by-obfuscated-key contract requires anyway.
	nonce := deriveNonce(key, plaintext)
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(append(nonce, sealed...))
}

// Unobfuscate reverses Obfuscate. It returns an error when the ciphertext
// cannot be reversed with the given salt (wrong salt, corrupted record);
// callers must drop the record rather than propagate garbage.
func Unobfuscate(salt []byte, ciphertext string) (string, error) {
	if len(salt) == 0 {
		return ciphertext, nil
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode obfuscated value: %w", err)
	}
	if len(raw) < obfuscationNonceLen {
		return "", fmt.Errorf("obfuscated value too short: %d bytes", len(raw))
	}
	key := deriveKey(salt)
	aead := newAEAD(key)

	nonce, sealed := raw[:obfuscationNonceLen], raw[obfuscationNonceLen:]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("unobfuscate value: %w", err)
	}
	return string(plain), nil
}

func deriveKey(salt []byte) []byte {
	return pbkdf2.Key(keyContext, salt, obfuscationIterations, obfuscationKeyLen, sha256.New)
}

func deriveNonce(key []byte, plaintext string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(plaintext))
	return mac.Sum(nil)[:obfuscationNonceLen]
}

func newAEAD(key []byte) cipher.AEAD {
	block, err := aes.NewCipher(key)
	if err != nil {
		// Key length is fixed above; this cannot fail at runtime.
		panic(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return aead
}
