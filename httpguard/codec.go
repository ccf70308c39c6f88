package httpguard

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrInvalidKeySize is returned by NewCodec for keys that are not 16, 24,
// or 32 bytes.
var ErrInvalidKeySize = errors.New("httpguard: key must be 16, 24, or 32 bytes")

// Codec seals and opens cookie values with AES-GCM. The cookie name is the
// additional authenticated data, so ciphertext is valid only for the cookie
// it was issued under.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec builds a Codec from an AES key.
func NewCodec(key []byte) (*Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Codec{aead: aead}, nil
}

// Seal encrypts a cookie value for the named cookie, returning a base64url
// string safe to place in a Set-Cookie header.
func (c *Codec) Seal(name, value string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a presented cookie value. Any failure, from bad base64 to
// an authentication mismatch, reports ok=false.
func (c *Codec) Open(name, encoded string) (string, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	if len(raw) < c.aead.NonceSize() {
		return "", false
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return "", false
	}
	return string(plain), true
}
