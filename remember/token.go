package remember

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenType is the persisted type discriminator for remember-me token rows.
const TokenType = "remember_me_token"

const valueSize = 32

var valueEncodedLen = base64.RawURLEncoding.EncodedLen(valueSize)

// ErrInvalidTTL is returned when a token is created or refreshed with a
// non-positive lifetime.
var ErrInvalidTTL = errors.New("remember: token ttl must be positive")

// Token is a persistent login token. Value holds the plaintext secret and is
// populated only by [NewToken] and [Token.Refresh]; providers must never
// store it.
type Token struct {
	Series    string
	Value     string
	Hash      [32]byte
	UserID    string
	GuardName string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// NewToken generates a token with an independent random series and value,
// each carrying at least 128 bits of entropy.
func NewToken(userID, guardName string, ttl time.Duration) (*Token, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	value, err := newValue()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Token{
		Series:    uuid.NewString(),
		Value:     value,
		Hash:      HashValue(value),
		UserID:    userID,
		GuardName: guardName,
		Type:      TokenType,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Refresh replaces the secret and recomputes hash and expiry. The series is
// preserved: rotation never changes the persistent identity of the row.
func (t *Token) Refresh(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	value, err := newValue()
	if err != nil {
		return err
	}

	now := time.Now()
	t.Value = value
	t.Hash = HashValue(value)
	t.UpdatedAt = now
	t.ExpiresAt = now.Add(ttl)
	return nil
}

// Encode returns the cookie representation "series.value". It is only
// meaningful on a token whose Value is still populated.
func Encode(series, value string) string {
	return series + "." + value
}

// Encode returns the cookie representation of the token.
func (t *Token) Encode() string {
	return Encode(t.Series, t.Value)
}

// Decode splits a presented cookie value into its series and value parts.
// Malformed input of any kind yields ok=false; attacker-controlled cookies
// must never surface as errors or panics.
func Decode(cookie string) (series, value string, ok bool) {
	series, value, found := strings.Cut(cookie, ".")
	if !found || series == "" || value == "" {
		return "", "", false
	}
	if _, err := uuid.Parse(series); err != nil {
		return "", "", false
	}
	if len(value) != valueEncodedLen {
		return "", "", false
	}
	if _, err := base64.RawURLEncoding.DecodeString(value); err != nil {
		return "", "", false
	}
	return series, value, true
}

// Verify reports whether the presented value matches the stored hash. The
// comparison runs in constant time over the digests.
func (t *Token) Verify(presented string) bool {
	digest := HashValue(presented)
	return subtle.ConstantTimeCompare(digest[:], t.Hash[:]) == 1
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// HashValue computes the persisted digest of a token value.
func HashValue(value string) [32]byte {
	return sha256.Sum256([]byte(value))
}

// EncodeHash renders a digest for storage in text columns.
func EncodeHash(hash [32]byte) string {
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// DecodeHash parses a digest previously rendered by [EncodeHash].
func DecodeHash(encoded string) ([32]byte, error) {
	var hash [32]byte

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return hash, err
	}
	if len(raw) != len(hash) {
		return hash, errors.New("remember: invalid hash size")
	}

	copy(hash[:], raw)
	return hash, nil
}

func newValue() (string, error) {
	var raw [valueSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
