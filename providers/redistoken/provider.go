package redistoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guardkit/guardkit/remember"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by this
// provider.
var ErrRedisUnavailable = errors.New("redistoken: redis unavailable")

// ErrCorruptRow is returned when a stored hash cannot be parsed back into a
// token row.
var ErrCorruptRow = errors.New("redistoken: corrupt token row")

const defaultPrefix = "grt:"

const (
	fieldHash      = "hash"
	fieldUserID    = "user_id"
	fieldGuardName = "guard_name"
	fieldType      = "type"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
	fieldExpiresAt = "expires_at"
)

// Provider is a Redis-backed guardkit.TokenProvider.
type Provider struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a Provider on the given client. An empty prefix selects the
// default "grt:".
func New(client redis.UniversalClient, prefix string) *Provider {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Provider{redis: client, prefix: prefix}
}

func (p *Provider) key(series string) string {
	return p.prefix + series
}

// CreateToken writes the token row and sets its Redis expiry to the token's
// ExpiresAt.
func (p *Provider) CreateToken(ctx context.Context, token *remember.Token) error {
	return p.write(ctx, token)
}

// UpdateTokenBySeries overwrites the row for the given series. The row's
// Redis expiry follows the refreshed ExpiresAt.
func (p *Provider) UpdateTokenBySeries(ctx context.Context, series string, token *remember.Token) error {
	return p.write(ctx, token)
}

func (p *Provider) write(ctx context.Context, token *remember.Token) error {
	key := p.key(token.Series)

	_, err := p.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldHash, remember.EncodeHash(token.Hash),
			fieldUserID, token.UserID,
			fieldGuardName, token.GuardName,
			fieldType, token.Type,
			fieldCreatedAt, token.CreatedAt.UTC().Format(time.RFC3339Nano),
			fieldUpdatedAt, token.UpdatedAt.UTC().Format(time.RFC3339Nano),
			fieldExpiresAt, token.ExpiresAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.ExpireAt(ctx, key, token.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// GetTokenBySeries loads a token row. An unknown or Redis-expired series
// yields (nil, nil).
func (p *Provider) GetTokenBySeries(ctx context.Context, series string) (*remember.Token, error) {
	fields, err := p.redis.HGetAll(ctx, p.key(series)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	hash, err := remember.DecodeHash(fields[fieldHash])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRow, err)
	}

	createdAt, err := parseTime(fields[fieldCreatedAt])
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(fields[fieldUpdatedAt])
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseTime(fields[fieldExpiresAt])
	if err != nil {
		return nil, err
	}

	return &remember.Token{
		Series:    series,
		Hash:      hash,
		UserID:    fields[fieldUserID],
		GuardName: fields[fieldGuardName],
		Type:      fields[fieldType],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// DeleteTokenBySeries removes the row. Deleting an unknown series is a no-op.
func (p *Provider) DeleteTokenBySeries(ctx context.Context, series string) error {
	if err := p.redis.Del(ctx, p.key(series)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrCorruptRow, err)
	}
	return t, nil
}
