package redistoken

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/guardkit/guardkit/remember"
)

func newTestProvider(t *testing.T) (*Provider, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, ""), mr
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	token, err := remember.NewToken("user-1", "web", time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if err := p.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	got, err := p.GetTokenBySeries(ctx, token.Series)
	if err != nil {
		t.Fatalf("GetTokenBySeries failed: %v", err)
	}
	if got == nil {
		t.Fatal("stored token not found")
	}

	if got.Value != "" {
		t.Fatal("plaintext secret survived storage")
	}
	if got.Hash != token.Hash {
		t.Fatal("hash round trip mismatch")
	}
	if got.UserID != "user-1" || got.GuardName != "web" || got.Type != remember.TokenType {
		t.Fatalf("row fields mismatch: %+v", got)
	}
	if !got.Verify(token.Value) {
		t.Fatal("original secret does not verify against the loaded row")
	}
	if !got.ExpiresAt.Equal(token.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", got.ExpiresAt, token.ExpiresAt)
	}
}

func TestUnknownSeriesIsNilNil(t *testing.T) {
	p, _ := newTestProvider(t)

	got, err := p.GetTokenBySeries(context.Background(), "4a1f2b3c-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GetTokenBySeries failed: %v", err)
	}
	if got != nil {
		t.Fatal("unknown series returned a token")
	}
}

func TestUpdatePreservesSeriesAndReplacesHash(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	token, err := remember.NewToken("user-1", "web", time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if err := p.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	oldValue := token.Value
	if err := token.Refresh(2 * time.Hour); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if err := p.UpdateTokenBySeries(ctx, token.Series, token); err != nil {
		t.Fatalf("UpdateTokenBySeries failed: %v", err)
	}

	got, err := p.GetTokenBySeries(ctx, token.Series)
	if err != nil {
		t.Fatalf("GetTokenBySeries failed: %v", err)
	}
	if got == nil {
		t.Fatal("updated token not found")
	}
	if got.Verify(oldValue) {
		t.Fatal("old secret still verifies after update")
	}
	if !got.Verify(token.Value) {
		t.Fatal("new secret does not verify after update")
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	p, _ := newTestProvider(t)
	ctx := context.Background()

	token, err := remember.NewToken("user-1", "web", time.Hour)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if err := p.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	if err := p.DeleteTokenBySeries(ctx, token.Series); err != nil {
		t.Fatalf("DeleteTokenBySeries failed: %v", err)
	}
	got, err := p.GetTokenBySeries(ctx, token.Series)
	if err != nil || got != nil {
		t.Fatalf("row survived delete: (%v, %v)", got, err)
	}

	// Deleting again must stay a no-op.
	if err := p.DeleteTokenBySeries(ctx, token.Series); err != nil {
		t.Fatalf("repeat delete failed: %v", err)
	}
}

func TestRedisExpiryFollowsToken(t *testing.T) {
	p, mr := newTestProvider(t)
	ctx := context.Background()

	token, err := remember.NewToken("user-1", "web", time.Minute)
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	if err := p.CreateToken(ctx, token); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := p.GetTokenBySeries(ctx, token.Series)
	if err != nil {
		t.Fatalf("GetTokenBySeries failed: %v", err)
	}
	if got != nil {
		t.Fatal("token survived past its Redis expiry")
	}
}
