// Package redistoken persists remember-me token rows in Redis as hashes,
// one per series, with a Redis-side expiry matching the token's ExpiresAt.
//
// Key layout: <prefix><series> (default prefix "grt:"). Fields mirror the
// token row: hash, user_id, guard_name, type, created_at, updated_at,
// expires_at. The plaintext secret is never written.
//
// Architecture boundaries:
//   - Implements guardkit.TokenProvider only. No knowledge of cookies,
//     sessions, or rotation policy.
//   - An unknown series is (nil, nil), never an error. Errors mean Redis
//     itself failed and wrap [ErrRedisUnavailable].
package redistoken
