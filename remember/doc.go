// Package remember implements the split series/value remember-me token
// protocol: generation, cookie encoding/decoding, digest verification, and
// secret rotation.
//
// # Token format
//
// The cookie carries "series.value". The series is a non-secret UUID used as
// the persistence lookup key; the value is a one-time base64url secret shown
// to the client exactly once. Only the SHA-256 digest of the value is ever
// persisted.
//
// # Architecture boundaries
//
// This package owns token structure, codec, and verification. Lookup,
// rotation policy, and cookie transport are handled by the guard and the
// token providers.
//
// # What this package must NOT do
//
//   - Access a database, Redis, or any I/O.
//   - Import the guardkit root package or any provider package.
//   - Decide when a token is rotated.
package remember
