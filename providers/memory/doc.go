// Package memory provides in-process implementations of the guardkit
// provider contracts: a UserProvider backed by a map with bcrypt password
// verification, and a TokenProvider backed by a map of token rows.
//
// Both are intended for tests and small single-process deployments. The
// token provider additionally counts provider calls so tests can assert the
// guard's at-most-once behavior.
//
// Architecture boundaries:
//   - Implements contracts only. Nothing here knows about sessions,
//     cookies, or the authentication algorithm.
//   - Stored tokens never retain the plaintext secret; only the digest is
//     kept, and returned copies never carry a Value.
package memory
