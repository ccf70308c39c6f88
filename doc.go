// Package guardkit provides a session-based authentication guard with an
// optional remember-me token subsystem: server-side session lookup, a
// split series/value persistent-cookie fallback, and the login, logout, and
// token rotation lifecycle around them.
//
// The package is designed for concurrent server workloads: a [Guardian] is
// built once through [Builder.Build] and is safe to share across goroutines;
// each inbound request gets its own [SessionGuard] via [Guardian.Guard].
//
// # Architecture boundaries
//
// guardkit is the public surface. It exposes [Guardian], [Builder], [Config],
// [SessionGuard], and the collaborator contracts ([UserProvider],
// [TokenProvider], [Session], cookie interfaces). Token structure and the
// series/value codec live in the remember sub-package; event dispatch lives
// under internal/ and is never exported directly.
//
// # What this package must NOT do
//
//   - Implement session storage, cookie encryption, or user persistence.
//     Those are injected collaborators (reference implementations live under
//     providers/ and sessions/).
//   - Hold authentication state beyond a single request: a [SessionGuard]
//     lives exactly as long as the request it was created for.
//   - Distinguish remember-me failure causes to callers. Every token lookup,
//     digest, guard-scope, and expiry failure surfaces as the same
//     [ErrInvalidAuthSession].
package guardkit
