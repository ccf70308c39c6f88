// Package redissession is a Redis-backed session layer for guardkit. A
// [Store] loads sessions into memory as Redis hashes; the returned [Session]
// mutates locally and persists on Save, so a request performs at most two
// round trips regardless of how many values the guard touches.
//
// Regenerate retires the current id locally; Save deletes the retired keys
// and writes the values under the new id in one transaction, so the old
// authenticated id never survives a login.
//
// Key layout: <prefix><session id> (default prefix "gss:").
package redissession
