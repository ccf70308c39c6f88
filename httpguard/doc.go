// Package httpguard adapts guardkit's cookie contracts to net/http. Cookie
// values are sealed with AES-GCM under a server-held key, with the cookie
// name bound in as additional authenticated data so a value pasted into a
// different cookie fails to open.
//
// Tampered, truncated, or undecryptable cookies report a miss, never an
// error; attacker-controlled bytes reaching this package are routine, not
// exceptional.
package httpguard
