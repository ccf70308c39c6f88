// Package gormtoken persists remember-me token rows through GORM, one row
// per series in the remember_me_tokens table. It works with any GORM
// dialect; the shipped default is Postgres.
//
// The digest is stored base64url-encoded in a text column. The plaintext
// secret is never written.
//
// Architecture boundaries:
//   - Implements guardkit.TokenProvider only.
//   - An unknown series is (nil, nil), never an error. Database failures
//     propagate unchanged.
package gormtoken
