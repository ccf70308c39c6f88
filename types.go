package guardkit

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/guardkit/guardkit/internal/audit"
	"github.com/guardkit/guardkit/remember"
)

// ProviderUser is the provider-side adaptation of an application user: the
// shape the guard works with after a principal has been resolved.
type ProviderUser interface {
	// GetID returns the stable identifier stored in sessions and token rows.
	GetID() string
	// GetOriginal returns the underlying application user object.
	GetOriginal() any
}

// UserProvider is the user-lookup collaborator. Lookup methods return
// (nil, nil) when no matching principal exists; errors are reserved for
// provider failures (I/O, backend unavailable), which propagate unchanged.
type UserProvider interface {
	FindByID(ctx context.Context, id string) (ProviderUser, error)
	VerifyCredentials(ctx context.Context, uid, password string) (ProviderUser, error)
	// CreateUserForGuard adapts a raw application user into a ProviderUser,
	// creating the provider-side record if the provider requires one.
	CreateUserForGuard(ctx context.Context, user any) (ProviderUser, error)
}

// TokenProvider is the remember-me token persistence collaborator.
// GetTokenBySeries returns (nil, nil) when the series is unknown. Returned
// tokens never carry a plaintext Value.
type TokenProvider interface {
	CreateToken(ctx context.Context, token *remember.Token) error
	GetTokenBySeries(ctx context.Context, series string) (*remember.Token, error)
	UpdateTokenBySeries(ctx context.Context, series string, token *remember.Token) error
	DeleteTokenBySeries(ctx context.Context, series string) error
}

// Session is the server-side session collaborator for one request. The guard
// treats it as an opaque key/value store keyed by a regenerable session id;
// persistence timing is the implementation's concern.
type Session interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Forget(key string)
	// Regenerate cycles the session identifier while preserving the stored
	// values. Called on every login and remember-me authentication to defeat
	// session fixation.
	Regenerate() error
	SessionID() string
	// All returns a snapshot of the stored values, for debugging and tests.
	All() map[string]string
}

// CookieOptions carries the attributes the guard sets on issued cookies.
// Encryption, signing, domain, and path are the cookie layer's concern.
type CookieOptions struct {
	MaxAge   time.Duration
	HTTPOnly bool
}

// CookieSource is the request side of the cookie collaborator. Implementations
// must decrypt-or-miss: a tampered or undecryptable cookie reports ok=false,
// never an error.
type CookieSource interface {
	EncryptedCookie(name string) (value string, ok bool)
}

// CookieSink is the response side of the cookie collaborator.
type CookieSink interface {
	SetEncryptedCookie(name, value string, opts CookieOptions)
	ClearCookie(name string)
}

// RequestState bundles the per-request collaborators a guard operates on.
type RequestState struct {
	Session  Session
	Cookies  CookieSource
	Response CookieSink
}

// ClientSession is the minimal session state that represents a logged-in
// user, returned by [SessionGuard.AuthenticateAsClient] for test tooling.
type ClientSession struct {
	Key   string
	Value string
}

// AuditEvent is a structured lifecycle event emitted by the guard.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the guard's event dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
