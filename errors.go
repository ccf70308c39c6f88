package guardkit

import "errors"

var (
	// ErrInvalidAuthSession is returned by Authenticate when neither the
	// session nor a presented remember-me token establishes a principal.
	// It is deliberately undifferentiated: a missing session user, a stale
	// account, a malformed cookie, an unknown series, a digest mismatch, a
	// guard-scope mismatch, and an expired token all surface identically so
	// the failure cause cannot be used as an oracle.
	ErrInvalidAuthSession = errors.New("invalid auth session")
	// ErrInvalidAuthToken is returned when a presented token is structurally
	// valid but rejected. Check treats it like ErrInvalidAuthSession.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrInvalidCredentials is returned by VerifyCredentials and Attempt when
	// the uid/password pair does not resolve to a principal.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenProviderRequired is returned when a remember-me operation runs
	// without a registered token provider. This is a configuration error, not
	// an authentication failure: Check never converts it to false.
	ErrTokenProviderRequired = errors.New("remember me token provider not registered")
	// ErrGuardNotReady is returned when a guard is used without its required
	// request-scoped collaborators.
	ErrGuardNotReady = errors.New("guard not initialized")
)
