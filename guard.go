package guardkit

import (
	"context"
	"errors"
	"time"

	"github.com/guardkit/guardkit/remember"
)

const (
	sessionKeyPrefix = "auth_"
	cookieNamePrefix = "remember_"
)

// SessionGuard establishes whether a principal is logged in for one request.
// Instances are created per request via [Guardian.Guard] and are not safe for
// use across requests: the state flags below are request-scoped.
type SessionGuard struct {
	name     string
	guardian *Guardian
	session  Session
	cookies  CookieSource
	response CookieSink

	attempted     bool
	authenticated bool
	loggedOut     bool
	viaRemember   bool
	user          ProviderUser
	authErr       error
}

// Name returns the guard's identity, used to namespace its session key and
// cookie name.
func (sg *SessionGuard) Name() string {
	return sg.name
}

// User returns the resolved principal, or nil before a successful
// Authenticate or Login.
func (sg *SessionGuard) User() ProviderUser {
	return sg.user
}

// IsAuthenticated reports whether a principal has been established.
func (sg *SessionGuard) IsAuthenticated() bool {
	return sg.authenticated
}

// ViaRemember reports whether authentication was satisfied by a remember-me
// token rather than the session.
func (sg *SessionGuard) ViaRemember() bool {
	return sg.viaRemember
}

// AuthenticationAttempted reports whether Authenticate has run.
func (sg *SessionGuard) AuthenticationAttempted() bool {
	return sg.attempted
}

// IsLoggedOut reports whether Logout has run on this guard.
func (sg *SessionGuard) IsLoggedOut() bool {
	return sg.loggedOut
}

// Session returns the request's session collaborator, so callers can
// persist it after the guard has run.
func (sg *SessionGuard) Session() Session {
	return sg.session
}

func (sg *SessionGuard) sessionKey() string {
	return sessionKeyPrefix + sg.name
}

func (sg *SessionGuard) cookieName() string {
	return cookieNamePrefix + sg.name
}

func (sg *SessionGuard) sessionID() string {
	if sg.session == nil {
		return ""
	}
	return sg.session.SessionID()
}

// Authenticate resolves the request's principal: first from the session,
// then from a presented remember-me cookie. It runs at most once per guard
// instance; repeat calls replay the cached outcome without touching the
// providers again.
//
// Every remember-me rejection (missing cookie, unregistered provider,
// decode failure, unknown series, digest mismatch, guard-scope mismatch,
// expiry, stale user) returns the same [ErrInvalidAuthSession].
func (sg *SessionGuard) Authenticate(ctx context.Context) (ProviderUser, error) {
	if sg.attempted {
		if sg.authErr != nil {
			return nil, sg.authErr
		}
		return sg.user, nil
	}
	if sg.guardian == nil || sg.session == nil {
		return nil, ErrGuardNotReady
	}

	sg.attempted = true
	g := sg.guardian
	g.emitAudit(ctx, sg.name, eventAuthenticationAttempted, true, "", sg.sessionID(), "", nil, nil)

	if id, ok := sg.session.Get(sg.sessionKey()); ok {
		return sg.authenticateViaSession(ctx, id)
	}
	return sg.authenticateViaRemember(ctx)
}

func (sg *SessionGuard) authenticateViaSession(ctx context.Context, id string) (ProviderUser, error) {
	g := sg.guardian

	user, err := g.userProvider.FindByID(ctx, id)
	if err != nil {
		sg.authErr = err
		return nil, err
	}
	if user == nil {
		return nil, sg.failAuthentication(ctx, id, "", "stale_session_user")
	}

	sg.user = user
	sg.authenticated = true
	sg.viaRemember = false
	g.metricInc(MetricAuthSuccess)
	g.emitAudit(ctx, sg.name, eventAuthenticationSucceeded, true, id, sg.sessionID(), "", nil, func() map[string]string {
		return map[string]string{"via_remember": "false"}
	})
	return user, nil
}

func (sg *SessionGuard) authenticateViaRemember(ctx context.Context) (ProviderUser, error) {
	g := sg.guardian

	if sg.cookies == nil {
		return nil, sg.failAuthentication(ctx, "", "", "no_cookie_source")
	}
	cookie, ok := sg.cookies.EncryptedCookie(sg.cookieName())
	if !ok || cookie == "" {
		return nil, sg.failAuthentication(ctx, "", "", "no_remember_cookie")
	}
	if g.tokenProvider == nil {
		// An application may disable remember-me after having issued cookies;
		// an unusable cookie is an authentication miss, never a crash.
		return nil, sg.failAuthentication(ctx, "", "", "token_provider_missing")
	}

	series, value, ok := remember.Decode(cookie)
	if !ok {
		return nil, sg.failAuthentication(ctx, "", "", "cookie_decode_failed")
	}

	token, err := g.tokenProvider.GetTokenBySeries(ctx, series)
	if err != nil {
		sg.authErr = err
		return nil, err
	}

	now := time.Now()
	switch {
	case token == nil:
		return nil, sg.failAuthentication(ctx, "", series, "token_not_found")
	case !token.Verify(value):
		return nil, sg.failAuthentication(ctx, "", series, "token_digest_mismatch")
	case token.GuardName != sg.name:
		return nil, sg.failAuthentication(ctx, "", series, "token_guard_mismatch")
	case token.Expired(now):
		return nil, sg.failAuthentication(ctx, "", series, "token_expired")
	}

	user, err := g.userProvider.FindByID(ctx, token.UserID)
	if err != nil {
		sg.authErr = err
		return nil, err
	}
	if user == nil {
		return nil, sg.failAuthentication(ctx, token.UserID, series, "stale_token_user")
	}

	// Cycling the session id here defends against fixation: the pre-login
	// session identifier never becomes an authenticated one.
	sg.session.Put(sg.sessionKey(), user.GetID())
	if err := sg.session.Regenerate(); err != nil {
		sg.authErr = err
		return nil, err
	}

	sg.user = user
	sg.authenticated = true
	sg.viaRemember = true
	g.metricInc(MetricAuthSuccess)
	g.metricInc(MetricAuthViaRemember)
	g.emitAudit(ctx, sg.name, eventAuthenticationSucceeded, true, user.GetID(), sg.sessionID(), series, nil, func() map[string]string {
		return map[string]string{"via_remember": "true"}
	})

	if err := sg.recycleToken(ctx, token, value, now); err != nil {
		sg.user = nil
		sg.authenticated = false
		sg.viaRemember = false
		sg.authErr = err
		return nil, err
	}

	return user, nil
}

// recycleToken applies the rotation policy after a successful remember-me
// authentication. Within the grace window the stored secret is left untouched
// and the presented cookie is re-issued as-is (fresh max-age only), so
// concurrent requests holding the same token cannot invalidate each other by
// racing to mint distinct secrets. Only a request past the window rotates.
func (sg *SessionGuard) recycleToken(ctx context.Context, token *remember.Token, presentedValue string, now time.Time) error {
	g := sg.guardian

	cookieValue := remember.Encode(token.Series, presentedValue)
	if now.Sub(token.UpdatedAt) > g.config.Remember.RotationGrace {
		if err := token.Refresh(g.tokenAge); err != nil {
			return err
		}
		if err := g.tokenProvider.UpdateTokenBySeries(ctx, token.Series, token); err != nil {
			return err
		}
		cookieValue = token.Encode()
		g.metricInc(MetricTokenRotated)
		g.emitAudit(ctx, sg.name, eventRememberTokenRotated, true, token.UserID, sg.sessionID(), token.Series, nil, nil)
	}

	sg.setRememberCookie(cookieValue)
	return nil
}

func (sg *SessionGuard) setRememberCookie(value string) {
	if sg.response == nil {
		return
	}
	sg.response.SetEncryptedCookie(sg.cookieName(), value, CookieOptions{
		MaxAge:   sg.guardian.tokenAge,
		HTTPOnly: sg.guardian.config.Cookie.HTTPOnly,
	})
}

func (sg *SessionGuard) failAuthentication(ctx context.Context, userID, series, reason string) error {
	sg.authErr = ErrInvalidAuthSession
	sg.guardian.metricInc(MetricAuthFailure)
	// The reason is observability-only metadata; callers always see the same
	// undifferentiated error.
	sg.guardian.emitAudit(ctx, sg.name, eventAuthenticationFailed, false, userID, sg.sessionID(), series, ErrInvalidAuthSession, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	return sg.authErr
}

// Check reports whether the request is authenticated. Authentication
// failures ([ErrInvalidAuthSession], [ErrInvalidAuthToken]) become false;
// configuration and provider errors propagate unchanged.
func (sg *SessionGuard) Check(ctx context.Context) (bool, error) {
	_, err := sg.Authenticate(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrInvalidAuthSession), errors.Is(err, ErrInvalidAuthToken):
		return false, nil
	default:
		return false, err
	}
}

// Login establishes an authenticated session for the given application user.
// With remember=true it additionally mints and persists a remember-me token
// and sets the cookie; otherwise any stale remember-me cookie is cleared.
//
// Remember-login without a registered token provider fails with
// [ErrTokenProviderRequired]: that is a deployment misconfiguration and is
// never converted to an authentication miss.
func (sg *SessionGuard) Login(ctx context.Context, user any, rememberMe bool) (ProviderUser, error) {
	if sg.guardian == nil || sg.session == nil {
		return nil, ErrGuardNotReady
	}
	g := sg.guardian
	g.emitAudit(ctx, sg.name, eventLoginAttempted, true, "", sg.sessionID(), "", nil, nil)

	pu, err := g.userProvider.CreateUserForGuard(ctx, user)
	if err != nil {
		sg.emitLoginFailed(ctx, "", err, "create_user_for_guard")
		return nil, err
	}
	id := pu.GetID()

	// Token work happens before the session is touched: a failed
	// remember-login must not leave an authenticated session behind.
	var token *remember.Token
	if rememberMe {
		if g.tokenProvider == nil {
			sg.emitLoginFailed(ctx, id, ErrTokenProviderRequired, "token_provider_missing")
			return nil, ErrTokenProviderRequired
		}
		token, err = remember.NewToken(id, sg.name, g.tokenAge)
		if err != nil {
			sg.emitLoginFailed(ctx, id, err, "token_generation")
			return nil, err
		}
		if err := g.tokenProvider.CreateToken(ctx, token); err != nil {
			sg.emitLoginFailed(ctx, id, err, "token_persist")
			return nil, err
		}
	}

	sg.session.Put(sg.sessionKey(), id)
	if err := sg.session.Regenerate(); err != nil {
		sg.emitLoginFailed(ctx, id, err, "session_regenerate")
		return nil, err
	}

	if token != nil {
		sg.setRememberCookie(token.Encode())
		g.metricInc(MetricTokenIssued)
	} else if sg.response != nil {
		sg.response.ClearCookie(sg.cookieName())
	}

	sg.user = pu
	sg.attempted = true
	sg.authenticated = true
	sg.viaRemember = false
	sg.loggedOut = false
	sg.authErr = nil

	g.metricInc(MetricLoginSuccess)
	g.emitAudit(ctx, sg.name, eventLoginSucceeded, true, id, sg.sessionID(), seriesOf(token), nil, nil)

	return pu, nil
}

// LoginViaID resolves a principal by id and logs it in.
func (sg *SessionGuard) LoginViaID(ctx context.Context, id string, rememberMe bool) (ProviderUser, error) {
	if sg.guardian == nil {
		return nil, ErrGuardNotReady
	}

	user, err := sg.guardian.userProvider.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		sg.emitLoginFailed(ctx, id, ErrInvalidCredentials, "user_not_found")
		return nil, ErrInvalidCredentials
	}

	return sg.Login(ctx, user.GetOriginal(), rememberMe)
}

// VerifyCredentials checks a uid/password pair against the user provider
// without mutating any session state.
func (sg *SessionGuard) VerifyCredentials(ctx context.Context, uid, password string) (ProviderUser, error) {
	if sg.guardian == nil {
		return nil, ErrGuardNotReady
	}
	g := sg.guardian

	if uid == "" || password == "" {
		sg.emitLoginFailed(ctx, "", ErrInvalidCredentials, "empty_credentials")
		return nil, ErrInvalidCredentials
	}

	user, err := g.userProvider.VerifyCredentials(ctx, uid, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		sg.emitLoginFailed(ctx, "", ErrInvalidCredentials, "credentials_mismatch")
		return nil, ErrInvalidCredentials
	}

	g.emitAudit(ctx, sg.name, eventCredentialsVerified, true, user.GetID(), sg.sessionID(), "", nil, nil)
	return user, nil
}

// Attempt verifies credentials and, on success, logs the user in.
func (sg *SessionGuard) Attempt(ctx context.Context, uid, password string, rememberMe bool) (ProviderUser, error) {
	user, err := sg.VerifyCredentials(ctx, uid, password)
	if err != nil {
		return nil, err
	}
	return sg.Login(ctx, user.GetOriginal(), rememberMe)
}

// Logout clears the session key and the remember-me cookie. When the request
// carried a decodable remember-me cookie, the persisted token row is deleted
// as well; an undecodable cookie is ignored, since the goal here is cleanup,
// not validation.
func (sg *SessionGuard) Logout(ctx context.Context) error {
	if sg.guardian == nil || sg.session == nil {
		return ErrGuardNotReady
	}
	g := sg.guardian

	sg.session.Forget(sg.sessionKey())
	if sg.response != nil {
		sg.response.ClearCookie(sg.cookieName())
	}

	var series string
	if sg.cookies != nil && g.tokenProvider != nil {
		if cookie, ok := sg.cookies.EncryptedCookie(sg.cookieName()); ok {
			if s, _, ok := remember.Decode(cookie); ok {
				if err := g.tokenProvider.DeleteTokenBySeries(ctx, s); err != nil {
					return err
				}
				series = s
			}
		}
	}

	userID := ""
	if sg.user != nil {
		userID = sg.user.GetID()
	}

	sg.user = nil
	sg.authenticated = false
	sg.viaRemember = false
	sg.loggedOut = true

	g.metricInc(MetricLogout)
	g.emitAudit(ctx, sg.name, eventLoggedOut, true, userID, sg.sessionID(), series, nil, nil)
	return nil
}

// AuthenticateAsClient builds the minimal session state that represents the
// given user as logged in on this guard. It performs no session or cookie
// I/O; test clients inject the returned key/value pair themselves.
func (sg *SessionGuard) AuthenticateAsClient(ctx context.Context, user any) (ClientSession, error) {
	if sg.guardian == nil {
		return ClientSession{}, ErrGuardNotReady
	}

	pu, err := sg.guardian.userProvider.CreateUserForGuard(ctx, user)
	if err != nil {
		return ClientSession{}, err
	}

	return ClientSession{Key: sg.sessionKey(), Value: pu.GetID()}, nil
}

func (sg *SessionGuard) emitLoginFailed(ctx context.Context, userID string, err error, reason string) {
	sg.guardian.metricInc(MetricLoginFailure)
	sg.guardian.emitAudit(ctx, sg.name, eventLoginFailed, false, userID, sg.sessionID(), "", err, func() map[string]string {
		return map[string]string{"reason": reason}
	})
}

func seriesOf(token *remember.Token) string {
	if token == nil {
		return ""
	}
	return token.Series
}
