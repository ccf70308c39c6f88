package httpguard

import (
	"net/http"

	"github.com/guardkit/guardkit"
)

// RequestCookies reads encrypted cookies from an incoming request. It
// implements guardkit.CookieSource.
type RequestCookies struct {
	req   *http.Request
	codec *Codec
}

// NewRequestCookies wraps a request for encrypted cookie reads.
func NewRequestCookies(r *http.Request, codec *Codec) *RequestCookies {
	return &RequestCookies{req: r, codec: codec}
}

// EncryptedCookie returns the decrypted value of the named cookie. A
// missing, tampered, or undecryptable cookie is a miss.
func (rc *RequestCookies) EncryptedCookie(name string) (string, bool) {
	cookie, err := rc.req.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return rc.codec.Open(name, cookie.Value)
}

// ResponseCookies writes encrypted cookies to an outgoing response. It
// implements guardkit.CookieSink.
type ResponseCookies struct {
	w     http.ResponseWriter
	codec *Codec

	// Secure marks issued cookies as HTTPS-only. On by default; turn off
	// only for local plain-HTTP development.
	Secure bool
}

// NewResponseCookies wraps a response writer for encrypted cookie writes.
func NewResponseCookies(w http.ResponseWriter, codec *Codec) *ResponseCookies {
	return &ResponseCookies{w: w, codec: codec, Secure: true}
}

// SetEncryptedCookie seals the value and issues the cookie. A sealing
// failure drops the cookie silently; the request itself must not fail
// because a cookie could not be issued.
func (rc *ResponseCookies) SetEncryptedCookie(name, value string, opts guardkit.CookieOptions) {
	sealed, err := rc.codec.Seal(name, value)
	if err != nil {
		return
	}

	http.SetCookie(rc.w, &http.Cookie{
		Name:     name,
		Value:    sealed,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: opts.HTTPOnly,
		Secure:   rc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie issues an expired cookie under the given name.
func (rc *ResponseCookies) ClearCookie(name string) {
	http.SetCookie(rc.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
