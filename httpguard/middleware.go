package httpguard

import (
	"net/http"

	"github.com/guardkit/guardkit"
)

// GuardFunc builds the request's guard from its HTTP primitives. The
// application owns session loading; this package only wires cookies.
type GuardFunc func(w http.ResponseWriter, r *http.Request) (*guardkit.SessionGuard, error)

// RequireAuth is middleware that rejects unauthenticated requests with 401.
// Authentication misses become 401; configuration and backend errors become
// 500, never a silent 401.
func RequireAuth(guardFor GuardFunc, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guard, err := guardFor(w, r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ok, err := guard.Check(r.Context())
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestState assembles the guard collaborators for one request: the given
// session plus encrypted cookie adapters over the request and response.
func RequestState(w http.ResponseWriter, r *http.Request, session guardkit.Session, codec *Codec) guardkit.RequestState {
	return guardkit.RequestState{
		Session:  session,
		Cookies:  NewRequestCookies(r, codec),
		Response: NewResponseCookies(w, codec),
	}
}
