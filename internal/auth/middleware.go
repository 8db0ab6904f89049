package auth

import (
	"context"
	"net/http"
)

// LoginPath is where unauthenticated requests are redirected.
const LoginPath = "/login"

type contextKey struct{}

// bindingKey stashes the validated session binding in the request context.
var bindingKey contextKey

// RequireSession returns middleware that admits only requests carrying a
// valid session cookie. The resolved binding is attached to the request
// context; everything else is redirected to the login page and the wrapped
// handler never runs.
func (sm *SessionManager) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if binding, ok := sm.Validate(cookie.Value); ok {
				next(w, r.WithContext(context.WithValue(r.Context(), bindingKey, binding)))
				return
			}
		}

		http.Redirect(w, r, LoginPath, http.StatusFound)
	}
}

// BindingFromContext returns the session binding attached by RequireSession,
// if any.
func BindingFromContext(ctx context.Context) (Binding, bool) {
	binding, ok := ctx.Value(bindingKey).(Binding)
	return binding, ok
}
