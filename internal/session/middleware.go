package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/ghlookup/internal/lookup"
)

// contextKey is unexported so no other package can read or shadow the value.
type contextKey string

const stateKey contextKey = "session"

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	MaxAge int  // seconds
	Secure bool // set behind HTTPS
}

// Middleware attaches a lookup.State to every request, creating a session
// when the cookie is missing, invalid, or points at an expired session.
//
// REQUEST FLOW:
//  1. Read the cookie and validate its JWT (signature, issuer, expiry).
//  2. Look the session id up in the Store. Get also bumps last-seen.
//  3. Any failure in 1 or 2 means "new visitor": create a fresh session.
//     There is no error page: a stale cookie just starts over with an
//     empty form.
//  4. Re-sign and set the cookie on every response, so an active visitor's
//     cookie expiry slides along with the store's.
//  5. Put the *lookup.State in the request context for the handler.
//
// COOKIE FLAGS:
// HttpOnly keeps scripts away from the token, SameSite=Lax lets the 303
// redirect after POST /lookup carry it, and Secure is configurable because
// local development runs over plain HTTP.
func Middleware(store *Store, tokens *Tokens, cookie CookieConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, st := resolve(r, store, tokens, cookie.Name)
			if st == nil {
				id, st = store.Create()
				logger.Debug("session created", slog.String("session", id))
			}

			signed, err := tokens.Generate(id)
			if err != nil {
				logger.Error("signing session cookie", slog.String("error", err.Error()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cookie.Name,
				Value:    signed,
				Path:     "/",
				MaxAge:   cookie.MaxAge,
				HttpOnly: true,
				Secure:   cookie.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), stateKey, st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve returns the existing session for r, or ("", nil).
func resolve(r *http.Request, store *Store, tokens *Tokens, name string) (string, *lookup.State) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", nil
	}
	id, err := tokens.Validate(c.Value)
	if err != nil {
		return "", nil
	}
	st, err := store.Get(id)
	if err != nil {
		return "", nil
	}
	return id, st
}

// FromContext returns the request's session state.
// It is only absent on routes not wrapped by Middleware.
func FromContext(ctx context.Context) (*lookup.State, bool) {
	st, ok := ctx.Value(stateKey).(*lookup.State)
	return st, ok && st != nil
}

// WithState stores st in ctx. Handlers under test use it to skip Middleware.
func WithState(ctx context.Context, st *lookup.State) context.Context {
	return context.WithValue(ctx, stateKey, st)
}
