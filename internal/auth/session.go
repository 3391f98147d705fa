package auth

import (
	"net/http"
	"time"
)

const SessionCookie = "restock_admin"

type Sessions struct {
	Tokens *TokenMaker
	Secure bool
}

func (s *Sessions) Start(w http.ResponseWriter, subject string) (Grant, error) {
	tok, g, err := s.Tokens.Issue(subject)
	if err != nil {
		return Grant{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		Expires:  g.ExpiresAt(),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return g, nil
}

func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) Current(r *http.Request) (Grant, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Grant{}, false
	}
	g, err := s.Tokens.Parse(c.Value)
	if err != nil {
		return Grant{}, false
	}
	return g, true
}

// RequireAdmin puts the caller's Grant into the request context, or hands
// anonymous callers to anonymous without calling next.
func (s *Sessions) RequireAdmin(anonymous http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g, ok := s.Current(r)
			if !ok {
				anonymous.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithGrant(r.Context(), g)))
		})
	}
}
