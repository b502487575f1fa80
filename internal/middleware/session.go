package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/utils"
)

// SessionCookie is the name of the HTTP-only cookie carrying the signed
// session token.
const SessionCookie = "jwt"

// claimsKey is the echo context key under which resolved session claims are
// stored for downstream handlers.
const claimsKey = "claims"

// Session returns middleware that resolves the caller's identity from the
// session cookie. It runs on every request, before any validation or
// persistence work:
//
//  1. no cookie          -> the caller proceeds as anonymous
//  2. cookie fails verify -> the stored credential is cleared and the
//     caller proceeds as anonymous (expired and forged tokens are treated
//     the same way here; the route guards decide what anonymous may do)
//  3. cookie verifies     -> claims are attached to the request context
//
// The middleware itself never rejects a request; rejection is the job of
// RequireLogin and RequireRole so that public routes stay public.
func Session(secret string, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			claims, err := utils.VerifySessionToken(secret, cookie.Value)
			if err != nil {
				// Stale or damaged credential: drop it so the browser
				// stops resending it, then continue as anonymous.
				ClearSessionCookie(c, secure)
				return next(c)
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// SetSessionCookie overwrites the transport credential with a freshly
// issued token. MaxAge matches the token expiry, and the cookie is marked
// Secure outside development so it only travels over TLS.
func SetSessionCookie(c echo.Context, tok utils.SessionToken, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
	})
}
