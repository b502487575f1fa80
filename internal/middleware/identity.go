package middleware

// identity.go holds the helpers other packages use to read the resolved
// session claims out of the request context. The rate limiter also uses
// the caller identity as part of its bucket key so that authenticated
// users do not share an anonymous bucket behind one NAT.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/utils"
)

// ClaimsFrom returns the session claims resolved by the Session middleware,
// or nil when the caller is anonymous.
func ClaimsFrom(c echo.Context) *utils.SessionClaims {
	if claims, ok := c.Get(claimsKey).(*utils.SessionClaims); ok {
		return claims
	}
	return nil
}

// RoleFrom returns the caller's role, or RoleAnonymous when no valid
// session is attached.
func RoleFrom(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return claims.Role
	}
	return repository.RoleAnonymous
}

// callerKey renders a stable identity string for the rate-limiter bucket:
// the account id for authenticated callers, "guest" otherwise.
func callerKey(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return strconv.FormatUint(claims.AccountID, 10)
	}
	return "guest"
}
