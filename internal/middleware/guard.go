package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/repository"
)

// LoginPath is where anonymous callers are sent when they hit a route that
// requires authentication.
const LoginPath = "/account/login"

// RequireLogin rejects anonymous callers with a redirect to the login view.
// Authenticated callers pass through regardless of role.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ClaimsFrom(c) == nil {
			SetFlash(c, "Please log in.")
			return c.Redirect(http.StatusSeeOther, LoginPath)
		}
		return next(c)
	}
}

// RequireRole returns middleware that enforces an elevated privilege tier.
// Anonymous callers are redirected to login exactly like RequireLogin — a
// missing session is an authentication problem, not an authorization one.
// An authenticated caller whose role is not in the allowed set gets a 403
// with a generic message that reveals nothing about the resource or the
// role it would take to reach it.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if claims == nil {
				SetFlash(c, "Please log in.")
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			if !allowed[claims.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}

// RequireStaff gates the inventory management routes: employee and admin
// only.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(repository.RoleEmployee, repository.RoleAdmin)(next)
}
