package middleware

// flash.go implements one-shot notice delivery across redirects. Handlers
// set a notice before redirecting; the landing view consumes it exactly
// once. The message travels in a short-lived cookie because the server
// keeps no per-session state. Rendering of the notice is the template
// layer's concern and out of scope here.

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

const flashCookie = "flash"

// SetFlash stores a one-shot notice for the next rendered view.
func SetFlash(c echo.Context, message string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
}

// ConsumeFlash returns the pending notice, if any, and clears it so it is
// shown at most once.
func ConsumeFlash(c echo.Context) string {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
