// Package router defines how HTTP routes are registered for the site.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/handler"
	mw "github.com/eseegm97/cse340-site-development/internal/middleware"
)

// RegisterRoutes registers routes that carry no auth requirement. Currently
// that is only the health check used by load balancers and monitors.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAccount wires the account endpoints. The login and register pages
// and their POSTs are open; everything else under /account requires a
// logged-in caller. The extra middleware (normally the Redis token bucket)
// is applied to the three POSTs that run bcrypt: login, registration and
// password change.
func RegisterAccount(e *echo.Echo, a *handler.AccountHandler, credentialLimit ...echo.MiddlewareFunc) {
	g := e.Group("/account")

	g.GET("/login", a.BuildLogin)
	g.GET("/register", a.BuildRegister)
	g.POST("/login", a.Login, credentialLimit...)
	g.POST("/register", a.Register, credentialLimit...)
	g.GET("/logout", a.Logout)

	g.GET("/", a.Management, mw.RequireLogin)
	g.GET("/reviews", a.MyReviews, mw.RequireLogin)
	g.GET("/update/:accountId", a.BuildUpdate, mw.RequireLogin)
	g.POST("/update-account", a.UpdateAccount, mw.RequireLogin)
	g.POST("/update-password", a.UpdatePassword,
		append(append([]echo.MiddlewareFunc{}, credentialLimit...), mw.RequireLogin)...)
}

// RegisterInventory wires the vehicle endpoints. Browse routes are public
// and may carry the response cache; the management routes require the
// employee or admin role.
func RegisterInventory(e *echo.Echo, h *handler.InventoryHandler, browseCache ...echo.MiddlewareFunc) {
	g := e.Group("/inv")

	g.GET("/type/:classificationId", h.BuildByClassification, browseCache...)
	g.GET("/detail/:invId", h.BuildDetail, browseCache...)

	staff := g.Group("", mw.RequireStaff)
	staff.GET("/", h.Management)
	staff.GET("/getInventory/:classification_id", h.GetInventoryJSON)
	staff.GET("/add-classification", h.BuildAddClassification)
	staff.POST("/add-classification", h.AddClassification)
	staff.GET("/add-inventory", h.BuildAddInventory)
	staff.POST("/add-inventory", h.AddInventory)
	staff.GET("/edit/:invId", h.BuildEditInventory)
	staff.POST("/update", h.UpdateInventory)
	staff.GET("/delete/:invId", h.BuildDeleteInventory)
	staff.POST("/delete", h.DeleteInventory)

	// Deliberate failure route for exercising the top-level error handler.
	g.GET("/error-test", h.TriggerError)
}

// RegisterReviews wires the review endpoints. Every route requires a
// logged-in caller; ownership of individual reviews is checked inside the
// handlers.
func RegisterReviews(e *echo.Echo, h *handler.ReviewHandler) {
	g := e.Group("/review", mw.RequireLogin)

	g.POST("/add", h.AddReview)
	g.GET("/edit/:reviewId", h.BuildEditReview)
	g.POST("/update", h.UpdateReview)
	g.GET("/delete/:reviewId", h.BuildDeleteReview)
	g.POST("/delete", h.DeleteReview)
}
