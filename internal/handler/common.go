package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/queue"
	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/validate"
)

// Handlers depend on narrow store interfaces rather than the concrete
// repositories so tests can substitute in-memory fakes. The repository
// types satisfy these at compile time (see assertions at the bottom).

// AccountStore is the credential store boundary. Note there is no way to
// read a password hash through it.
type AccountStore interface {
	Create(ctx context.Context, firstName, lastName, email, password string, cost int) (uint64, error)
	Authenticate(ctx context.Context, email, password string) (repository.Account, error)
	GetByID(ctx context.Context, id uint64) (repository.Account, error)
	EmailInUse(ctx context.Context, email string, excludeID uint64) (bool, error)
	UpdateProfile(ctx context.Context, id uint64, firstName, lastName, email string) error
	UpdatePassword(ctx context.Context, id uint64, password string, cost int) error
}

// ClassificationStore backs the classification endpoints.
type ClassificationStore interface {
	Create(ctx context.Context, name string) (uint64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	GetByID(ctx context.Context, id uint64) (repository.Classification, error)
	List(ctx context.Context) ([]repository.Classification, error)
}

// InventoryStore backs the vehicle endpoints.
type InventoryStore interface {
	Create(ctx context.Context, v *repository.Vehicle) (uint64, error)
	GetByID(ctx context.Context, id uint64) (repository.Vehicle, error)
	ListByClassification(ctx context.Context, classificationID uint64) ([]repository.Vehicle, error)
	Update(ctx context.Context, v *repository.Vehicle) error
	Delete(ctx context.Context, id uint64) error
}

// ReviewStore backs the review endpoints.
type ReviewStore interface {
	Create(ctx context.Context, text string, invID, accountID uint64) (uint64, error)
	GetByID(ctx context.Context, id uint64) (repository.Review, error)
	UpdateText(ctx context.Context, id uint64, text string) error
	Delete(ctx context.Context, id uint64) error
	ListByInventory(ctx context.Context, invID uint64) ([]repository.Review, error)
	ListByAccount(ctx context.Context, accountID uint64) ([]repository.Review, error)
}

// AuditFunc publishes an audit event. Failures are logged by the publisher
// and ignored by handlers; a lost audit line must never fail a request.
type AuditFunc func(ctx context.Context, ev queue.AuditEvent) error

var (
	_ AccountStore        = (*repository.AccountRepo)(nil)
	_ ClassificationStore = (*repository.ClassificationRepo)(nil)
	_ InventoryStore      = (*repository.InventoryRepo)(nil)
	_ ReviewStore         = (*repository.ReviewRepo)(nil)
)

// reqContext bounds a persistence call to the request with a 5s timeout.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// invalid renders a failed validation outcome: HTTP 400, every collected
// violation, and the caller's already-typed values so the form can be
// re-populated without re-entry. Secrets are stripped by the caller before
// the form reaches this point.
func invalid(c echo.Context, outcome validate.Outcome, form any) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"errors": outcome,
		"form":   form,
	})
}
