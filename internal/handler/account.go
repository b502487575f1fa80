package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/config"
	mw "github.com/eseegm97/cse340-site-development/internal/middleware"
	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/utils"
	"github.com/eseegm97/cse340-site-development/internal/validate"
)

// AccountHandler bundles dependencies for the account endpoints: the
// credential store, the caller's reviews for the management view, and the
// config that carries the signing secret and bcrypt cost.
type AccountHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Reviews  ReviewStore
}

func NewAccountHandler(cfg config.Config, a AccountStore, r ReviewStore) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Accounts: a, Reviews: r}
}

// accountPart is the account shape returned to clients. There is no field
// for the password hash on purpose.
type accountPart struct {
	ID        uint64 `json:"account_id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func toAccountPart(a repository.Account) accountPart {
	return accountPart{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, Email: a.Email, Role: a.Role}
}

// BuildLogin delivers the login view data.
func (h *AccountHandler) BuildLogin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Login",
		"notice": mw.ConsumeFlash(c),
	})
}

// BuildRegister delivers the registration view data.
func (h *AccountHandler) BuildRegister(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Register",
		"notice": mw.ConsumeFlash(c),
	})
}

// Register handles POST /account/register: run the registration rule set,
// check email uniqueness, hash and insert, then send the caller to the
// login view. The account always starts with the client role; privilege is
// granted out of band.
func (h *AccountHandler) Register(c echo.Context) error {
	var form validate.RegistrationForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	password := form.Password
	outcome := validate.Registration(&form)
	form.Password = "" // never echo the password back

	ctx, cancel := reqContext(c)
	defer cancel()

	if outcome.OK() {
		inUse, err := h.Accounts.EmailInUse(ctx, form.Email, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if inUse {
			outcome.Add("email", "Email already exists. Please log in or use a different email.")
		}
	}
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	id, err := h.Accounts.Create(ctx, form.FirstName, form.LastName, form.Email, password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a race with a concurrent registration; same outcome as
			// the uniqueness rule.
			outcome.Add("email", "Email already exists. Please log in or use a different email.")
			return invalid(c, outcome, form)
		}
		mw.SetFlash(c, "Sorry, the registration failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the registration failed."})
	}

	mw.SetFlash(c, "Congratulations, you're registered "+form.FirstName+". Please log in.")
	return c.JSON(http.StatusCreated, echo.Map{
		"notice":     "Congratulations, you're registered " + form.FirstName + ". Please log in.",
		"account_id": id,
	})
}

// Login handles POST /account/login: verify credentials through the
// credential store and mint a fresh session token into the cookie. Unknown
// email and wrong password produce the same generic notice, and no cookie
// is set on failure.
func (h *AccountHandler) Login(c echo.Context) error {
	var form validate.LoginForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	password := form.Password
	outcome := validate.Login(&form)
	form.Password = ""
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	account, err := h.Accounts.Authenticate(ctx, form.Email, password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"notice": "Please check your credentials and try again.",
				"form":   form,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.setSession(c, account); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/account/")
}

// Logout clears the session cookie. The token itself stays valid until its
// expiry — there is no server-side revocation list.
func (h *AccountHandler) Logout(c echo.Context) error {
	mw.ClearSessionCookie(c, !h.Cfg.IsDev())
	return c.Redirect(http.StatusSeeOther, "/")
}

// Management handles GET /account/: the landing view after login, showing
// the caller's identity and their reviews plus any pending notice.
func (h *AccountHandler) Management(c echo.Context) error {
	claims := mw.ClaimsFrom(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	reviews, err := h.Reviews.ListByAccount(ctx, claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":  "Account Management",
		"notice": mw.ConsumeFlash(c),
		"account": accountPart{
			ID:        claims.AccountID,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Email:     claims.Email,
			Role:      claims.Role,
		},
		"reviews": reviews,
	})
}

// MyReviews handles GET /account/reviews: every review the caller has
// written, each carrying the vehicle's year, make and model.
func (h *AccountHandler) MyReviews(c echo.Context) error {
	claims := mw.ClaimsFrom(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	reviews, err := h.Reviews.ListByAccount(ctx, claims.AccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":   "My Reviews",
		"reviews": reviews,
	})
}

// BuildUpdate handles GET /account/update/:accountId and returns the
// current field values to populate the update form. Callers may only open
// their own account; admins may open any.
func (h *AccountHandler) BuildUpdate(c echo.Context) error {
	claims := mw.ClaimsFrom(c)
	id, err := strconv.ParseUint(c.Param("accountId"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if id != claims.AccountID && claims.Role != repository.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	account, err := h.Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"title":   "Update Account Information",
		"account": toAccountPart(account),
	})
}

// UpdateAccount handles POST /account/update-account: validate identity
// fields, confirm the target is the caller's own account, write the single
// row, then re-mint the session token so the cached claims match the new
// values.
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	claims := mw.ClaimsFrom(c)
	var form validate.AccountUpdateForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome := validate.AccountUpdate(&form)
	if !outcome.OK() {
		return invalid(c, outcome, form)
	}
	if form.ParsedAccountID != claims.AccountID && claims.Role != repository.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	inUse, err := h.Accounts.EmailInUse(ctx, form.Email, form.ParsedAccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if inUse {
		outcome.Add("email", "Email already belongs to another account.")
		return invalid(c, outcome, form)
	}

	if err := h.Accounts.UpdateProfile(ctx, form.ParsedAccountID, form.FirstName, form.LastName, form.Email); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			outcome.Add("email", "Email already belongs to another account.")
			return invalid(c, outcome, form)
		}
		mw.SetFlash(c, "Sorry, the account update failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the account update failed."})
	}

	account, err := h.Accounts.GetByID(ctx, form.ParsedAccountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	// Refresh the cookie only when the caller edited themselves; an admin
	// editing someone else keeps their own session.
	if account.ID == claims.AccountID {
		if err := h.setSession(c, account); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
		}
	}

	mw.SetFlash(c, "Account information has been successfully updated.")
	return c.JSON(http.StatusOK, echo.Map{
		"notice":  "Account information has been successfully updated.",
		"account": toAccountPart(account),
	})
}

// UpdatePassword handles POST /account/update-password: enforce the
// password policy, hash, write the single row, and re-mint the session.
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	claims := mw.ClaimsFrom(c)
	var form struct {
		Password  string `json:"password" form:"password"`
		AccountID string `json:"account_id" form:"account_id"`
	}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	outcome, accountID := validate.PasswordChange(form.Password, form.AccountID)
	if !outcome.OK() {
		return invalid(c, outcome, echo.Map{"account_id": form.AccountID})
	}
	if accountID != claims.AccountID && claims.Role != repository.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Accounts.UpdatePassword(ctx, accountID, form.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		mw.SetFlash(c, "Sorry, the password update failed.")
		return c.JSON(http.StatusNotImplemented, echo.Map{"notice": "Sorry, the password update failed."})
	}

	if accountID == claims.AccountID {
		account, err := h.Accounts.GetByID(ctx, accountID)
		if err == nil {
			_ = h.setSession(c, account)
		}
	}

	mw.SetFlash(c, "Password has been successfully updated.")
	return c.JSON(http.StatusOK, echo.Map{"notice": "Password has been successfully updated."})
}

// setSession issues a fresh token for the account and overwrites the
// cookie, keeping cookie max-age and token expiry in lockstep.
func (h *AccountHandler) setSession(c echo.Context, a repository.Account) error {
	tok, err := utils.IssueSessionToken(h.Cfg.JWTSecret, a.ID, a.FirstName, a.LastName, a.Email, a.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return err
	}
	mw.SetSessionCookie(c, tok, !h.Cfg.IsDev())
	return nil
}
