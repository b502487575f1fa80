package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/utils"
)

const testSecret = "middleware-test-secret-0123456789"

// doSession runs one request through the Session middleware into a handler
// that records the resolved claims.
func doSession(t *testing.T, cookie *http.Cookie) (*httptest.ResponseRecorder, *utils.SessionClaims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *utils.SessionClaims
	h := Session(testSecret, false)(func(c echo.Context) error {
		seen = ClaimsFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, seen
}

func TestSession_NoCookieIsAnonymous(t *testing.T) {
	rec, seen := doSession(t, nil)
	if seen != nil {
		t.Errorf("claims = %+v, want nil", seen)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, request should pass through", rec.Code)
	}
}

func TestSession_ValidCookieAttachesClaims(t *testing.T) {
	tok, err := utils.IssueSessionToken(testSecret, 9, "Nia", "Okafor", "nia@example.com", repository.RoleEmployee, 60)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	_, seen := doSession(t, &http.Cookie{Name: SessionCookie, Value: tok.Token})
	if seen == nil {
		t.Fatal("claims not attached")
	}
	if seen.AccountID != 9 || seen.Role != repository.RoleEmployee {
		t.Errorf("claims = %+v", seen)
	}
}

func TestSession_BadCookieClearedAndAnonymous(t *testing.T) {
	rec, seen := doSession(t, &http.Cookie{Name: SessionCookie, Value: "garbage"})
	if seen != nil {
		t.Errorf("claims = %+v, want nil", seen)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, anonymous request should still pass", rec.Code)
	}
	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == SessionCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("bad session cookie was not cleared")
	}
}

func TestSession_ExpiredCookieIsAnonymous(t *testing.T) {
	tok, err := utils.IssueSessionToken(testSecret, 9, "Nia", "Okafor", "nia@example.com", repository.RoleClient, -1)
	if err != nil {
		t.Fatalf("IssueSessionToken: %v", err)
	}
	_, seen := doSession(t, &http.Cookie{Name: SessionCookie, Value: tok.Token})
	if seen != nil {
		t.Errorf("expired token resolved to claims: %+v", seen)
	}
}

func TestSetAndClearSessionCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	tok, _ := utils.IssueSessionToken(testSecret, 1, "A", "B", "a@b.co", repository.RoleClient, 60)
	SetSessionCookie(c, tok, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != SessionCookie || ck.Value != tok.Token {
		t.Errorf("cookie %q=%q", ck.Name, ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure || ck.Path != "/" {
		t.Errorf("cookie attributes: httponly=%v secure=%v path=%q", ck.HttpOnly, ck.Secure, ck.Path)
	}
	if ck.Expires.Unix() != tok.Exp.Unix() {
		t.Errorf("cookie expires %v, token exp %v", ck.Expires, tok.Exp)
	}
}
