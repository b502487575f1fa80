package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/eseegm97/cse340-site-development/internal/queue"
	"github.com/eseegm97/cse340-site-development/internal/repository"
	"github.com/eseegm97/cse340-site-development/internal/utils"
)

// In-memory stand-ins for the repository layer. They keep the same error
// contracts as the real repositories so handler behavior can be exercised
// without a database.

type fakeAccounts struct {
	mu      sync.Mutex
	nextID  uint64
	byID    map[uint64]repository.Account
	hashes  map[uint64]string
	failAll bool
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[uint64]repository.Account{}, hashes: map[uint64]string{}}
}

var errStoreDown = errors.New("store unavailable")

func (f *fakeAccounts) Create(_ context.Context, firstName, lastName, email, password string, _ int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errStoreDown
	}
	for _, a := range f.byID {
		if a.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	f.byID[f.nextID] = repository.Account{
		ID: f.nextID, FirstName: firstName, LastName: lastName,
		Email: email, Role: repository.RoleClient,
	}
	f.hashes[f.nextID] = hash
	return f.nextID, nil
}

func (f *fakeAccounts) Authenticate(_ context.Context, email, password string) (repository.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.Email == email {
			if utils.VerifyPassword(f.hashes[id], password) {
				return a, nil
			}
			break
		}
	}
	return repository.Account{}, repository.ErrInvalidCredentials
}

func (f *fakeAccounts) GetByID(_ context.Context, id uint64) (repository.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.Account{}, repository.ErrNotFound
	}
	return a, nil
}

func (f *fakeAccounts) EmailInUse(_ context.Context, email string, excludeID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.byID {
		if a.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id uint64, firstName, lastName, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.FirstName, a.LastName, a.Email = firstName, lastName, email
	f.byID[id] = a
	return nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id uint64, password string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return err
	}
	f.hashes[id] = hash
	return nil
}

type fakeClassifications struct {
	nextID uint64
	byID   map[uint64]repository.Classification
}

func newFakeClassifications(names ...string) *fakeClassifications {
	f := &fakeClassifications{byID: map[uint64]repository.Classification{}}
	for _, n := range names {
		f.nextID++
		f.byID[f.nextID] = repository.Classification{ID: f.nextID, Name: n}
	}
	return f
}

func (f *fakeClassifications) Create(_ context.Context, name string) (uint64, error) {
	for _, c := range f.byID {
		if c.Name == name {
			return 0, repository.ErrClassificationExists
		}
	}
	f.nextID++
	f.byID[f.nextID] = repository.Classification{ID: f.nextID, Name: name}
	return f.nextID, nil
}

func (f *fakeClassifications) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range f.byID {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassifications) GetByID(_ context.Context, id uint64) (repository.Classification, error) {
	c, ok := f.byID[id]
	if !ok {
		return repository.Classification{}, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeClassifications) List(_ context.Context) ([]repository.Classification, error) {
	out := make([]repository.Classification, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

type fakeInventory struct {
	nextID uint64
	byID   map[uint64]repository.Vehicle
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{byID: map[uint64]repository.Vehicle{}}
}

func (f *fakeInventory) Create(_ context.Context, v *repository.Vehicle) (uint64, error) {
	f.nextID++
	v.ID = f.nextID
	f.byID[v.ID] = *v
	return v.ID, nil
}

func (f *fakeInventory) GetByID(_ context.Context, id uint64) (repository.Vehicle, error) {
	v, ok := f.byID[id]
	if !ok {
		return repository.Vehicle{}, repository.ErrNotFound
	}
	return v, nil
}

func (f *fakeInventory) ListByClassification(_ context.Context, classificationID uint64) ([]repository.Vehicle, error) {
	var out []repository.Vehicle
	for _, v := range f.byID {
		if v.ClassificationID == classificationID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeInventory) Update(_ context.Context, v *repository.Vehicle) error {
	if _, ok := f.byID[v.ID]; !ok {
		return sql.ErrNoRows
	}
	f.byID[v.ID] = *v
	return nil
}

func (f *fakeInventory) Delete(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

type fakeReviews struct {
	nextID uint64
	byID   map[uint64]repository.Review
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{byID: map[uint64]repository.Review{}}
}

func (f *fakeReviews) Create(_ context.Context, text string, invID, accountID uint64) (uint64, error) {
	f.nextID++
	f.byID[f.nextID] = repository.Review{ID: f.nextID, Text: text, InvID: invID, AccountID: accountID}
	return f.nextID, nil
}

func (f *fakeReviews) GetByID(_ context.Context, id uint64) (repository.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return repository.Review{}, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeReviews) UpdateText(_ context.Context, id uint64, text string) error {
	r, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.Text = text
	f.byID[id] = r
	return nil
}

func (f *fakeReviews) Delete(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviews) ListByInventory(_ context.Context, invID uint64) ([]repository.Review, error) {
	var out []repository.Review
	for _, r := range f.byID {
		if r.InvID == invID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListByAccount(_ context.Context, accountID uint64) ([]repository.Review, error) {
	var out []repository.Review
	for _, r := range f.byID {
		if r.AccountID == accountID {
			out = append(out, r)
		}
	}
	return out, nil
}

// auditRecorder captures published audit events for assertion.
type auditRecorder struct {
	events []queue.AuditEvent
}

func (a *auditRecorder) publish(_ context.Context, ev queue.AuditEvent) error {
	a.events = append(a.events, ev)
	return nil
}

// Interface compliance for the fakes.
var (
	_ AccountStore        = (*fakeAccounts)(nil)
	_ ClassificationStore = (*fakeClassifications)(nil)
	_ InventoryStore      = (*fakeInventory)(nil)
	_ ReviewStore         = (*fakeReviews)(nil)
)

// postForm builds a context for a form POST, optionally authenticated.
func postForm(path string, form url.Values, claims *utils.SessionClaims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("claims", claims)
	}
	return c, rec
}

// getReq builds a context for a GET, optionally authenticated, with path
// params applied.
func getReq(path string, claims *utils.SessionClaims, paramNames []string, paramValues []string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(paramNames) > 0 {
		c.SetParamNames(paramNames...)
		c.SetParamValues(paramValues...)
	}
	if claims != nil {
		c.Set("claims", claims)
	}
	return c, rec
}
