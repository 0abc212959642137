package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
)

func guardContext(t *testing.T, method, body string, p *policy.Principal) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/", nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(principalKey, p)
	}
	return c, rec
}

func runGuard(c echo.Context, mw echo.MiddlewareFunc) (called bool, err error) {
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return called, handler(c)
}

func TestGuard_RoleAllows(t *testing.T) {
	c, _ := guardContext(t, http.MethodGet, "", &policy.Principal{ID: 1, Role: domain.RoleAdmin})

	called, err := runGuard(c, Guard([]domain.Role{domain.RoleAdmin}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestGuard_RoleForbids(t *testing.T) {
	c, _ := guardContext(t, http.MethodGet, "", &policy.Principal{ID: 1, Role: domain.RoleSupplier})

	called, err := runGuard(c, Guard([]domain.Role{domain.RoleAdmin}))
	if called {
		t.Fatalf("handler must not run")
	}
	if err == nil {
		t.Fatalf("expected a forbidden error")
	}
}

func TestGuard_NoPrincipal(t *testing.T) {
	c, _ := guardContext(t, http.MethodGet, "", nil)

	called, err := runGuard(c, Guard([]domain.Role{domain.RoleAdmin}))
	if called {
		t.Fatalf("handler must not run")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestGuard_OwnershipFromPathParam(t *testing.T) {
	c, _ := guardContext(t, http.MethodGet, "", &policy.Principal{ID: 7, Role: domain.RoleCustomer})
	c.SetParamNames("id")
	c.SetParamValues("7")

	called, err := runGuard(c, Guard([]domain.Role{domain.RoleAdmin}, FromParam("id")))
	if err != nil || !called {
		t.Fatalf("owner must be allowed: called=%v err=%v", called, err)
	}

	c2, _ := guardContext(t, http.MethodGet, "", &policy.Principal{ID: 8, Role: domain.RoleCustomer})
	c2.SetParamNames("id")
	c2.SetParamValues("7")

	called, err = runGuard(c2, Guard([]domain.Role{domain.RoleAdmin}, FromParam("id")))
	if called || err == nil {
		t.Fatalf("non-owner must be denied")
	}
}

func TestGuard_OwnershipFromBody(t *testing.T) {
	c, _ := guardContext(t, http.MethodPost, `{"supplierId": 5, "isInterested": true}`, &policy.Principal{ID: 5, Role: domain.RoleSupplier})

	called, err := runGuard(c, Guard(nil, FromBody("supplierId")))
	if err != nil || !called {
		t.Fatalf("body owner must be allowed: called=%v err=%v", called, err)
	}

	// The body must still be readable by the handler afterwards.
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		t.Fatalf("body not restored: %v", err)
	}
	if payload["isInterested"] != true {
		t.Fatalf("body content lost: %+v", payload)
	}
}

func TestGuard_BodyFieldNumericString(t *testing.T) {
	c, _ := guardContext(t, http.MethodPost, `{"customerId": "9"}`, &policy.Principal{ID: 9, Role: domain.RoleCustomer})

	called, err := runGuard(c, Guard(nil, FromBody("customerId")))
	if err != nil || !called {
		t.Fatalf("numeric string owner must coerce and allow: called=%v err=%v", called, err)
	}
}

func TestGuard_FirstPresentSourceWins(t *testing.T) {
	// Body customerId has priority over path id and shadows it entirely.
	c, _ := guardContext(t, http.MethodPost, `{"customerId": 4}`, &policy.Principal{ID: 7, Role: domain.RoleCustomer})
	c.SetParamNames("id")
	c.SetParamValues("7")

	called, err := runGuard(c, Guard(nil, FromBody("customerId"), FromParam("id")))
	if called || err == nil {
		t.Fatalf("first candidate mismatch must deny even if a later one matches")
	}
}
