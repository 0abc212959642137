package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/api/middleware"
	"github.com/packbroker/supply-system/internal/core/policy"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fast-fails before any service call: a missing principal means the
// middleware did not run or the token carried no usable identity.
func ctxPrincipal(c echo.Context) (policy.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.ID == 0 {
		return policy.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return *p, nil
}
