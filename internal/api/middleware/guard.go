package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/api/metrics"
	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
)

// OwnerSource extracts one ownership candidate from the request. Sources are
// evaluated in declaration order and collected short-circuit style: only the
// first present candidate participates in the policy decision.
type OwnerSource func(c echo.Context) (policy.OwnerField, bool)

// FromParam reads a numeric ownership candidate from a path parameter.
func FromParam(name string) OwnerSource {
	return func(c echo.Context) (policy.OwnerField, bool) {
		raw := c.Param(name)
		if raw == "" {
			return policy.OwnerField{}, false
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return policy.OwnerField{}, false
		}
		return policy.OwnerField{Name: name, Value: v}, true
	}
}

// FromBody reads a numeric ownership candidate from a top-level JSON body
// field. The body is restored afterwards so handlers can still bind it.
func FromBody(field string) OwnerSource {
	return func(c echo.Context) (policy.OwnerField, bool) {
		req := c.Request()
		if req.Body == nil {
			return policy.OwnerField{}, false
		}
		raw, err := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil || len(raw) == 0 {
			return policy.OwnerField{}, false
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(raw, &payload); err != nil {
			return policy.OwnerField{}, false
		}
		value, ok := payload[field]
		if !ok {
			return policy.OwnerField{}, false
		}
		v, ok := coerceInt64(value)
		if !ok {
			return policy.OwnerField{}, false
		}
		return policy.OwnerField{Name: field, Value: v}, true
	}
}

// coerceInt64 accepts a JSON number or a numeric string.
func coerceInt64(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// Guard enforces the role-or-owner access policy for a route. requiredRoles
// may be empty, in which case only ownership is evaluated (with the policy
// package's documented default when no owner field is present).
func Guard(requiredRoles []domain.Role, sources ...OwnerSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)

			var owners []policy.OwnerField
			for _, src := range sources {
				if field, ok := src(c); ok {
					owners = append(owners, field)
					break
				}
			}

			if err := policy.Authorize(principal, requiredRoles, owners); err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.PolicyDenialsTotal.WithLabelValues("unauthenticated").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
				}
				metrics.PolicyDenialsTotal.WithLabelValues("forbidden").Inc()
				return err
			}
			return next(c)
		}
	}
}
