package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/packbroker/supply-system/internal/core/domain"
	"github.com/packbroker/supply-system/internal/core/policy"
)

// principalKey is the context key under which the authenticated principal is
// stored for the request. The principal is request-scoped and rebuilt from
// the token on every call.
const principalKey = "principal"

// Auth validates the JWT and injects the authenticated principal into the
// request context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, ok := claims["sub"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)

			c.Set(principalKey, &policy.Principal{
				ID:    int64(sub),
				Role:  domain.Role(role),
				Email: email,
			})

			return next(c)
		}
	}
}

// PrincipalFrom returns the principal injected by Auth, or nil when the
// request is unauthenticated.
func PrincipalFrom(c echo.Context) *policy.Principal {
	p, _ := c.Get(principalKey).(*policy.Principal)
	return p
}
