package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Rule maps a route prefix (and optionally a method) to an access policy.
// Exactly one of Public, Authenticated or Roles applies:
//   - Public: no authentication required.
//   - Authenticated: any authenticated caller.
//   - Roles: authenticated caller holding at least one of the listed roles.
type Rule struct {
	Method        string // empty matches every method
	Prefix        string
	Public        bool
	Authenticated bool
	Roles         []string
}

// Gate enforces the route/role table. Rules are evaluated in order and the
// first matching rule wins; a request matching no rule requires
// authentication. Unauthenticated callers get 401, authenticated callers
// without a required role get 403.
func Gate(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule := match(rules, c.Request().Method, c.Request().URL.Path)

			if rule != nil && rule.Public {
				return next(c)
			}

			roles := AuthenticatedRoles(c)
			if len(roles) == 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if rule == nil || rule.Authenticated {
				return next(c)
			}

			for _, have := range roles {
				for _, want := range rule.Roles {
					if have == want {
						return next(c)
					}
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}

func match(rules []Rule, method, path string) *Rule {
	for i := range rules {
		r := &rules[i]
		if r.Method != "" && r.Method != method {
			continue
		}
		if strings.HasPrefix(path, r.Prefix) {
			return r
		}
	}
	return nil
}
