package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cra-adv/cra-backend/internal/core/domain"
)

func gateRequest(t *testing.T, rules []Rule, method, path string, roles []string) (int, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if roles != nil {
		c.Set(CtxRoles, roles)
	}

	handler := Gate(rules)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	if err != nil {
		if he, ok := err.(*echo.HTTPError); ok {
			return he.Code, err
		}
		t.Fatalf("unexpected error type: %v", err)
	}
	return rec.Code, nil
}

func testRules() []Rule {
	return []Rule{
		{Prefix: "/health", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/login", Public: true},
		{Method: http.MethodPost, Prefix: "/api/auth/register", Roles: []string{domain.RoleAdmin}},
		{Prefix: "/api/auth/me", Authenticated: true},
		{Method: http.MethodDelete, Prefix: "/api/usuarios/", Roles: []string{domain.RoleAdmin}},
		{Prefix: "/api/usuarios", Roles: []string{domain.RoleAdmin, domain.RoleLawyer, domain.RoleCorrespondent}},
	}
}

func TestGate_PublicWithoutAuth(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodGet, "/health", nil)
	if err != nil || code != http.StatusOK {
		t.Fatalf("public route rejected: code=%d err=%v", code, err)
	}
	code, err = gateRequest(t, testRules(), http.MethodPost, "/api/auth/login", nil)
	if err != nil || code != http.StatusOK {
		t.Fatalf("public login rejected: code=%d err=%v", code, err)
	}
}

func TestGate_ProtectedWithoutAuth(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodGet, "/api/usuarios", nil)
	if err == nil || code != http.StatusUnauthorized {
		t.Fatalf("want 401, got code=%d err=%v", code, err)
	}
}

func TestGate_RoleMismatch(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodPost, "/api/auth/register",
		[]string{domain.RoleCorrespondent})
	if err == nil || code != http.StatusForbidden {
		t.Fatalf("want 403, got code=%d err=%v", code, err)
	}
}

func TestGate_RoleMatch(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodPost, "/api/auth/register",
		[]string{domain.RoleAdmin})
	if err != nil || code != http.StatusOK {
		t.Fatalf("admin should pass: code=%d err=%v", code, err)
	}
}

func TestGate_AuthenticatedRule(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodGet, "/api/auth/me",
		[]string{domain.RoleUser})
	if err != nil || code != http.StatusOK {
		t.Fatalf("any authenticated caller should pass: code=%d err=%v", code, err)
	}
	code, err = gateRequest(t, testRules(), http.MethodGet, "/api/auth/me", nil)
	if err == nil || code != http.StatusUnauthorized {
		t.Fatalf("want 401, got code=%d err=%v", code, err)
	}
}

func TestGate_UnmatchedRequiresAuth(t *testing.T) {
	code, err := gateRequest(t, testRules(), http.MethodGet, "/api/unknown", nil)
	if err == nil || code != http.StatusUnauthorized {
		t.Fatalf("unmatched unauthenticated: want 401, got code=%d err=%v", code, err)
	}
	code, err = gateRequest(t, testRules(), http.MethodGet, "/api/unknown",
		[]string{domain.RoleUser})
	if err != nil || code != http.StatusOK {
		t.Fatalf("unmatched authenticated should pass: code=%d err=%v", code, err)
	}
}

func TestGate_RuleOrdering(t *testing.T) {
	// DELETE /api/usuarios/5 must hit the admin-only rule before the
	// broader staff prefix rule.
	code, err := gateRequest(t, testRules(), http.MethodDelete, "/api/usuarios/5",
		[]string{domain.RoleLawyer})
	if err == nil || code != http.StatusForbidden {
		t.Fatalf("lawyer deleting a user: want 403, got code=%d err=%v", code, err)
	}
	code, err = gateRequest(t, testRules(), http.MethodGet, "/api/usuarios",
		[]string{domain.RoleLawyer})
	if err != nil || code != http.StatusOK {
		t.Fatalf("lawyer listing users should pass: code=%d err=%v", code, err)
	}
}
