package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyeonwook/anonboard/internal/model"
)

// okHandler writes the protected body; guard tests assert it is never
// reached by an unauthorized request.
func okHandler(t *testing.T, wantPrincipal bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok != wantPrincipal {
			t.Errorf("PrincipalFromContext ok = %v, want %v", ok, wantPrincipal)
		}
		w.Write([]byte("protected content"))
	})
}

func requestWithToken(t *testing.T, ts *TokenService, user *model.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if user != nil {
		token, err := ts.Generate(user)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	}
	return req
}

func TestRequireAuth_NoCookie(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	RequireAuth(ts)(okHandler(t, true)).ServeHTTP(rr, requestWithToken(t, ts, nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if body := rr.Body.String(); body == "protected content" {
		t.Error("anonymous request observed member-only content")
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	req := requestWithToken(t, ts, testUser("u1", model.RoleMember))
	RequireAuth(ts)(okHandler(t, true)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRequireRole_MemberDenied(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	req := requestWithToken(t, ts, testUser("u1", model.RoleMember))
	RequireRole(ts, model.RoleAdministrator)(okHandler(t, true)).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
	if body := rr.Body.String(); body == "protected content" {
		t.Error("member observed admin-only content")
	}
}

func TestRequireRole_AnonymousDenied(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	RequireRole(ts, model.RoleAdministrator)(okHandler(t, true)).ServeHTTP(rr, requestWithToken(t, ts, nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	req := requestWithToken(t, ts, testUser("admin", model.RoleAdministrator))
	RequireRole(ts, model.RoleAdministrator)(okHandler(t, true)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	OptionalAuth(ts)(okHandler(t, false)).ServeHTTP(rr, requestWithToken(t, ts, nil))

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestOptionalAuth_IdentifiedWhenTokenPresent(t *testing.T) {
	ts := newTestTokenService(t)
	rr := httptest.NewRecorder()

	req := requestWithToken(t, ts, testUser("u9", model.RoleMember))
	OptionalAuth(ts)(okHandler(t, true)).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}
