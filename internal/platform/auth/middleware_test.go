package auth

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testCfg = JWTConfig{
	Secret: []byte("0123456789abcdef0123456789abcdef"),
	Issuer: "hms-server",
}

func doAuthed(t *testing.T, cfg JWTConfig, token string) (*httptest.ResponseRecorder, string, []string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser string
	var gotRoles []string
	handler := JWTMiddleware(cfg)(func(c echo.Context) error {
		ctx := c.Request().Context()
		gotUser = UserIDFromContext(ctx)
		gotRoles = RolesFromContext(ctx)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, gotUser, gotRoles
}

func TestIssuedTokenPassesMiddleware(t *testing.T) {
	token, err := IssueToken(testCfg, "dr-mehta", []string{"admin", "staff"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	rec, user, roles := doAuthed(t, testCfg, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if user != "dr-mehta" {
		t.Errorf("user id = %q, want dr-mehta", user)
	}
	if !reflect.DeepEqual(roles, []string{"admin", "staff"}) {
		t.Errorf("roles = %v, want [admin staff]", roles)
	}
}

func TestMiddlewareRejectsWrongSecret(t *testing.T) {
	other := JWTConfig{Secret: []byte("ffffffffffffffffffffffffffffffff"), Issuer: testCfg.Issuer}
	token, err := IssueToken(other, "dr-mehta", []string{"staff"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, _, _ := doAuthed(t, testCfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsWrongIssuer(t *testing.T) {
	other := JWTConfig{Secret: testCfg.Secret, Issuer: "someone-else"}
	token, err := IssueToken(other, "dr-mehta", []string{"staff"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, _, _ := doAuthed(t, testCfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	token, err := IssueToken(testCfg, "dr-mehta", []string{"staff"}, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	rec, _, _ := doAuthed(t, testCfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	rec, _, _ := doAuthed(t, testCfg, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
