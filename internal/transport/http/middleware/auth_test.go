package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vybe/internal/service"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims(userID int64) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func runAuth(t *testing.T, setup func(r *http.Request)) (*httptest.ResponseRecorder, int64, bool) {
	t.Helper()

	var gotUserID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
	setup(req)

	rec := httptest.NewRecorder()
	AuthMiddleware(testSecret)(next).ServeHTTP(rec, req)
	return rec, gotUserID, gotOK
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims(7))

	rec, userID, ok := runAuth(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok || userID != 7 {
		t.Errorf("user ID in context = (%d, %v), want (7, true)", userID, ok)
	}
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	token := signToken(t, testSecret, validClaims(9))

	rec, userID, ok := runAuth(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !ok || userID != 9 {
		t.Errorf("user ID in context = (%d, %v), want (9, true)", userID, ok)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	rec, _, ok := runAuth(t, func(r *http.Request) {})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ok {
		t.Error("no user ID should reach the handler")
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	claims := validClaims(7)
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	rec, _, _ := runAuth(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims(7))

	rec, _, _ := runAuth(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: service.SessionCookieName, Value: token})
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
