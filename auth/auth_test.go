package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	uid, ok := ParseToken(Token(42))
	if !ok || uid != 42 {
		t.Fatalf("expected 42, got %d ok=%v", uid, ok)
	}
	if _, ok := ParseToken("42.forged"); ok {
		t.Fatal("forged signature must be rejected")
	}
	if _, ok := ParseToken("garbage"); ok {
		t.Fatal("malformed token must be rejected")
	}
}

func TestMiddleware_BearerAndCookie(t *testing.T) {
	var got uint
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	req.Header.Set("Authorization", "Bearer "+Token(7))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != 7 {
		t.Fatalf("expected uid 7 from bearer token, got %d", got)
	}

	rec := httptest.NewRecorder()
	CreateSession(rec, 9)
	req = httptest.NewRequest(http.MethodGet, "/api/quotes", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != 9 {
		t.Fatalf("expected uid 9 from cookie, got %d", got)
	}
}

func TestRequireAuth(t *testing.T) {
	defer SetUserVerifier(nil)
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), 3))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 with user, got %d", rec.Code)
	}

	SetUserVerifier(func(context.Context, uint) bool { return false })
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for rejected user, got %d", rec.Code)
	}
}
