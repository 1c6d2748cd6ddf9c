package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/msomdec/placeshare/internal/handler"
	"github.com/msomdec/placeshare/internal/service"
)

func registerTestUser(t *testing.T, auth *service.AuthService, email string) *service.Session {
	t.Helper()
	sess, err := auth.Register(context.Background(), service.SignupInput{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return sess
}

func TestRequireAuth_ValidBearer(t *testing.T) {
	app := newTestApp(t)
	sess := registerTestUser(t, app.auth, "valid@example.com")

	var gotID int64
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := handler.CallerFromContext(r.Context())
		if !ok {
			t.Fatal("expected caller in context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	w := httptest.NewRecorder()

	handler.RequireAuth(app.auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotID != sess.UserID {
		t.Fatalf("expected caller %d, got %d", sess.UserID, gotID)
	}
}

func TestRequireAuth_Rejects(t *testing.T) {
	app := newTestApp(t)
	sess := registerTestUser(t, app.auth, "reject@example.com")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	headers := map[string]string{
		"missing":      "",
		"empty bearer": "Bearer ",
		"wrong scheme": "Token " + sess.Token,
		"garbage":      "Bearer invalid.jwt.token",
	}
	for name, value := range headers {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if value != "" {
			req.Header.Set("Authorization", value)
		}
		w := httptest.NewRecorder()

		handler.RequireAuth(app.auth, inner).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Authentication failed!" {
			t.Fatalf("%s: unexpected message %q", name, msg)
		}
	}
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the inner handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
	w := httptest.NewRecorder()

	handler.CORS(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected Allow-Origin *, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PATCH, DELETE" {
		t.Fatalf("unexpected Allow-Methods %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Fatalf("expected inner status, got %d", w.Code)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
}
