package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/larder/internal/auth"
	"github.com/dukerupert/larder/internal/database"
	"github.com/dukerupert/larder/internal/store"
)

func setupAuthMiddleware(t *testing.T) *auth.Service {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return auth.NewService(store.NewUserStore(db), store.NewSessionStore(db), store.NewAPIKeyStore(db), slog.Default())
}

func TestRequireAuthNoCredentials(t *testing.T) {
	svc := setupAuthMiddleware(t)

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthInvalidSessionToken(t *testing.T) {
	svc := setupAuthMiddleware(t)

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthValidSession(t *testing.T) {
	svc := setupAuthMiddleware(t)

	user, err := svc.Register("alice1", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, sess, err := svc.Login("alice1", "s3cretpass", false)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var gotAC auth.AuthContext
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected AuthContext in request context")
		}
		gotAC = ac
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotAC.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", gotAC.UserID, user.ID)
	}
	if gotAC.Via != auth.ViaSession {
		t.Errorf("Via = %q, want session", gotAC.Via)
	}
}

func TestRequireAuthValidAPIKey(t *testing.T) {
	svc := setupAuthMiddleware(t)

	user, err := svc.Register("alice1", "alice@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	key, err := svc.RefreshAPIKey("alice1", "s3cretpass")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var gotAC auth.AuthContext
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAC, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+key.Key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotAC.UserID != user.ID {
		t.Errorf("UserID = %d, want %d", gotAC.UserID, user.ID)
	}
	if gotAC.Via != auth.ViaAPIKey {
		t.Errorf("Via = %q, want api_key", gotAC.Via)
	}
}

func TestRequireAuthRevokedAPIKey(t *testing.T) {
	svc := setupAuthMiddleware(t)

	if _, err := svc.Register("alice1", "alice@example.com", "s3cretpass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	old, err := svc.RefreshAPIKey("alice1", "s3cretpass")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := svc.RefreshAPIKey("alice1", "s3cretpass"); err != nil {
		t.Fatalf("refresh again: %v", err)
	}

	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	req.Header.Set("Authorization", "Bearer "+old.Key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if bearerToken(req) != "" {
		t.Error("no header should yield empty token")
	}
	req.Header.Set("Authorization", "Basic abc123")
	if bearerToken(req) != "" {
		t.Error("non-bearer scheme should yield empty token")
	}
	req.Header.Set("Authorization", "bearer my-key")
	if bearerToken(req) != "my-key" {
		t.Errorf("bearerToken = %q, want my-key", bearerToken(req))
	}
}
