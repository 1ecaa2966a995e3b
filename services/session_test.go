package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/idlikadai3-prog/idli-kadai-frontend/api"

	"github.com/go-chi/chi/v5"
)

// fakeKadaiServer is a stand-in for the remote ordering API, just enough of
// it to exercise the session flows.
type fakeKadaiServer struct {
	srv     *httptest.Server
	meCalls int64
}

func newFakeKadaiServer(t *testing.T) *fakeKadaiServer {
	t.Helper()
	f := &fakeKadaiServer{}

	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(req.Body).Decode(&creds)
		if creds.Username == "ghost" {
			// a 401 with no envelope at all
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if creds.Username == "alice" && creds.Password == "idli123" {
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-alice",
				"user":         map[string]any{"id": "u1", "username": "alice", "role": "buyer"},
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "Invalid credentials"})
	})
	r.Post("/register", func(w http.ResponseWriter, req *http.Request) {
		var reg struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(req.Body).Decode(&reg)
		if !strings.Contains(reg.Email, "@") {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"errors": []string{"invalid email"}})
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt64(&f.meCalls, 1)
		switch req.Header.Get("Authorization") {
		case "Bearer tok-alice":
			json.NewEncoder(w).Encode(map[string]any{"id": "u1", "username": "alice", "role": "buyer"})
		case "Bearer tok-seller":
			json.NewEncoder(w).Encode(map[string]any{"id": "u2", "username": "kadai", "role": "seller"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"detail": "Not authenticated"})
		}
	})
	r.Get("/orders", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") == "" || strings.HasSuffix(req.Header.Get("Authorization"), "expired") {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{"detail": "Not authenticated"})
			return
		}
		w.Write([]byte("[]"))
	})

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestManager(t *testing.T) (*SessionManager, *fakeKadaiServer, *MemoryTokenStore) {
	t.Helper()
	f := newFakeKadaiServer(t)
	tokens := NewMemoryTokenStore()
	return NewSessionManager(api.New(f.srv.URL), tokens), f, tokens
}

func TestSessionManager_ResumeWithoutToken(t *testing.T) {
	m, f, _ := newTestManager(t)
	if err := m.Resume(context.Background(), 1); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if got := m.Get(1).State; got != StateUnauthenticated {
		t.Errorf("state = %v, want StateUnauthenticated", got)
	}
	if n := atomic.LoadInt64(&f.meCalls); n != 0 {
		t.Errorf("identity fetched %d times with no stored token, want 0", n)
	}
}

func TestSessionManager_ResumeRestoresSession(t *testing.T) {
	m, _, tokens := newTestManager(t)
	ctx := context.Background()
	tokens.Set(ctx, 1, "tok-alice")

	if err := m.Resume(ctx, 1); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	sess := m.Get(1)
	if !sess.IsAuthenticated() || !sess.IsBuyer() {
		t.Errorf("session = %+v, want authenticated buyer", sess)
	}
	if sess.Identity.Username != "alice" {
		t.Errorf("username = %q, want alice", sess.Identity.Username)
	}
}

func TestSessionManager_ResumeRejectedTokenIsCleared(t *testing.T) {
	m, _, tokens := newTestManager(t)
	ctx := context.Background()
	tokens.Set(ctx, 1, "tok-expired")

	if err := m.Resume(ctx, 1); err == nil {
		t.Fatal("Resume() with a rejected token should fail")
	}
	if got := m.Get(1).State; got != StateUnauthenticated {
		t.Errorf("state = %v, want StateUnauthenticated", got)
	}
	stored, _ := tokens.Get(ctx, 1)
	if stored != "" {
		t.Errorf("stored token = %q, want cleared", stored)
	}
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	m, _, tokens := newTestManager(t)
	ctx := context.Background()

	if err := m.Login(ctx, 1, "alice", "idli123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	sess := m.Get(1)
	if !sess.IsAuthenticated() || sess.Token != "tok-alice" {
		t.Errorf("session = %+v, want authenticated with tok-alice", sess)
	}
	stored, _ := tokens.Get(ctx, 1)
	if stored != "tok-alice" {
		t.Errorf("persisted token = %q, want tok-alice", stored)
	}
}

func TestSessionManager_LoginFailureCarriesDetail(t *testing.T) {
	m, _, tokens := newTestManager(t)
	ctx := context.Background()
	tokens.Set(ctx, 1, "tok-previous")

	err := m.Login(ctx, 1, "alice", "wrong")
	if err == nil {
		t.Fatal("Login() with wrong password should fail")
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("error = %q, want the server's detail message", err.Error())
	}
	if got := m.Get(1).State; got != StateUnauthenticated {
		t.Errorf("state = %v, want StateUnauthenticated", got)
	}
	// a failed login does not disturb whatever token was persisted before
	stored, _ := tokens.Get(ctx, 1)
	if stored != "tok-previous" {
		t.Errorf("persisted token = %q, want tok-previous", stored)
	}
}

func TestSessionManager_LoginFailureWithoutDetailUsesFallback(t *testing.T) {
	m, _, _ := newTestManager(t)
	err := m.Login(context.Background(), 1, "ghost", "pw")
	if err == nil {
		t.Fatal("Login() should fail")
	}
	if err.Error() != "Login failed. Please check your credentials." {
		t.Errorf("error = %q, want the generic login fallback when the 401 carries no detail", err.Error())
	}
}

func TestSessionManager_Register(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	if err := m.Register(ctx, "bob", "bob@mail.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := m.Register(ctx, "bob", "nope", "secret1"); err == nil || err.Error() != "invalid email" {
		t.Errorf("Register() error = %v, want the server's validation message", err)
	}
}

func TestSessionManager_HandleAuthErrorForcesLogout(t *testing.T) {
	m, _, tokens := newTestManager(t)
	ctx := context.Background()
	var loggedOut int64
	m.SetOnForcedLogout(func(userID int64) { atomic.AddInt64(&loggedOut, userID) })

	if err := m.Login(ctx, 7, "alice", "idli123"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	// simulate the token being revoked server-side
	_, err := m.Client(7).WithToken("tok-expired").ListOrders(ctx)
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected a 401, got %v", err)
	}

	if !m.HandleAuthError(ctx, 7, err) {
		t.Fatal("HandleAuthError() = false for a 401, want true")
	}
	if got := m.Get(7).State; got != StateUnauthenticated {
		t.Errorf("state = %v, want StateUnauthenticated", got)
	}
	stored, _ := tokens.Get(ctx, 7)
	if stored != "" {
		t.Errorf("stored token = %q, want cleared", stored)
	}
	if atomic.LoadInt64(&loggedOut) != 7 {
		t.Error("forced-logout callback did not fire for the user")
	}
}

func TestSessionManager_HandleAuthErrorIgnoresOtherErrors(t *testing.T) {
	m, _, _ := newTestManager(t)
	err := &api.Error{Status: http.StatusForbidden, Detail: "nope"}
	if m.HandleAuthError(context.Background(), 1, err) {
		t.Error("HandleAuthError() = true for a 403, want false")
	}
	if m.HandleAuthError(context.Background(), 1, nil) {
		t.Error("HandleAuthError(nil) = true, want false")
	}
}

func TestMemoryTokenStore(t *testing.T) {
	s := NewMemoryTokenStore()
	ctx := context.Background()

	got, err := s.Get(ctx, 1)
	if err != nil || got != "" {
		t.Errorf("Get(absent) = (%q, %v), want empty and nil", got, err)
	}
	s.Set(ctx, 1, "tok")
	got, _ = s.Get(ctx, 1)
	if got != "tok" {
		t.Errorf("Get() = %q, want tok", got)
	}
	s.Delete(ctx, 1)
	got, _ = s.Get(ctx, 1)
	if got != "" {
		t.Errorf("Get(deleted) = %q, want empty", got)
	}
}
