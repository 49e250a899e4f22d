package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/geoadvisor/backend/internal/middleware"
	accountservice "github.com/geoadvisor/backend/internal/service/account"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, accountservice.Store) {
	accounts := accountservice.NewMemoryStore()
	chatSvc := chatservice.NewService(accounts, nil)
	handler := New(accounts, chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, accounts
}

func postJSON(r http.Handler, path string, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func signupBody() map[string]string {
	return map[string]string{
		"username":        "user1",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"email":           "a@b.com",
	}
}

func TestSignupSuccess(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(r, "/auth/signup", signupBody())
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Signup must not log the user in: no session cookie is issued.
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value != "" {
			t.Fatal("signup must not issue a session cookie")
		}
	}
}

func TestSignupValidationError(t *testing.T) {
	r, _ := setupRouter()

	body := signupBody()
	body["username"] = "ab"
	resp := postJSON(r, "/auth/signup", body)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSignupConflict(t *testing.T) {
	r, _ := setupRouter()

	if resp := postJSON(r, "/auth/signup", signupBody()); resp.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", resp.Code)
	}
	if resp := postJSON(r, "/auth/signup", signupBody()); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate signup, got %d", resp.Code)
	}
}

func TestLoginSuccessSetsCookie(t *testing.T) {
	r, _ := setupRouter()
	postJSON(r, "/auth/signup", signupBody())

	resp := postJSON(r, "/auth/login", map[string]string{"username": "user1", "password": "secret1"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Token      string `json:"token"`
		Username   string `json:"username"`
		ActivePage string `json:"activePage"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a session token")
	}
	if body.Username != "user1" || body.ActivePage != "chat" {
		t.Fatalf("unexpected session state: %+v", body)
	}

	found := false
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.Value == body.Token {
			found = true
		}
	}
	if !found {
		t.Fatal("session cookie not set")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(r, "/auth/login", map[string]string{"username": "ghost", "password": "secret1"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := setupRouter()
	postJSON(r, "/auth/signup", signupBody())

	resp := postJSON(r, "/auth/login", map[string]string{"username": "user1", "password": "wrongpass"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestLoginEmptyFields(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(r, "/auth/login", map[string]string{"username": "", "password": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	r, _ := setupRouter()

	// Logout without any session is still a 200.
	resp := postJSON(r, "/auth/logout", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMeReflectsSessionState(t *testing.T) {
	r, _ := setupRouter()
	postJSON(r, "/auth/signup", signupBody())
	login := postJSON(r, "/auth/login", map[string]string{"username": "user1", "password": "secret1"})

	var session struct {
		Token string `json:"token"`
	}
	json.Unmarshal(login.Body.Bytes(), &session)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(middleware.SessionHeader, session.Token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var me struct {
		Username   string `json:"username"`
		ActivePage string `json:"activePage"`
	}
	json.Unmarshal(resp.Body.Bytes(), &me)
	if me.Username != "user1" || me.ActivePage != "chat" {
		t.Fatalf("unexpected me response: %+v", me)
	}

	// Without a token the UI is told to show the auth page.
	anonReq := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	anonResp := httptest.NewRecorder()
	r.ServeHTTP(anonResp, anonReq)

	json.Unmarshal(anonResp.Body.Bytes(), &me)
	if me.Username != "" || me.ActivePage != "auth" {
		t.Fatalf("expected anonymous auth state, got %+v", me)
	}
}
