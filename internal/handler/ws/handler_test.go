package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	accountservice "github.com/geoadvisor/backend/internal/service/account"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ ai.Request) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func setup(t *testing.T, completer chatservice.Completer) (*httptest.Server, string) {
	t.Helper()

	accounts := accountservice.NewMemoryStore()
	if err := accounts.Signup(context.Background(), accountservice.SignupParams{
		Username:        "user1",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Email:           "a@b.com",
	}); err != nil {
		t.Fatalf("Signup err: %v", err)
	}

	chatSvc := chatservice.NewService(accounts, completer)
	session, err := chatSvc.Login(context.Background(), "user1", "secret1")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, session.Token
}

func dial(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketSubmit(t *testing.T) {
	server, token := setup(t, &stubCompleter{reply: "Use gdf.sjoin for spatial joins."})
	conn := dial(t, server, token)

	if err := conn.WriteJSON(inboundFrame{Type: "submit", Message: "spatial joins?"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "exchange" {
		t.Fatalf("expected exchange frame, got %+v", frame)
	}
	if frame.Exchange == nil || frame.Exchange.AssistantText != "Use gdf.sjoin for spatial joins." {
		t.Fatalf("unexpected exchange payload: %+v", frame.Exchange)
	}
}

func TestWebSocketSubmitWithoutLogin(t *testing.T) {
	server, _ := setup(t, &stubCompleter{reply: "hi"})
	conn := dial(t, server, "")

	if err := conn.WriteJSON(inboundFrame{Type: "submit", Message: "hello"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}
}

func TestWebSocketCompletionFailure(t *testing.T) {
	server, token := setup(t, &stubCompleter{err: errors.New("network down")})
	conn := dial(t, server, token)

	if err := conn.WriteJSON(inboundFrame{Type: "submit", Message: "hello"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "error" || !strings.Contains(frame.Error, "network down") {
		t.Fatalf("expected error frame embedding the cause, got %+v", frame)
	}
}

func TestWebSocketPing(t *testing.T) {
	server, token := setup(t, &stubCompleter{reply: "hi"})
	conn := dial(t, server, token)

	if err := conn.WriteJSON(inboundFrame{Type: "ping"}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var frame outboundFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != "pong" {
		t.Fatalf("expected pong, got %+v", frame)
	}
}
