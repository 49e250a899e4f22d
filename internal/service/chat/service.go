package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geoadvisor/backend/internal/model/account"
	chatmodel "github.com/geoadvisor/backend/internal/model/chat"
	accountservice "github.com/geoadvisor/backend/internal/service/account"
	"github.com/geoadvisor/backend/internal/service/ai"
)

var (
	// ErrAuthRequired signals a chat action attempted without a logged-in
	// session. The completion service is never contacted in this case.
	ErrAuthRequired = errors.New("please login to use GeoAdvisor")

	// ErrEmptyMessage signals an empty or whitespace-only submit. It is a
	// no-op warning, not a failure.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrSessionNotFound signals an unknown session token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotConfigured signals a missing completion-service credential.
	ErrNotConfigured = errors.New("completion service is not configured, set GROQ_API_KEY")

	// ErrInvalidParams signals out-of-range generation parameters.
	ErrInvalidParams = errors.New("invalid generation parameters")

	// ErrCompletion wraps any failure from the completion call. Network,
	// authentication and quota errors all collapse into this one path.
	ErrCompletion = errors.New("completion service error")
)

// Completer is the outbound completion boundary used by Submit.
type Completer interface {
	Complete(ctx context.Context, req ai.Request) (string, error)
}

// Service owns the login/logout/submit state machine and the transient
// per-session conversation history.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*chatmodel.Session
	accounts  accountservice.Store
	completer Completer
}

// NewService wires the session service to the account store and the
// completion client. A nil completer disables submits with ErrNotConfigured.
func NewService(accounts accountservice.Store, completer Completer) *Service {
	return &Service{
		sessions:  make(map[string]*chatmodel.Session),
		accounts:  accounts,
		completer: completer,
	}
}

// Login authenticates the credentials and opens a fresh session in the chat
// state. The session history always starts empty: the user's persisted
// history keeps accumulating in the store but is not reloaded here.
func (s *Service) Login(ctx context.Context, username, password string) (chatmodel.Session, error) {
	if err := s.accounts.Authenticate(ctx, username, password); err != nil {
		return chatmodel.Session{}, err
	}

	session := &chatmodel.Session{
		Token:      uuid.NewString(),
		Username:   username,
		ActivePage: chatmodel.PageChat,
		History:    []account.MessageExchange{},
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return copySession(session), nil
}

// Logout unconditionally resets the session to the logged-out state. An
// unknown token is a no-op.
func (s *Service) Logout(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return
	}

	session.Username = ""
	session.ActivePage = chatmodel.PageAuth
	session.History = []account.MessageExchange{}
}

// CurrentSession returns a copy of the session for the given token.
func (s *Service) CurrentSession(_ context.Context, token string) (chatmodel.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return chatmodel.Session{}, ErrSessionNotFound
	}
	return copySession(session), nil
}

// Submit forwards the message plus the session's transient history to the
// completion service and appends the returned exchange. Nothing is appended
// on any failure.
func (s *Service) Submit(ctx context.Context, token, message, modelID string, temperature float64, maxTokens int) (account.MessageExchange, error) {
	session, err := s.loggedInSession(token)
	if err != nil {
		return account.MessageExchange{}, err
	}

	if strings.TrimSpace(message) == "" {
		return account.MessageExchange{}, ErrEmptyMessage
	}

	if s.completer == nil {
		return account.MessageExchange{}, ErrNotConfigured
	}

	if err := validateParams(temperature, maxTokens); err != nil {
		return account.MessageExchange{}, err
	}

	if modelID == "" {
		modelID = ai.DefaultModel
	}

	reply, err := s.completer.Complete(ctx, ai.Request{
		Model:       modelID,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		History:     session.History,
		Message:     message,
	})
	if err != nil {
		return account.MessageExchange{}, fmt.Errorf("%w: %v", ErrCompletion, err)
	}

	exchange, err := s.RecordExchange(ctx, token, message, reply)
	if err != nil {
		// The reply is valid even when persisting it failed; surface the
		// text and log the store error.
		log.Printf("[chat] failed to persist exchange for user=%s: %v", session.Username, err)
	}
	return exchange, nil
}

// RecordExchange appends one completed exchange to the session history and
// to the user's persisted record. The returned error reports a persistence
// failure only; the session history has been updated regardless.
func (s *Service) RecordExchange(ctx context.Context, token, userText, assistantText string) (account.MessageExchange, error) {
	exchange := account.MessageExchange{
		UserText:      userText,
		AssistantText: assistantText,
		Timestamp:     time.Now().UTC(),
	}

	s.mu.Lock()
	session, ok := s.sessions[token]
	if !ok || !session.LoggedIn() {
		s.mu.Unlock()
		return account.MessageExchange{}, ErrAuthRequired
	}
	session.History = append(session.History, exchange)
	username := session.Username
	s.mu.Unlock()

	if err := s.accounts.AppendExchange(ctx, username, exchange); err != nil {
		return exchange, err
	}
	return exchange, nil
}

// Transcript returns the session's transient history for display.
func (s *Service) Transcript(_ context.Context, token string) ([]account.MessageExchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]account.MessageExchange, len(session.History))
	copy(copied, session.History)
	return copied, nil
}

// ClearHistory empties the transient session history. The user's persisted
// record is untouched, mirroring the clear-chat control in the UI.
func (s *Service) ClearHistory(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}

	session.History = []account.MessageExchange{}
	return nil
}

// loggedInSession returns a copy of the session when it is in the chat
// state, ErrAuthRequired otherwise.
func (s *Service) loggedInSession(token string) (chatmodel.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok || !session.LoggedIn() {
		return chatmodel.Session{}, ErrAuthRequired
	}
	return copySession(session), nil
}

func validateParams(temperature float64, maxTokens int) error {
	if temperature < ai.MinTemperature || temperature > ai.MaxTemperature {
		return fmt.Errorf("%w: temperature must be between %.1f and %.1f", ErrInvalidParams, ai.MinTemperature, ai.MaxTemperature)
	}
	if maxTokens < ai.MinMaxTokens || maxTokens > ai.MaxMaxTokens {
		return fmt.Errorf("%w: max tokens must be between %d and %d", ErrInvalidParams, ai.MinMaxTokens, ai.MaxMaxTokens)
	}
	return nil
}

func copySession(session *chatmodel.Session) chatmodel.Session {
	copied := *session
	copied.History = make([]account.MessageExchange, len(session.History))
	copy(copied.History, session.History)
	return copied
}
