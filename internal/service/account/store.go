package account

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/geoadvisor/backend/internal/model/account"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// SignupParams carries the raw signup form fields.
type SignupParams struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
}

// Store holds user records keyed by username. Usernames are unique and
// matched case-sensitively; records are never deleted.
type Store interface {
	Signup(ctx context.Context, params SignupParams) error
	Authenticate(ctx context.Context, username, password string) error
	Get(ctx context.Context, username string) (account.UserRecord, error)
	AppendExchange(ctx context.Context, username string, exchange account.MessageExchange) error
}

// MemoryStore implements Store with a mutex-guarded map.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*account.UserRecord
}

// NewMemoryStore bootstraps an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*account.UserRecord)}
}

func validateSignup(params SignupParams) error {
	if params.Username == "" || params.Password == "" || params.Email == "" {
		return validationErr("all fields are required")
	}
	if len(params.Username) < minUsernameLen {
		return validationErr("username must be at least 3 characters long")
	}
	if len(params.Password) < minPasswordLen {
		return validationErr("password must be at least 6 characters long")
	}
	if params.Password != params.ConfirmPassword {
		return validationErr("passwords do not match")
	}
	return nil
}

// Signup validates the form fields and creates a record with an empty chat
// history. The new user is not logged in automatically.
func (s *MemoryStore) Signup(_ context.Context, params SignupParams) error {
	if err := validateSignup(params); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[params.Username]; exists {
		return ErrUsernameTaken
	}

	s.users[params.Username] = &account.UserRecord{
		Username:     params.Username,
		PasswordHash: string(hash),
		Email:        params.Email,
		CreatedAt:    time.Now().UTC(),
		ChatHistory:  []account.MessageExchange{},
	}
	return nil
}

// Authenticate checks the supplied credentials against the stored hash.
func (s *MemoryStore) Authenticate(_ context.Context, username, password string) error {
	if username == "" || password == "" {
		return validationErr("please enter both username and password")
	}

	s.mu.RLock()
	record, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Get returns a copy of the record for the given username.
func (s *MemoryStore) Get(_ context.Context, username string) (account.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.users[username]
	if !ok {
		return account.UserRecord{}, ErrNotFound
	}

	copied := *record
	copied.ChatHistory = append([]account.MessageExchange(nil), record.ChatHistory...)
	return copied, nil
}

// AppendExchange appends one completed exchange to the user's persisted
// history.
func (s *MemoryStore) AppendExchange(_ context.Context, username string, exchange account.MessageExchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[username]
	if !ok {
		return ErrNotFound
	}

	record.ChatHistory = append(record.ChatHistory, exchange)
	return nil
}

// snapshot copies every record for serialization.
func (s *MemoryStore) snapshot() map[string]account.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]account.UserRecord, len(s.users))
	for name, record := range s.users {
		copied := *record
		copied.ChatHistory = append([]account.MessageExchange(nil), record.ChatHistory...)
		out[name] = copied
	}
	return out
}

// restore replaces the store contents with the supplied records.
func (s *MemoryStore) restore(records map[string]account.UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make(map[string]*account.UserRecord, len(records))
	for name, record := range records {
		copied := record
		if copied.ChatHistory == nil {
			copied.ChatHistory = []account.MessageExchange{}
		}
		s.users[name] = &copied
	}
}
