package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/geoadvisor/backend/internal/model/account"
)

// FileStore is a Store that mirrors every mutation to a single JSON file
// mapping username to record. The whole file is rewritten on each mutation
// via a temp file and rename, so a crash mid-write never leaves a truncated
// store behind.
//
// A failed write is reported to the caller, but the in-memory mutation has
// already happened at that point. That mismatch is inherited from the
// original application and is deliberate; see DESIGN.md.
type FileStore struct {
	path string
	mem  *MemoryStore
}

// NewFileStore loads the store file at path, creating an empty store when
// the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, mem: NewMemoryStore()}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read account store %s: %w", path, err)
	}

	records := make(map[string]account.UserRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse account store %s: %w", path, err)
	}
	s.mem.restore(records)
	return s, nil
}

// Signup creates the record in memory, then persists the store. A
// persistence failure downgrades the outcome to an error even though the
// record was created.
func (s *FileStore) Signup(ctx context.Context, params SignupParams) error {
	if err := s.mem.Signup(ctx, params); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return fmt.Errorf("account created but saving store failed: %w", err)
	}
	return nil
}

// Authenticate checks credentials against the in-memory records.
func (s *FileStore) Authenticate(ctx context.Context, username, password string) error {
	return s.mem.Authenticate(ctx, username, password)
}

// Get returns a copy of the record for the given username.
func (s *FileStore) Get(ctx context.Context, username string) (account.UserRecord, error) {
	return s.mem.Get(ctx, username)
}

// AppendExchange appends the exchange and persists the store.
func (s *FileStore) AppendExchange(ctx context.Context, username string, exchange account.MessageExchange) error {
	if err := s.mem.AppendExchange(ctx, username, exchange); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return fmt.Errorf("exchange recorded but saving store failed: %w", err)
	}
	return nil
}

// save rewrites the whole store file: marshal, write to a temp file in the
// same directory, then rename over the target.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.mem.snapshot(), "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
