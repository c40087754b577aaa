// Package session holds the client's per-role login state. Tokens for
// the admin and client roles live under separate keys so signing in or
// out with one role never disturbs the other.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/alpsupport/ticketdesk/internal/models"
)

// Token store keys, one per role.
const (
	adminTokenKey  = "admin-token"
	clientTokenKey = "client-token"
)

// ErrNoSession is returned when a scope has no stored token. Callers
// must treat it as "not signed in" rather than proceeding without
// credentials.
var ErrNoSession = errors.New("no active session for role")

// Session is an explicit role-scoped credential. Every authenticated
// call carries one; there is no ambient token.
type Session struct {
	Role  models.Role
	Token string
}

// Store persists role tokens in a JSON file.
type Store struct {
	path string

	mu     sync.Mutex
	tokens map[string]string
}

// NewStore creates a store backed by the file at path. A missing file
// reads as an empty store.
func NewStore(path string) *Store {
	return &Store{path: path, tokens: make(map[string]string)}
}

// Load reads the token file from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.tokens = make(map[string]string)
			return nil
		}
		return err
	}
	defer f.Close()

	tokens := make(map[string]string)
	if err := json.NewDecoder(f).Decode(&tokens); err != nil {
		return err
	}
	s.tokens = tokens
	return nil
}

// save writes the token map to disk. Caller holds s.mu.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.tokens)
}

func key(role models.Role) (string, error) {
	switch role {
	case models.RoleAdmin:
		return adminTokenKey, nil
	case models.RoleClient:
		return clientTokenKey, nil
	}
	return "", fmt.Errorf("unknown role %q", role)
}

// Set stores the token under the role's own key and persists.
func (s *Store) Set(role models.Role, token string) error {
	k, err := key(role)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[k] = token
	return s.save()
}

// Session resolves the stored credential for role. Only that role's key
// is consulted; an admin scope never sees the client token and vice
// versa. Missing token yields ErrNoSession.
func (s *Store) Session(role models.Role) (Session, error) {
	k, err := key(role)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[k]
	if !ok || tok == "" {
		return Session{}, ErrNoSession
	}
	return Session{Role: role, Token: tok}, nil
}

// Clear removes the role's token, leaving the other role signed in.
func (s *Store) Clear(role models.Role) error {
	k, err := key(role)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, k)
	return s.save()
}
