package account

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/webgen/auth/password"
)

var (
	// ErrUserExists is returned by Create for a taken username.
	ErrUserExists = errors.New("account: user exists")
	// ErrNotFound is returned by Find for an unknown username.
	ErrNotFound = errors.New("account: user not found")
	// ErrInvalidCredentials is returned by Verify for an unknown user or a
	// wrong password. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("account: invalid credentials")
)

// Store persists users. Implementations must be safe for concurrent use.
type Store interface {
	// Create hashes the password and stores a new user.
	Create(ctx context.Context, username, password string) (User, error)
	// Find returns the user with the given username.
	Find(ctx context.Context, username string) (User, error)
	// Verify returns the user when password matches.
	Verify(ctx context.Context, username, password string) (User, error)
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	hasher password.Hasher
	now    func() time.Time

	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryStore creates an empty store that hashes with hasher.
func NewMemoryStore(hasher password.Hasher) *MemoryStore {
	return &MemoryStore{
		hasher: hasher,
		now:    time.Now,
		users:  make(map[string]User),
	}
}

func (s *MemoryStore) Create(ctx context.Context, username, pw string) (User, error) {
	if _, err := s.Find(ctx, username); err == nil {
		return User{}, ErrUserExists
	}
	// Hashing runs outside the lock, so the existence check repeats below.
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return User{}, ErrUserExists
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[username] = u
	return u, nil
}

func (s *MemoryStore) Find(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Verify(ctx context.Context, username, pw string) (User, error) {
	u, err := s.Find(ctx, username)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := s.hasher.Verify(pw, u.PasswordHash); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Len returns the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
