// Package auth is a local mock of sign-up and sign-in. Users and the current
// session live in a blob.Store; the session's presence is the only auth signal.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/blob"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	KeySessionUser = "auth:session_user"
	KeyUsers       = "auth:users"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStorage            = errors.New("auth storage unavailable")
)

type Service struct {
	// mu serialises read-modify-write of the user list and session.
	mu    sync.Mutex
	Store blob.Store
	Now   func() time.Time
	Cost  int // bcrypt cost
}

func NewService(store blob.Store) *Service {
	return &Service{Store: store, Now: time.Now, Cost: bcrypt.DefaultCost}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func (s *Service) Register(ctx context.Context, name, email, password string) (SafeUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return SafeUser{}, err
	}

	email = NormalizeEmail(email)
	for _, u := range users {
		if u.Email == email {
			return SafeUser{}, ErrDuplicateEmail
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return SafeUser{}, fmt.Errorf("generate user id: %w", err)
	}
	hash, err := hashPassword(password, s.Cost)
	if err != nil {
		return SafeUser{}, fmt.Errorf("hash password: %w", err)
	}

	u := User{
		ID:           id.String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.Now().UTC(),
	}
	users = append(users, u)
	if err := s.saveUsers(ctx, users); err != nil {
		return SafeUser{}, err
	}

	safe := u.Safe()
	if err := s.SaveSession(ctx, safe); err != nil {
		return SafeUser{}, err
	}
	return safe, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (SafeUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return SafeUser{}, err
	}

	email = NormalizeEmail(email)
	for _, u := range users {
		if u.Email != email || !checkPassword(u.PasswordHash, password) {
			continue
		}
		safe := u.Safe()
		if err := s.SaveSession(ctx, safe); err != nil {
			return SafeUser{}, err
		}
		return safe, nil
	}
	return SafeUser{}, ErrInvalidCredentials
}

// Session reports the current user. Read or decode failures count as logged out.
func (s *Service) Session(ctx context.Context) (SafeUser, bool) {
	raw, ok, err := s.Store.Get(ctx, KeySessionUser)
	if err != nil {
		log.Printf("auth: session read failed, treating as logged out: %v", err)
		return SafeUser{}, false
	}
	if !ok {
		return SafeUser{}, false
	}
	var u SafeUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" || u.Email == "" {
		log.Printf("auth: discarding unreadable session record")
		return SafeUser{}, false
	}
	return u, true
}

func (s *Service) SaveSession(ctx context.Context, u SafeUser) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.Store.Set(ctx, KeySessionUser, string(b)); err != nil {
		return storageErr("save session", err)
	}
	return nil
}

func (s *Service) ClearSession(ctx context.Context) error {
	if err := s.Store.Remove(ctx, KeySessionUser); err != nil {
		return storageErr("clear session", err)
	}
	return nil
}

func (s *Service) users(ctx context.Context) ([]User, error) {
	raw, ok, err := s.Store.Get(ctx, KeyUsers)
	if err != nil {
		return nil, storageErr("load users", err)
	}
	if !ok {
		return nil, nil
	}
	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, storageErr("decode users", err)
	}
	for i, u := range users {
		if u.ID == "" || u.Email == "" {
			return nil, storageErr("decode users", fmt.Errorf("record %d missing id or email", i))
		}
	}
	return users, nil
}

func (s *Service) saveUsers(ctx context.Context, users []User) error {
	b, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.Store.Set(ctx, KeyUsers, string(b)); err != nil {
		return storageErr("save users", err)
	}
	return nil
}
