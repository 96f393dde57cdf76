package client

import (
	"encoding/json"
	"sync"
	"time"

	"storefront/pkg/access"
	"storefront/pkg/localstore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Storage keys for the persisted session.
const (
	TokenKey = "auth_token"
	UserKey  = "current_user"
)

// SessionSnapshot is what subscribers receive after every session change.
type SessionSnapshot struct {
	Token string
	User  *Usuario
}

// Session owns the caller's token and account. It is safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	store       localstore.Store
	token       string
	user        *Usuario
	subscribers map[int]func(SessionSnapshot)
	nextSubID   int
	now         func() time.Time
}

// NewSession restores the session persisted in store. A token without a
// readable account is dropped.
func NewSession(store localstore.Store) (*Session, error) {
	s := &Session{
		store:       store,
		subscribers: make(map[int]func(SessionSnapshot)),
		now:         time.Now,
	}

	token, hasToken, err := store.Get(TokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session token")
	}
	raw, hasUser, err := store.Get(UserKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session user")
	}
	if !hasToken || !hasUser {
		return s, nil
	}

	var user Usuario
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return s, nil
	}
	s.token, s.user = token, &user

	return s, nil
}

// Set stores a fresh login.
func (s *Session) Set(token string, user Usuario) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "failed to encode session user")
	}

	s.mu.Lock()
	s.token, s.user = token, &user
	err = s.store.Set(TokenKey, token)
	if err == nil {
		err = s.store.Set(UserKey, string(data))
	}
	subscribers, snapshot := s.notifyList()
	s.mu.Unlock()

	publish(subscribers, snapshot)

	return errors.Wrap(err, "failed to persist session")
}

// Clear logs out.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token, s.user = "", nil
	err := s.store.Delete(TokenKey)
	if err == nil {
		err = s.store.Delete(UserKey)
	}
	subscribers, snapshot := s.notifyList()
	s.mu.Unlock()

	publish(subscribers, snapshot)

	return errors.Wrap(err, "failed to clear session")
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// User returns a copy of the logged-in account, or nil.
func (s *Session) User() *Usuario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user

	return &user
}

// IsAuthenticated reports whether a token is held and its exp claim is in
// the future. The signature is not checked here; the server does that.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	token, now := s.token, s.now()
	s.mu.RUnlock()

	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.After(now)
}

func (s *Session) IsAdmin() bool {
	user := s.User()

	return user != nil && user.Rol == "admin" && s.IsAuthenticated()
}

// Allows reports whether the current session may call method on path,
// according to the shared route table.
func (s *Session) Allows(method, path string) bool {
	user := s.User()
	role := ""
	if user != nil {
		role = user.Rol
	}

	return access.CapabilityFor(method, path).Allowed(role, s.IsAuthenticated())
}

// Subscribe registers fn for every change. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(SessionSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// notifyList must be called with the lock held.
func (s *Session) notifyList() ([]func(SessionSnapshot), SessionSnapshot) {
	snapshot := SessionSnapshot{Token: s.token}
	if s.user != nil {
		user := *s.user
		snapshot.User = &user
	}

	subscribers := make([]func(SessionSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}

	return subscribers, snapshot
}

func publish(subscribers []func(SessionSnapshot), snapshot SessionSnapshot) {
	for _, fn := range subscribers {
		fn(snapshot)
	}
}
