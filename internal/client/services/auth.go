// Package services contains the application services of the GoBarber client.
// This file holds the session state: who is signed in, restoring that from
// the credential store on startup, and the operations that change it.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gobarber/internal/client/client"
	"github.com/dmitrijs2005/gobarber/internal/client/models"
	"github.com/dmitrijs2005/gobarber/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/gobarber/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoSession       = errors.New("no active session")
	ErrAlreadyRestored = errors.New("session already restored")
)

// CredentialStore persists the token and the JSON-encoded user.
// Load returns nil for an absent value. SaveUser writes nothing and returns
// credentials.ErrTokenChanged unless token is the stored token.
type CredentialStore interface {
	Load(ctx context.Context) (token []byte, user []byte, err error)
	Save(ctx context.Context, token []byte, user []byte) error
	SaveUser(ctx context.Context, token []byte, user []byte) error
	Remove(ctx context.Context) error
}

// State is a snapshot of the session. Session is nil when signed out.
// Loading stays true until Restore has finished.
type State struct {
	Session *models.Session
	Loading bool
}

// SignedIn reports whether the snapshot carries a session.
func (s State) SignedIn() bool {
	return s.Session != nil
}

// AuthService is the single owner of the session. Other components read it
// through State and change it only through Restore, SignIn, SignOut and
// UpdateUser.
type AuthService struct {
	api   client.Client
	store CredentialStore
	log   logging.Logger
	nowFn func() time.Time

	signIn singleflight.Group

	mu        sync.RWMutex
	session   *models.Session
	loading   bool
	restored  bool
	listeners map[int]func(State)
	nextID    int
}

// NewAuthService wires the service to the API client and the credential
// store. A 401 answer to any authenticated request signs the session out.
func NewAuthService(api client.Client, store CredentialStore, log logging.Logger) *AuthService {
	s := &AuthService{
		api:       api,
		store:     store,
		log:       log.With("component", "auth"),
		nowFn:     time.Now,
		loading:   true,
		listeners: make(map[int]func(State)),
	}
	api.OnUnauthorized(s.expire)
	return s
}

// State returns a copy of the current session state.
func (s *AuthService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *AuthService) stateLocked() State {
	st := State{Loading: s.loading}
	if s.session != nil {
		cp := *s.session
		st.Session = &cp
	}
	return st
}

// Subscribe registers fn to be called with the new state after every
// change. The returned func removes the subscription.
func (s *AuthService) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the write lock and notifies subscribers outside it.
func (s *AuthService) update(fn func()) {
	s.mu.Lock()
	fn()
	st := s.stateLocked()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(st)
	}
}

// Restore loads the session persisted by a previous run. It runs once per
// service; later calls return ErrAlreadyRestored. Storage problems never
// fail the call: they leave the client signed out and Loading always ends
// false.
//
// A token without a user (or the reverse), an unreadable user or an
// expired token is an invalid resting state and is wiped from storage.
func (s *AuthService) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return ErrAlreadyRestored
	}
	s.restored = true
	s.mu.Unlock()

	session := s.loadSession(ctx)

	s.update(func() {
		// a sign-in that finished while we were reading storage wins
		if s.session == nil && session != nil {
			s.api.SetAuthorization(session.Token)
			s.session = session
		}
		s.loading = false
	})

	if session != nil {
		s.log.Info(ctx, "session restored", "user_id", session.User.ID)
	}
	return nil
}

func (s *AuthService) loadSession(ctx context.Context) *models.Session {
	token, rawUser, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "reading stored session failed", "error", err)
		return nil
	}
	if token == nil && rawUser == nil {
		return nil
	}
	if token == nil || rawUser == nil {
		s.log.Warn(ctx, "stored session is incomplete, discarding", "has_token", token != nil, "has_user", rawUser != nil)
		s.discardStored(ctx)
		return nil
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		s.log.Warn(ctx, "stored user is unreadable, discarding", "error", err)
		s.discardStored(ctx)
		return nil
	}

	if tokenExpired(string(token), s.nowFn()) {
		s.log.Info(ctx, "stored token has expired, discarding", "user_id", user.ID)
		s.discardStored(ctx)
		return nil
	}

	return &models.Session{Token: string(token), User: user}
}

func (s *AuthService) discardStored(ctx context.Context) {
	if err := s.store.Remove(ctx); err != nil {
		s.log.Error(ctx, "removing stored session failed", "error", err)
	}
}

// tokenExpired reads the exp claim of a JWT without verifying it; the
// signature is the server's business. Tokens that are not JWTs, or carry
// no exp, are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(now)
}

// SignIn exchanges credentials for a session, persists it, installs the
// token on the API client and publishes the new state. Concurrent calls
// share the one request already in flight and get its result.
func (s *AuthService) SignIn(ctx context.Context, creds models.Credentials) error {
	_, err, shared := s.signIn.Do("sign-in", func() (any, error) {
		return nil, s.signInOnce(ctx, creds)
	})
	if shared {
		s.log.Debug(ctx, "joined in-flight sign-in")
	}
	return err
}

func (s *AuthService) signInOnce(ctx context.Context, creds models.Credentials) error {
	session, err := s.api.CreateSession(ctx, creds)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	rawUser, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.Save(ctx, []byte(session.Token), rawUser); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.update(func() {
		s.api.SetAuthorization(session.Token)
		s.session = session
	})

	s.log.Info(ctx, "signed in", "user_id", session.User.ID)
	return nil
}

// SignOut forgets the session locally. It makes no API call and cannot
// fail; a storage error is only logged.
func (s *AuthService) SignOut(ctx context.Context) {
	if err := s.store.Remove(ctx); err != nil {
		s.log.Error(ctx, "removing stored session failed", "error", err)
	}

	s.update(func() {
		s.api.ClearAuthorization()
		s.session = nil
	})

	s.log.Info(ctx, "signed out")
}

// expire handles a token the server rejected. Rejections of a token that
// is no longer the current one are ignored.
func (s *AuthService) expire(token string) {
	s.mu.RLock()
	current := s.session != nil && s.session.Token == token
	s.mu.RUnlock()
	if !current {
		return
	}

	ctx := context.Background()
	s.log.Warn(ctx, "session rejected by server, signing out")
	s.SignOut(ctx)
}

// UpdateUser replaces the signed-in user with the value returned by the
// API, keeping the token. The new user is persisted before it is published,
// and neither happens once the session it was meant for has ended.
func (s *AuthService) UpdateUser(ctx context.Context, user models.User) error {
	st := s.State()
	if !st.SignedIn() {
		return ErrNoSession
	}
	token := st.Session.Token

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.store.SaveUser(ctx, []byte(token), rawUser); err != nil {
		if errors.Is(err, credentials.ErrTokenChanged) {
			s.log.Debug(ctx, "session ended before user update was stored")
			return ErrNoSession
		}
		return fmt.Errorf("persist user: %w", err)
	}

	var ended bool
	s.update(func() {
		if s.session == nil || s.session.Token != token {
			ended = true
			return
		}
		s.session = &models.Session{Token: token, User: user}
	})
	if ended {
		return ErrNoSession
	}
	return nil
}
