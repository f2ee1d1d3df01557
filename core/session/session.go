// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session brings the identity provider up once per process run and
// exposes readiness, the current user and a human-readable status.
//
// A Session becomes ready exactly once: immediately when it is degraded
// (missing API key, failed provider setup), otherwise after the first
// auth-state callback has finished its sign-in attempt.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
)

// ErrNotReady is returned by WaitReady when ctx ends first.
var ErrNotReady = errors.New("session not ready")

// Config holds what the bootstrapper needs from the application settings.
type Config struct {
	APIKey string
	// InitialAuthToken, when set, is used for a custom-token sign-in instead
	// of an anonymous one.
	InitialAuthToken string
}

// Opener initializes the provider app and returns its capabilities.
type Opener func(ctx context.Context) (identity.Provider, identity.DocumentStore, error)

// Session is the handle passed to every handler.
type Session struct {
	cfg      Config
	provider identity.Provider
	store    identity.DocumentStore

	ctx    context.Context
	cancel context.CancelFunc

	ready     chan struct{}
	readyOnce sync.Once
	closeOnce sync.Once

	mu          sync.RWMutex
	user        *identity.User
	status      string
	unsubscribe func()
	watchers    []func(*identity.User)
}

// Initialize starts the session. It never blocks on the provider and never
// panics; problems are reported through Status.
func Initialize(ctx context.Context, cfg Config, open Opener) *Session {
	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:    cfg,
		ctx:    sctx,
		cancel: cancel,
		ready:  make(chan struct{}),
	}

	if cfg.APIKey == "" {
		logging.Warnf("firebase api key is not configured; running without auth services")
		s.setStatus(i18n.T("status.keys_missing"))
		s.markReady()
		return s
	}

	provider, store, err := safeOpen(ctx, open)
	if err != nil {
		logging.Errorf("firebase initialization error: %v", err)
		s.setStatus(i18n.T("status.init_failed"))
		s.markReady()
		return s
	}

	s.mu.Lock()
	s.provider, s.store = provider, store
	s.mu.Unlock()

	unsub := provider.OnAuthStateChanged(s.onAuthStateChanged)
	s.mu.Lock()
	s.unsubscribe = unsub
	s.mu.Unlock()

	return s
}

func safeOpen(ctx context.Context, open Opener) (p identity.Provider, d identity.DocumentStore, err error) {
	if open == nil {
		return nil, nil, errors.New("no provider opener configured")
	}
	defer func() {
		if r := recover(); r != nil {
			p, d, err = nil, nil, errors.New("provider setup panicked")
			logging.Errorf("provider setup panic: %v", r)
		}
	}()
	p, d, err = open(ctx)
	if err == nil && p == nil {
		err = errors.New("provider setup returned no provider")
	}
	return p, d, err
}

// onAuthStateChanged is the single auth-state listener.
func (s *Session) onAuthStateChanged(u *identity.User) {
	if u == nil && s.ctx.Err() == nil {
		var err error
		if s.cfg.InitialAuthToken != "" {
			_, err = s.provider.SignInWithCustomToken(s.ctx, s.cfg.InitialAuthToken)
		} else {
			_, err = s.provider.SignInAnonymously(s.ctx)
		}
		if err != nil {
			logging.Errorf("initial sign-in failed: %v", err)
		}
	}

	current := s.provider.CurrentUser()
	s.mu.Lock()
	s.user = current
	watchers := append([]func(*identity.User){}, s.watchers...)
	s.mu.Unlock()

	s.markReady()

	for _, w := range watchers {
		w(current)
	}
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Ready is closed once the session is ready.
func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

// IsReady reports whether Ready has been closed.
func (s *Session) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the session is ready or ctx is done.
func (s *Session) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrNotReady, ctx.Err())
	}
}

// User returns the user recorded by the last auth-state callback.
func (s *Session) User() *identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Status returns the bootstrap status text, empty when healthy.
func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Provider returns the auth capability, nil on a degraded session.
func (s *Session) Provider() identity.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

// Store returns the document capability, nil on a degraded session.
func (s *Session) Store() identity.DocumentStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Watch calls fn with the user after every auth-state callback.
func (s *Session) Watch(fn func(*identity.User)) {
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	s.mu.Unlock()
}

// Close releases the auth-state subscription. It is the only teardown point
// and may be called any number of times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		unsub := s.unsubscribe
		s.unsubscribe = nil
		s.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	})
}
