// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package account implements the login, registration and federated sign-in
// handlers. Handlers never return errors: every outcome, including provider
// failures, is converted into a Status.
package account

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
)

// DefaultNamespace scopes profile documents when no namespace is configured.
const DefaultNamespace = "createch-live-app-id"

// MinPasswordLength is the shortest password accepted for registration.
const MinPasswordLength = 6

// Audit actions.
const (
	ActionLogin          = "LOGIN"
	ActionRegister       = "REGISTER"
	ActionFederatedLogin = "FEDERATED_LOGIN"
)

// Capabilities is what handlers need from a session. *session.Session
// satisfies it.
type Capabilities interface {
	Provider() identity.Provider
	Store() identity.DocumentStore
}

// Auditor records handler outcomes.
type Auditor interface {
	LogAction(ctx context.Context, action, details string) error
}

// RegistrationFields is the registration form input. Phone already carries
// the dialing code.
type RegistrationFields struct {
	FirstName   string `mapstructure:"first_name"`
	LastName    string `mapstructure:"last_name"`
	Email       string `mapstructure:"email"`
	Password    string `mapstructure:"password"`
	Phone       string `mapstructure:"phone"`
	DateOfBirth string `mapstructure:"dob"`
}

// Record is the profile document written after account creation.
type Record struct {
	FirstName   string `firestore:"firstName" json:"firstName"`
	LastName    string `firestore:"lastName" json:"lastName"`
	Email       string `firestore:"email" json:"email"`
	Phone       string `firestore:"phone" json:"phone"`
	DateOfBirth string `firestore:"dateOfBirth" json:"dateOfBirth"`
	CreatedAt   string `firestore:"createdAt" json:"createdAt"`
}

// ProfilePath returns the document path of a user's profile record.
func ProfilePath(namespace, uid string) string {
	return fmt.Sprintf("artifacts/%s/users/%s/user_data/profile", namespace, uid)
}

// Service bundles the handlers with their collaborators.
type Service struct {
	caps      Capabilities
	namespace string
	now       func() time.Time
	navigator Navigator
	sink      StatusSink
	auditor   Auditor

	mu   sync.Mutex
	last Status
}

type Option func(*Service)

func WithNamespace(ns string) Option {
	return func(s *Service) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNavigator(n Navigator) Option {
	return func(s *Service) { s.navigator = n }
}

func WithStatusSink(sink StatusSink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// NewService returns handlers bound to caps.
func NewService(caps Capabilities, opts ...Option) *Service {
	s := &Service{
		caps:      caps,
		namespace: DefaultNamespace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNavigator replaces the navigator. UIs that are built after the service
// use it to receive screen changes.
func (s *Service) SetNavigator(n Navigator) {
	s.mu.Lock()
	s.navigator = n
	s.mu.Unlock()
}

// Namespace returns the profile namespace in use.
func (s *Service) Namespace() string { return s.namespace }

// LastStatus returns the most recent status emitted by any handler.
func (s *Service) LastStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// ClearStatus forgets the last status, as navigating between screens does.
func (s *Service) ClearStatus() {
	s.mu.Lock()
	s.last = Status{}
	s.mu.Unlock()
}

// Report publishes st to the sink without running a handler. Launchers use it
// for configuration errors.
func (s *Service) Report(st Status) {
	s.emit(st)
}

func (s *Service) emit(st Status) Status {
	s.mu.Lock()
	s.last = st
	sink := s.sink
	s.mu.Unlock()
	if sink != nil {
		sink(st)
	}
	return st
}

func (s *Service) audit(ctx context.Context, action string, st Status, details string) {
	if s.auditor == nil {
		return
	}
	outcome := "success"
	if st.Failed() {
		outcome = "failure: " + st.Text
	}
	if err := s.auditor.LogAction(ctx, action, details+" outcome="+outcome); err != nil {
		logging.Warnf("could not record %s audit entry: %v", action, err)
	}
}

func (s *Service) provider() identity.Provider {
	if s.caps == nil {
		return nil
	}
	return s.caps.Provider()
}

func (s *Service) store() identity.DocumentStore {
	if s.caps == nil {
		return nil
	}
	return s.caps.Store()
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, email, password string) Status {
	p := s.provider()
	if p == nil {
		return s.emit(Failure(i18n.T("status.auth_not_ready")))
	}

	s.emit(Progress(i18n.T("status.signing_in")))
	u, err := p.SignInWithPassword(ctx, email, password)
	if err != nil {
		logging.Errorf("login error: %v", err)
		st := s.emit(Failure(i18n.T("status.login_failed", identity.ErrorMessage(err))))
		s.audit(ctx, ActionLogin, st, "email="+email)
		return st
	}

	shown := email
	if u != nil && u.Email != "" {
		shown = u.Email
	}
	st := s.emit(Success(i18n.T("status.login_success", shown)))
	s.audit(ctx, ActionLogin, st, "email="+shown)
	return st
}

// Register creates the account and then writes its profile record. The two
// steps are not atomic: when the profile write fails the account stays.
func (s *Service) Register(ctx context.Context, f RegistrationFields) Status {
	p, store := s.provider(), s.store()
	if p == nil || store == nil {
		return s.emit(Failure(i18n.T("status.services_not_ready")))
	}
	if utf8.RuneCountInString(f.Password) < MinPasswordLength {
		return s.emit(Failure(i18n.T("status.password_too_short")))
	}

	s.emit(Progress(i18n.T("status.registering")))
	u, err := p.CreateUser(ctx, f.Email, f.Password)
	if err == nil && (u == nil || u.UID == "") {
		err = identity.ErrNoUser
	}
	if err != nil {
		logging.Errorf("registration error: %v", err)
		st := s.emit(Failure(i18n.T("status.register_failed", identity.ErrorMessage(err))))
		s.audit(ctx, ActionRegister, st, "email="+f.Email)
		return st
	}

	rec := Record{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Phone:       f.Phone,
		DateOfBirth: f.DateOfBirth,
		CreatedAt:   s.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	if err := store.SetDocument(ctx, ProfilePath(s.namespace, u.UID), rec); err != nil {
		logging.Errorf("profile write for %s failed after account creation: %v", u.UID, err)
		st := s.emit(Failure(i18n.T("status.register_failed", identity.ErrorMessage(err))))
		s.audit(ctx, ActionRegister, st, "uid="+u.UID+" email="+f.Email)
		return st
	}

	st := s.emit(Success(i18n.T("status.register_success")))
	s.audit(ctx, ActionRegister, st, "uid="+u.UID+" email="+f.Email)
	s.mu.Lock()
	nav := s.navigator
	s.mu.Unlock()
	if nav != nil {
		nav.NavigateTo(ScreenLogin)
	}
	return st
}

// CompleteFederated exchanges a federated credential for a provider session.
func (s *Service) CompleteFederated(ctx context.Context, cred identity.Credential) Status {
	name := identity.ProviderName(cred.ProviderID)
	p := s.provider()
	if p == nil {
		return s.emit(Failure(i18n.T("status.federated_failed", name, i18n.T("status.auth_not_ready"))))
	}

	s.emit(Progress(i18n.T("status.federated_signing_in", name)))
	u, err := p.SignInWithCredential(ctx, cred)
	if err != nil {
		logging.Errorf("%s login error: %v", name, err)
		st := s.emit(Failure(i18n.T("status.federated_failed", name, identity.ErrorMessage(err))))
		s.audit(ctx, ActionFederatedLogin, st, "provider="+cred.ProviderID)
		return st
	}

	st := s.emit(Success(i18n.T("status.federated_success", name)))
	details := "provider=" + cred.ProviderID
	if u != nil {
		details += " uid=" + u.UID
	}
	s.audit(ctx, ActionFederatedLogin, st, details)
	return st
}

// CanLogin reports whether the login action may be offered.
func CanLogin(ready, busy bool, email, password string) bool {
	return ready && !busy && email != "" && password != ""
}

// CanRegister reports whether the register action may be offered.
func CanRegister(ready, busy bool, email, password, firstName string) bool {
	return CanLogin(ready, busy, email, password) && firstName != ""
}
