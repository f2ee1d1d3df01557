// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/federated"
	"github.com/toeirei/createch/core/session"
	"github.com/toeirei/createch/internal/config"
	"github.com/toeirei/createch/internal/firebase"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/internal/store"
)

// readyTimeout bounds how long a command waits for the session bootstrap.
var readyTimeout = 30 * time.Second

// backend is the provider connection behind a session.
type backend struct {
	open   session.Opener
	verify func(ctx context.Context) (string, error)
	close  func() error
}

// newBackend builds the Firebase backend. Tests replace it with an in-memory
// provider.
var newBackend = func(cfg config.Config, st *store.Store) backend {
	fcfg := firebase.Config{
		APIKey:        cfg.Firebase.APIKey,
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
		AuthConfig: firebase.AuthConfig{
			EmulatorHost: cfg.Firebase.AuthEmulatorHost,
			Persistence:  st.AuthStates(authStateKey(cfg)),
		},
	}
	return backend{
		open: firebase.Opener(fcfg),
		verify: func(ctx context.Context) (string, error) {
			app, err := firebase.Initialize(ctx, fcfg)
			if err != nil {
				return "", err
			}
			return app.VerifyCurrentUser(ctx)
		},
		close: firebase.Shutdown,
	}
}

func authStateKey(cfg config.Config) string {
	if cfg.Firebase.ProjectID == "" {
		return "default"
	}
	return cfg.Firebase.ProjectID
}

// statusFeed receives every status the handlers and launchers emit.
type statusFeed struct {
	ch chan account.Status

	mu   sync.Mutex
	echo io.Writer
}

func newStatusFeed() *statusFeed {
	return &statusFeed{ch: make(chan account.Status, 64)}
}

func (f *statusFeed) sink(st account.Status) {
	f.mu.Lock()
	echo := f.echo
	f.mu.Unlock()
	if echo != nil && !st.Terminal() {
		_, _ = fmt.Fprintln(echo, st.Text)
	}
	select {
	case f.ch <- st:
	default:
		logging.Debugf("status feed full, dropped %q", st.Text)
	}
}

// echoProgress prints progress statuses to w; nil silences them.
func (f *statusFeed) echoProgress(w io.Writer) {
	f.mu.Lock()
	f.echo = w
	f.mu.Unlock()
}

func (f *statusFeed) drain() {
	for {
		select {
		case <-f.ch:
		default:
			return
		}
	}
}

// awaitTerminal returns the next status that ends an operation.
func (f *statusFeed) awaitTerminal(ctx context.Context) (account.Status, error) {
	for {
		select {
		case st := <-f.ch:
			if st.Terminal() {
				return st, nil
			}
		case <-ctx.Done():
			return account.Status{}, ctx.Err()
		}
	}
}

// services is everything a command needs once configuration is loaded.
type services struct {
	store    *store.Store
	backend  backend
	session  *session.Session
	account  *account.Service
	receiver *federated.Receiver
	google   *federated.Launcher
	facebook *federated.Launcher
	feed     *statusFeed
	closers  []io.Closer
	closed   sync.Once
}

var svc *services

// setupServices opens the local store, starts the session bootstrap and
// builds the handlers. It runs once per process.
func setupServices(cmd *cobra.Command, _ []string) error {
	if svc != nil {
		return nil
	}

	st, err := store.Open(appConfig.Database.Type, appConfig.Database.Dsn)
	if err != nil {
		return errors.New(i18n.T("config.error_init_db", err))
	}

	s := &services{store: st, feed: newStatusFeed()}
	s.backend = newBackend(appConfig, st)
	s.session = session.Initialize(cmd.Context(), session.Config{
		APIKey:           appConfig.Firebase.APIKey,
		InitialAuthToken: appConfig.App.InitialAuthToken,
	}, s.backend.open)

	s.account = account.NewService(s.session,
		account.WithNamespace(appConfig.App.Namespace),
		account.WithStatusSink(s.feed.sink),
		account.WithAuditor(st),
	)

	s.receiver = federated.NewReceiver(appConfig.OAuth.RedirectAddr)
	deps := federated.Deps{Receiver: s.receiver, Completer: s.account}
	s.google = federated.NewGoogle(appConfig.OAuth.Google, deps)
	s.facebook = federated.NewFacebook(appConfig.OAuth.Facebook, deps)

	svc = s
	return nil
}

// closeServices is the single teardown point for everything setupServices
// opened.
func closeServices() {
	if svc == nil {
		return
	}
	s := svc
	s.closed.Do(func() {
		s.session.Close()
		if err := s.receiver.Close(); err != nil {
			logging.Debugf("closing redirect receiver: %v", err)
		}
		if s.backend.close != nil {
			if err := s.backend.close(); err != nil {
				logging.Debugf("closing backend: %v", err)
			}
		}
		if err := s.store.Close(); err != nil {
			logging.Warnf("closing store: %v", err)
		}
		for _, c := range s.closers {
			_ = c.Close()
		}
		svc = nil
	})
}

// awaitSession blocks until the bootstrap resolved and surfaces its status.
func awaitSession(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), readyTimeout)
	defer cancel()
	if err := svc.session.WaitReady(ctx); err != nil {
		return err
	}
	if msg := svc.session.Status(); msg != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}
	return nil
}

// statusResult prints a successful terminal status and turns a failed one
// into the command error.
func statusResult(cmd *cobra.Command, st account.Status) error {
	if st.Failed() {
		return errors.New(st.Text)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), st.Text)
	return nil
}
