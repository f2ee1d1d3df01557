// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package firebase adapts the Firebase Go libraries to the identity
// interfaces: end-user sign-in through the Identity Toolkit API, profile
// documents through Firestore, ID-token verification through the Admin SDK.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	fb "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/core/session"
	"github.com/toeirei/createch/internal/logging"
	"google.golang.org/api/option"
)

// Config is the subset of the project settings the adapter needs.
type Config struct {
	APIKey        string
	ProjectID     string
	StorageBucket string
	AuthConfig    AuthConfig
	// FirestoreOptions are appended to the options used for the Firestore
	// client, e.g. option.WithoutAuthentication for the emulator.
	FirestoreOptions []option.ClientOption
}

// App bundles the initialized Firebase clients. At most one App exists per
// process.
type App struct {
	cfg  Config
	fb   *fb.App
	auth *Auth
	docs *DocumentStore

	adminOnce sync.Once
	admin     *fbauth.Client
	adminErr  error
}

var (
	appMu      sync.Mutex
	defaultApp *App
)

// Initialize creates the process-wide App, or returns the existing one.
func Initialize(ctx context.Context, cfg Config) (*App, error) {
	appMu.Lock()
	defer appMu.Unlock()

	if defaultApp != nil {
		return defaultApp, nil
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defaultApp = a
	return a, nil
}

// Shutdown closes the process-wide App so the next Initialize starts fresh.
func Shutdown() error {
	appMu.Lock()
	defer appMu.Unlock()
	if defaultApp == nil {
		return nil
	}
	err := defaultApp.close()
	defaultApp = nil
	return err
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	cfg.AuthConfig.APIKey = cfg.APIKey

	auth, err := NewAuth(ctx, cfg.AuthConfig)
	if err != nil {
		return nil, err
	}

	opts := append([]option.ClientOption{option.WithTokenSource(auth.TokenSource())}, cfg.FirestoreOptions...)
	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.ProjectID, StorageBucket: cfg.StorageBucket}, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create firestore client: %w", err)
	}
	logging.Debugf("firebase app initialized for project %s", cfg.ProjectID)

	return &App{cfg: cfg, fb: app, auth: auth, docs: NewDocumentStore(client)}, nil
}

func (a *App) close() error {
	if a.docs != nil {
		return a.docs.Close()
	}
	return nil
}

// Auth returns the end-user auth adapter.
func (a *App) Auth() *Auth { return a.auth }

// Documents returns the Firestore document store.
func (a *App) Documents() *DocumentStore { return a.docs }

// VerifyCurrentUser verifies the current ID token against Google's public keys
// with the Admin SDK and returns its uid.
func (a *App) VerifyCurrentUser(ctx context.Context) (string, error) {
	idToken, err := a.auth.IDToken(ctx)
	if err != nil {
		return "", err
	}
	a.adminOnce.Do(func() {
		a.admin, a.adminErr = a.fb.Auth(ctx)
	})
	if a.adminErr != nil {
		return "", fmt.Errorf("could not create admin auth client: %w", a.adminErr)
	}
	tok, err := a.admin.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return tok.UID, nil
}

// Opener returns a session.Opener backed by the process-wide App.
func Opener(cfg Config) session.Opener {
	return func(ctx context.Context) (identity.Provider, identity.DocumentStore, error) {
		app, err := Initialize(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return app.Auth(), app.Documents(), nil
	}
}
