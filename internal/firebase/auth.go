// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/internal/store"
	"golang.org/x/oauth2"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

const (
	defaultSecureTokenURL = "https://securetoken.googleapis.com/v1/token"
	// assertionRequestURI is the continue URI sent with federated assertions.
	// The Identity Toolkit only requires it to be a valid http(s) URL.
	assertionRequestURI = "http://localhost"
	refreshTimeout      = 30 * time.Second
)

// Persistence keeps the signed-in state across process runs.
// *store.AuthStates implements it.
type Persistence interface {
	Load(ctx context.Context) (store.AuthState, error)
	Save(ctx context.Context, st store.AuthState) error
	Clear(ctx context.Context) error
}

// AuthConfig configures the client-side auth adapter.
type AuthConfig struct {
	APIKey string
	// EmulatorHost, e.g. "127.0.0.1:9099", routes all calls to the auth emulator.
	EmulatorHost string
	// Endpoint overrides the Identity Toolkit base URL.
	Endpoint string
	// SecureTokenURL overrides the token refresh endpoint.
	SecureTokenURL string
	Persistence    Persistence
}

// Auth implements identity.Provider on top of the Identity Toolkit REST API.
type Auth struct {
	svc      *identitytoolkit.Service
	tokenURL string
	persist  Persistence
	notifier identity.Notifier

	mu    sync.Mutex
	state *store.AuthState
}

var _ identity.Provider = (*Auth)(nil)

// NewAuth builds the adapter and restores a persisted sign-in if present.
func NewAuth(ctx context.Context, cfg AuthConfig) (*Auth, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("firebase api key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	tokenURL := defaultSecureTokenURL
	switch {
	case cfg.Endpoint != "":
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	case cfg.EmulatorHost != "":
		opts = append(opts, option.WithEndpoint("http://"+cfg.EmulatorHost+"/www.googleapis.com/identitytoolkit/v3/relyingparty/"))
		tokenURL = "http://" + cfg.EmulatorHost + "/securetoken.googleapis.com/v1/token"
	}
	if cfg.SecureTokenURL != "" {
		tokenURL = cfg.SecureTokenURL
	}

	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create identity toolkit client: %w", err)
	}

	a := &Auth{
		svc:      svc,
		tokenURL: tokenURL + "?key=" + url.QueryEscape(cfg.APIKey),
		persist:  cfg.Persistence,
	}
	a.restore(ctx)
	return a, nil
}

func (a *Auth) restore(ctx context.Context) {
	if a.persist == nil {
		return
	}
	st, err := a.persist.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.Warnf("could not restore auth state: %v", err)
		}
		return
	}
	if st.UID == "" || st.RefreshToken == "" {
		return
	}
	a.mu.Lock()
	a.state = &st
	a.mu.Unlock()
	logging.Debugf("restored auth state for uid %s", st.UID)
	a.notifier.Publish(userFromState(&st))
}

func userFromState(st *store.AuthState) *identity.User {
	if st == nil {
		return nil
	}
	return &identity.User{
		UID:         st.UID,
		Email:       st.Email,
		DisplayName: st.DisplayName,
		ProviderID:  st.ProviderID,
		Anonymous:   st.Anonymous,
	}
}

// signedIn is the common part of every sign-in response.
type signedIn struct {
	idToken      string
	refreshToken string
	localID      string
	email        string
	displayName  string
	providerID   string
}

// complete records a successful sign-in and notifies listeners.
func (a *Auth) complete(ctx context.Context, r signedIn) (*identity.User, error) {
	claims, expiry, err := parseIDToken(r.idToken)
	if err != nil {
		return nil, err
	}

	st := store.AuthState{
		UID:          first(r.localID, claims.UID),
		Email:        first(r.email, claims.Email),
		DisplayName:  first(r.displayName, claims.DisplayName),
		ProviderID:   first(r.providerID, claims.ProviderID),
		Anonymous:    claims.Anonymous || r.providerID == identity.ProviderAnonymous,
		IDToken:      r.idToken,
		RefreshToken: r.refreshToken,
		ExpiresAt:    expiry,
	}

	a.mu.Lock()
	a.state = &st
	a.mu.Unlock()

	if a.persist != nil {
		if err := a.persist.Save(ctx, st); err != nil {
			logging.Warnf("could not persist auth state: %v", err)
		}
	}

	u := userFromState(&st)
	a.notifier.Publish(u)
	return u, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *Auth) CurrentUser() *identity.User {
	return a.notifier.Current()
}

func (a *Auth) OnAuthStateChanged(fn func(*identity.User)) func() {
	return a.notifier.Subscribe(fn)
}

func (a *Auth) SignInAnonymously(ctx context.Context) (*identity.User, error) {
	resp, err := a.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("anonymous sign-in: %w", err)
	}
	return a.complete(ctx, signedIn{
		idToken:      resp.IdToken,
		refreshToken: resp.RefreshToken,
		localID:      resp.LocalId,
		providerID:   identity.ProviderAnonymous,
	})
}

func (a *Auth) SignInWithCustomToken(ctx context.Context, token string) (*identity.User, error) {
	resp, err := a.svc.Relyingparty.VerifyCustomToken(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyCustomTokenRequest{
		Token:             token,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom token sign-in: %w", err)
	}
	return a.complete(ctx, signedIn{
		idToken:      resp.IdToken,
		refreshToken: resp.RefreshToken,
		providerID:   identity.ProviderCustom,
	})
}

func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*identity.User, error) {
	resp, err := a.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("password sign-in: %w", err)
	}
	return a.complete(ctx, signedIn{
		idToken:      resp.IdToken,
		refreshToken: resp.RefreshToken,
		localID:      resp.LocalId,
		email:        resp.Email,
		displayName:  resp.DisplayName,
		providerID:   identity.ProviderPassword,
	})
}

func (a *Auth) SignInWithCredential(ctx context.Context, cred identity.Credential) (*identity.User, error) {
	body := url.Values{}
	body.Set("providerId", cred.ProviderID)
	switch {
	case cred.IDToken != "":
		body.Set("id_token", cred.IDToken)
	case cred.AccessToken != "":
		body.Set("access_token", cred.AccessToken)
	default:
		return nil, errors.New("credential carries no token")
	}

	resp, err := a.svc.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          body.Encode(),
		RequestUri:        assertionRequestURI,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s sign-in: %w", cred.ProviderID, err)
	}
	if resp.ErrorMessage != "" {
		return nil, errors.New(resp.ErrorMessage)
	}
	return a.complete(ctx, signedIn{
		idToken:      resp.IdToken,
		refreshToken: resp.RefreshToken,
		localID:      resp.LocalId,
		email:        resp.Email,
		displayName:  resp.DisplayName,
		providerID:   first(resp.ProviderId, cred.ProviderID),
	})
}

func (a *Auth) CreateUser(ctx context.Context, email, password string) (*identity.User, error) {
	resp, err := a.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return a.complete(ctx, signedIn{
		idToken:      resp.IdToken,
		refreshToken: resp.RefreshToken,
		localID:      resp.LocalId,
		email:        first(resp.Email, email),
		displayName:  resp.DisplayName,
		providerID:   identity.ProviderPassword,
	})
}

// SignOut forgets the local sign-in. Tokens are not revoked server-side.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.state = nil
	a.mu.Unlock()

	var err error
	if a.persist != nil {
		err = a.persist.Clear(ctx)
	}
	a.notifier.Publish(nil)
	return err
}

// IDToken returns a valid ID token for the current user, refreshing it when
// it has expired.
func (a *Auth) IDToken(ctx context.Context) (string, error) {
	tok, err := a.token(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// TokenSource yields the current user's ID token as an OAuth2 bearer token,
// which is what Firestore expects from end-user clients.
func (a *Auth) TokenSource() oauth2.TokenSource {
	return tokenSourceFunc(func() (*oauth2.Token, error) {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return a.token(ctx)
	})
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func (a *Auth) token(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == nil {
		return nil, identity.ErrNoUser
	}
	current := &oauth2.Token{
		AccessToken:  a.state.IDToken,
		TokenType:    "Bearer",
		RefreshToken: a.state.RefreshToken,
		Expiry:       a.state.ExpiresAt,
	}
	if current.Valid() {
		return current, nil
	}

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	fresh, err := conf.TokenSource(ctx, current).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh id token: %w", err)
	}

	idToken := fresh.AccessToken
	if v, ok := fresh.Extra("id_token").(string); ok && v != "" {
		idToken = v
	}
	a.state.IDToken = idToken
	if fresh.RefreshToken != "" {
		a.state.RefreshToken = fresh.RefreshToken
	}
	if _, exp, err := parseIDToken(idToken); err == nil && !exp.IsZero() {
		a.state.ExpiresAt = exp
	} else {
		a.state.ExpiresAt = fresh.Expiry
	}
	if a.persist != nil {
		if err := a.persist.Save(ctx, *a.state); err != nil {
			logging.Warnf("could not persist refreshed token: %v", err)
		}
	}

	return &oauth2.Token{
		AccessToken:  a.state.IDToken,
		TokenType:    "Bearer",
		RefreshToken: a.state.RefreshToken,
		Expiry:       a.state.ExpiresAt,
	}, nil
}
