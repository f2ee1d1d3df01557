// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package identity defines the narrow capability surface createch needs from
// an authentication provider and a document store. Handlers depend on these
// interfaces only, so tests can substitute scripted doubles.
package identity

import (
	"context"
	"errors"

	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/status"
)

// Provider ids used by federated credentials.
const (
	ProviderPassword  = "password"
	ProviderAnonymous = "anonymous"
	ProviderCustom    = "custom"
	ProviderGoogle    = "google.com"
	ProviderFacebook  = "facebook.com"
)

// ErrNoUser is returned by operations that need a signed-in user.
var ErrNoUser = errors.New("no signed-in user")

// User is the identity the provider reports for the signed-in principal.
// A nil *User means signed out.
type User struct {
	UID         string
	Email       string
	DisplayName string
	ProviderID  string
	Anonymous   bool
}

// SameIdentity reports whether a and b describe the same signed-in principal.
func SameIdentity(a, b *User) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UID == b.UID && a.Anonymous == b.Anonymous
}

// Credential is a token obtained from a federated consent flow.
type Credential struct {
	ProviderID  string
	IDToken     string
	AccessToken string
}

// GoogleCredential wraps a Google ID token.
func GoogleCredential(idToken string) Credential {
	return Credential{ProviderID: ProviderGoogle, IDToken: idToken}
}

// FacebookCredential wraps a Facebook access token.
func FacebookCredential(accessToken string) Credential {
	return Credential{ProviderID: ProviderFacebook, AccessToken: accessToken}
}

// ProviderName returns the human-readable name of a federated provider id.
func ProviderName(providerID string) string {
	switch providerID {
	case ProviderGoogle:
		return "Google"
	case ProviderFacebook:
		return "Facebook"
	default:
		return providerID
	}
}

// Provider is the authentication capability used by sessions and handlers.
type Provider interface {
	// CurrentUser returns the signed-in user or nil.
	CurrentUser() *User
	// OnAuthStateChanged registers fn for auth-state transitions. fn is called
	// once with the current user right after registration. The returned
	// function removes the registration.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())

	SignInAnonymously(ctx context.Context) (*User, error)
	SignInWithCustomToken(ctx context.Context, token string) (*User, error)
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	SignInWithCredential(ctx context.Context, cred Credential) (*User, error)
	CreateUser(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
}

// DocumentStore writes whole documents addressed by slash-separated paths.
type DocumentStore interface {
	SetDocument(ctx context.Context, path string, data any) error
}

// ErrorMessage returns the provider-supplied message of err: the REST error
// message, else the gRPC status message, else err.Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	if st, ok := status.FromError(err); ok && st.Message() != "" {
		return st.Message()
	}
	return err.Error()
}
