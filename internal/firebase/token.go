// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package firebase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/toeirei/createch/core/identity"
)

// idTokenClaims are the Firebase-specific claims of an ID token.
type idTokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Firebase struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
	jwt.RegisteredClaims
}

// parseIDToken decodes the claims of a Firebase ID token without verifying
// its signature. The token was just issued to us over TLS by the Identity
// Toolkit; verification against Google's keys is done separately through
// the Admin SDK when requested.
func parseIDToken(raw string) (*identity.User, time.Time, error) {
	if raw == "" {
		return nil, time.Time{}, errors.New("empty id token")
	}
	var claims idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, time.Time{}, fmt.Errorf("could not decode id token: %w", err)
	}

	uid := claims.UserID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return nil, time.Time{}, errors.New("id token carries no user id")
	}

	var expiry time.Time
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	u := &identity.User{
		UID:         uid,
		Email:       claims.Email,
		DisplayName: claims.Name,
		ProviderID:  claims.Firebase.SignInProvider,
		Anonymous:   claims.Firebase.SignInProvider == identity.ProviderAnonymous,
	}
	return u, expiry, nil
}
