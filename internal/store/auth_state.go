// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
)

// AuthState is the persisted sign-in of one Firebase project.
type AuthState struct {
	UID          string
	Email        string
	DisplayName  string
	ProviderID   string
	Anonymous    bool
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// authStateModel maps the auth_state table.
type authStateModel struct {
	bun.BaseModel `bun:"table:auth_state"`
	StateKey      string       `bun:"state_key,pk"`
	UID           string       `bun:"uid"`
	Email         string       `bun:"email"`
	DisplayName   string       `bun:"display_name"`
	ProviderID    string       `bun:"provider_id"`
	Anonymous     bool         `bun:"anonymous"`
	IDToken       string       `bun:"id_token"`
	RefreshToken  string       `bun:"refresh_token"`
	ExpiresAt     sql.NullTime `bun:"expires_at"`
	UpdatedAt     time.Time    `bun:"updated_at"`
}

// AuthStates scopes auth-state persistence to key, usually the Firebase
// API key or project id.
type AuthStates struct {
	store *Store
	key   string
}

// AuthStates returns the persistence handle for key.
func (s *Store) AuthStates(key string) *AuthStates {
	return &AuthStates{store: s, key: key}
}

// Load returns the persisted state or ErrNotFound.
func (a *AuthStates) Load(ctx context.Context) (AuthState, error) {
	var m authStateModel
	err := a.store.bun.NewSelect().Model(&m).Where("state_key = ?", a.key).Limit(1).Scan(ctx)
	if err != nil {
		return AuthState{}, MapDBError(err)
	}
	st := AuthState{
		UID:          m.UID,
		Email:        m.Email,
		DisplayName:  m.DisplayName,
		ProviderID:   m.ProviderID,
		Anonymous:    m.Anonymous,
		IDToken:      m.IDToken,
		RefreshToken: m.RefreshToken,
	}
	if m.ExpiresAt.Valid {
		st.ExpiresAt = m.ExpiresAt.Time
	}
	return st, nil
}

// Save replaces the persisted state.
func (a *AuthStates) Save(ctx context.Context, st AuthState) error {
	m := authStateModel{
		StateKey:     a.key,
		UID:          st.UID,
		Email:        st.Email,
		DisplayName:  st.DisplayName,
		ProviderID:   st.ProviderID,
		Anonymous:    st.Anonymous,
		IDToken:      st.IDToken,
		RefreshToken: st.RefreshToken,
		ExpiresAt:    sql.NullTime{Time: st.ExpiresAt.UTC(), Valid: !st.ExpiresAt.IsZero()},
		UpdatedAt:    a.store.now().UTC(),
	}
	// Delete and insert keeps the upsert portable across the three dialects.
	return a.store.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*authStateModel)(nil)).Where("state_key = ?", a.key).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		_, err := tx.NewInsert().Model(&m).Exec(ctx)
		return MapDBError(err)
	})
}

// Clear removes the persisted state. Clearing an absent state is not an error.
func (a *AuthStates) Clear(ctx context.Context) error {
	_, err := a.store.bun.NewDelete().Model((*authStateModel)(nil)).Where("state_key = ?", a.key).Exec(ctx)
	return MapDBError(err)
}
