// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package identitytest provides scriptable identity.Provider and
// identity.DocumentStore doubles.
package identitytest

import (
	"context"
	"strings"
	"sync"

	"github.com/toeirei/createch/core/identity"
)

// Provider is an in-memory identity.Provider. Every operation can be
// replaced through Overwrites; the defaults succeed and publish the
// resulting user like a real provider would.
type Provider struct {
	Overwrites ProviderOverwrites

	notifier identity.Notifier
	mu       sync.Mutex
	calls    map[string]int
	subs     int
}

type ProviderOverwrites struct {
	SignInAnonymously     func(ctx context.Context) (*identity.User, error)
	SignInWithCustomToken func(ctx context.Context, token string) (*identity.User, error)
	SignInWithPassword    func(ctx context.Context, email, password string) (*identity.User, error)
	SignInWithCredential  func(ctx context.Context, cred identity.Credential) (*identity.User, error)
	CreateUser            func(ctx context.Context, email, password string) (*identity.User, error)
	SignOut               func(ctx context.Context) error
}

var _ identity.Provider = (*Provider)(nil)

// NewProvider returns a signed-out provider.
func NewProvider(overwrites ProviderOverwrites) *Provider {
	return &Provider{Overwrites: overwrites, calls: map[string]int{}}
}

// Calls returns how often op was invoked, e.g. Calls("CreateUser").
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

// Subscriptions returns the number of live auth-state subscriptions.
func (p *Provider) Subscriptions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subs
}

// SetUser publishes u without going through a sign-in call.
func (p *Provider) SetUser(u *identity.User) {
	p.notifier.Publish(u)
}

func (p *Provider) count(op string) {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[op]++
	p.mu.Unlock()
}

func (p *Provider) finish(u *identity.User, err error) (*identity.User, error) {
	if err != nil {
		return nil, err
	}
	p.notifier.Publish(u)
	return u, nil
}

func (p *Provider) CurrentUser() *identity.User {
	return p.notifier.Current()
}

func (p *Provider) OnAuthStateChanged(fn func(*identity.User)) func() {
	p.count("OnAuthStateChanged")
	p.mu.Lock()
	p.subs++
	p.mu.Unlock()

	unsub := p.notifier.Subscribe(fn)
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.subs--
			p.mu.Unlock()
			unsub()
		})
	}
}

func (p *Provider) SignInAnonymously(ctx context.Context) (*identity.User, error) {
	p.count("SignInAnonymously")
	if p.Overwrites.SignInAnonymously != nil {
		return p.finish(p.Overwrites.SignInAnonymously(ctx))
	}
	return p.finish(&identity.User{UID: "anon-uid", Anonymous: true, ProviderID: identity.ProviderAnonymous}, nil)
}

func (p *Provider) SignInWithCustomToken(ctx context.Context, token string) (*identity.User, error) {
	p.count("SignInWithCustomToken")
	if p.Overwrites.SignInWithCustomToken != nil {
		return p.finish(p.Overwrites.SignInWithCustomToken(ctx, token))
	}
	return p.finish(&identity.User{UID: "custom-" + token, ProviderID: identity.ProviderCustom}, nil)
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*identity.User, error) {
	p.count("SignInWithPassword")
	if p.Overwrites.SignInWithPassword != nil {
		return p.finish(p.Overwrites.SignInWithPassword(ctx, email, password))
	}
	return p.finish(&identity.User{UID: uidFor(email), Email: email, ProviderID: identity.ProviderPassword}, nil)
}

func (p *Provider) SignInWithCredential(ctx context.Context, cred identity.Credential) (*identity.User, error) {
	p.count("SignInWithCredential")
	if p.Overwrites.SignInWithCredential != nil {
		return p.finish(p.Overwrites.SignInWithCredential(ctx, cred))
	}
	return p.finish(&identity.User{UID: "fed-" + cred.ProviderID, ProviderID: cred.ProviderID}, nil)
}

func (p *Provider) CreateUser(ctx context.Context, email, password string) (*identity.User, error) {
	p.count("CreateUser")
	if p.Overwrites.CreateUser != nil {
		return p.finish(p.Overwrites.CreateUser(ctx, email, password))
	}
	return p.finish(&identity.User{UID: uidFor(email), Email: email, ProviderID: identity.ProviderPassword}, nil)
}

func (p *Provider) SignOut(ctx context.Context) error {
	p.count("SignOut")
	if p.Overwrites.SignOut != nil {
		if err := p.Overwrites.SignOut(ctx); err != nil {
			return err
		}
	}
	p.notifier.Publish(nil)
	return nil
}

func uidFor(email string) string {
	return "uid-" + strings.ReplaceAll(email, "@", "-at-")
}
