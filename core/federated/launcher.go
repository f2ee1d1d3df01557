// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package federated runs the Google and Facebook consent flows in the user's
// browser and hands the resulting credential to the account handlers.
package federated

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/config"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const defaultExchangeTimeout = 30 * time.Second

// Reporter publishes statuses outside of a handler run.
type Reporter interface {
	Report(st account.Status)
}

// Completer signs in with a federated credential. *account.Service
// implements it.
type Completer interface {
	Reporter
	CompleteFederated(ctx context.Context, cred identity.Credential) account.Status
}

// Deps are the collaborators shared by the launchers.
type Deps struct {
	Receiver  *Receiver
	Completer Completer
	// Presenter defaults to a ClipboardPresenter reporting to Completer.
	Presenter Presenter
	// Endpoint overrides the provider's OAuth endpoint when TokenURL is set.
	Endpoint oauth2.Endpoint
	// Timeout bounds the code exchange.
	Timeout time.Duration
}

// Launcher starts the consent flow of one provider.
type Launcher struct {
	providerID string
	setupKey   string
	conf       *oauth2.Config
	receiver   *Receiver
	completer  Completer
	presenter  Presenter
	timeout    time.Duration

	mu     sync.Mutex
	cancel func()
}

// NewGoogle builds the Google launcher. The request is only prepared when a
// client id is configured; the web client id takes precedence.
func NewGoogle(cfg config.GoogleConfig, deps Deps) *Launcher {
	l := newLauncher(identity.ProviderGoogle, "status.google_setup_incomplete", deps)
	clientID := cfg.WebClientID
	if clientID == "" {
		clientID = cfg.AndroidClientID
	}
	if clientID != "" {
		l.conf = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint(google.Endpoint, deps.Endpoint),
			Scopes:       []string{"openid", "profile", "email"},
		}
	}
	return l
}

// NewFacebook builds the Facebook launcher. The request is only prepared when
// an app id is configured.
func NewFacebook(cfg config.FacebookConfig, deps Deps) *Launcher {
	l := newLauncher(identity.ProviderFacebook, "status.facebook_setup_incomplete", deps)
	if cfg.AppID != "" {
		l.conf = &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			Endpoint:     endpoint(facebook.Endpoint, deps.Endpoint),
			Scopes:       []string{"public_profile", "email"},
		}
	}
	return l
}

func newLauncher(providerID, setupKey string, deps Deps) *Launcher {
	l := &Launcher{
		providerID: providerID,
		setupKey:   setupKey,
		receiver:   deps.Receiver,
		completer:  deps.Completer,
		presenter:  deps.Presenter,
		timeout:    deps.Timeout,
	}
	if l.presenter == nil {
		l.presenter = NewClipboardPresenter(deps.Completer)
	}
	if l.timeout <= 0 {
		l.timeout = defaultExchangeTimeout
	}
	return l
}

func endpoint(def, override oauth2.Endpoint) oauth2.Endpoint {
	if override.TokenURL != "" {
		return override
	}
	return def
}

// Name is the human-readable provider name.
func (l *Launcher) Name() string { return identity.ProviderName(l.providerID) }

// ProviderID is the Firebase provider id, e.g. "google.com".
func (l *Launcher) ProviderID() string { return l.providerID }

// Configured reports whether a consent request could be prepared.
func (l *Launcher) Configured() bool { return l.conf != nil }

// Launch presents the consent screen. The outcome arrives asynchronously
// through the Completer. Launching again supersedes a pending request.
func (l *Launcher) Launch(ctx context.Context) {
	if l.conf == nil {
		l.report(account.Warning(i18n.T(l.setupKey)))
		return
	}
	if l.receiver == nil {
		l.report(account.Failure(i18n.T("status.federated_failed", l.Name(), "no redirect receiver")))
		return
	}
	if err := l.receiver.Start(); err != nil {
		logging.Errorf("%s login: %v", l.Name(), err)
		l.report(account.Failure(i18n.T("status.federated_failed", l.Name(), err.Error())))
		return
	}

	conf := *l.conf
	conf.RedirectURL = l.receiver.RedirectURL()
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	cancel := l.receiver.Expect(state, func(resp Response) {
		l.handle(ctx, &conf, verifier, resp)
	})
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.cancel = cancel
	l.mu.Unlock()

	consentURL := conf.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
	logging.Debugf("%s consent flow started", l.Name())
	l.presenter.Present(l.Name(), consentURL)
}

func (l *Launcher) report(st account.Status) {
	if l.completer != nil {
		l.completer.Report(st)
	}
}

func (l *Launcher) handle(ctx context.Context, conf *oauth2.Config, verifier string, resp Response) {
	switch resp.Type {
	case ResponseSuccess:
	case ResponseError:
		msg := resp.Params["error_description"]
		if msg == "" {
			msg = resp.Params["error"]
		}
		logging.Warnf("%s consent returned error: %s", l.Name(), msg)
		l.report(account.Failure(i18n.T("status.federated_failed", l.Name(), msg)))
		return
	default:
		logging.Debugf("%s consent ended with %s", l.Name(), resp.Type)
		return
	}

	exCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	tok, err := conf.Exchange(exCtx, resp.Params["code"], oauth2.VerifierOption(verifier))
	if err != nil {
		logging.Errorf("%s token exchange failed: %v", l.Name(), err)
		l.report(account.Failure(i18n.T("status.federated_failed", l.Name(), exchangeMessage(err))))
		return
	}

	cred, err := l.credential(tok)
	if err != nil {
		l.report(account.Failure(i18n.T("status.federated_failed", l.Name(), err.Error())))
		return
	}
	if l.completer != nil {
		l.completer.CompleteFederated(ctx, cred)
	}
}

// credential picks the token Firebase expects from each provider: the ID
// token for Google, the access token for Facebook.
func (l *Launcher) credential(tok *oauth2.Token) (identity.Credential, error) {
	switch l.providerID {
	case identity.ProviderGoogle:
		idToken, _ := tok.Extra("id_token").(string)
		if idToken == "" {
			return identity.Credential{}, errors.New("google did not return an id_token")
		}
		return identity.GoogleCredential(idToken), nil
	default:
		if tok.AccessToken == "" {
			return identity.Credential{}, errors.New("no access_token returned")
		}
		return identity.Credential{ProviderID: l.providerID, AccessToken: tok.AccessToken}, nil
	}
}

func exchangeMessage(err error) string {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.ErrorDescription != "" {
			return rerr.ErrorDescription
		}
		if rerr.ErrorCode != "" {
			return rerr.ErrorCode
		}
	}
	return err.Error()
}
