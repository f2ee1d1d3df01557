// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/createch/buildvars"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/core/session"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/ui/tui/models/components/header"
	"github.com/toeirei/createch/ui/tui/models/helpers/nav"
	"github.com/toeirei/createch/ui/tui/models/views/root"
)

// Launcher starts a federated sign-in. *federated.Launcher satisfies it.
type Launcher interface {
	Launch(ctx context.Context)
}

type Deps struct {
	Session  *session.Session
	Account  *account.Service
	Google   Launcher
	Facebook Launcher
	Statuses <-chan account.Status
}

// Run shows the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rootDeps := root.Deps{
		Google:   deps.Google,
		Facebook: deps.Facebook,
		Statuses: deps.Statuses,
		Version:  buildvars.Version,
	}
	if deps.Session != nil {
		rootDeps.Session = deps.Session
	}
	if deps.Account != nil {
		rootDeps.Account = deps.Account
	}

	p := tea.NewProgram(
		root.New(ctx, rootDeps),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if deps.Session != nil {
		deps.Session.Watch(func(u *identity.User) {
			p.Send(header.IdentityMsg{User: u})
		})
	}
	if deps.Account != nil {
		deps.Account.SetNavigator(account.NavigatorFunc(func(s account.Screen) {
			p.Send(nav.After(s))
		}))
		defer deps.Account.SetNavigator(nil)
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		logging.Debugf("tui stopped: %v", ctx.Err())
		return nil
	}
	return err
}
