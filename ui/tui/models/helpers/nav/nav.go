// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package nav carries screen changes from views to the root model.
package nav

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/createch/core/account"
)

// Msg switches the visible screen. User initiated changes clear the status
// line; changes requested by a handler keep its outcome visible.
type Msg struct {
	Screen     account.Screen
	KeepStatus bool
}

// To is the command for a user initiated screen change.
func To(screen account.Screen) tea.Cmd {
	return func() tea.Msg { return Msg{Screen: screen} }
}

// After is the message a handler sends once it finished on the current screen.
func After(screen account.Screen) Msg {
	return Msg{Screen: screen, KeepStatus: true}
}
