// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package statusline shows the latest handler status below the active screen.
package statusline

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/ui/tui/util"
)

// Msg replaces the shown status.
type Msg struct {
	Status account.Status
}

// ClearMsg hides the status.
type ClearMsg struct{}

var kindColors = map[account.Kind]lipgloss.Color{
	account.KindProgress: lipgloss.Color("33"),
	account.KindSuccess:  lipgloss.Color("42"),
	account.KindFailure:  lipgloss.Color("196"),
	account.KindWarning:  lipgloss.Color("214"),
}

type Model struct {
	status account.Status
	size   util.Size
}

func New() *Model {
	return &Model{}
}

// Status returns the shown status. The zero Status means nothing is shown.
func (m Model) Status() account.Status { return m.status }

// Update handles Msg and ClearMsg and reports whether msg was one of them.
func (m *Model) Update(msg tea.Msg) bool {
	m.size.Update(msg)
	switch msg := msg.(type) {
	case Msg:
		m.status = msg.Status
		return true
	case ClearMsg:
		m.status = account.Status{}
		return true
	}
	return false
}

func (m Model) View() string {
	if m.status.Text == "" {
		return ""
	}
	style := lipgloss.NewStyle().
		Foreground(kindColors[m.status.Kind]).
		Padding(0, 1)
	if m.size.Width > 2 {
		style = style.Width(m.size.Width)
	}
	if m.status.Terminal() {
		style = style.Bold(true)
	}
	return style.Render(m.status.Text)
}
