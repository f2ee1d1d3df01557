// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package header

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/ui/tui/util"
)

const logo string = "" +
	"┌─┐┬─┐┌─┐┌─┐╔╦╗╔═╗╔═╗╦ ╦\n" +
	"│  ├┬┘├┤ ├─┤ ║ ║╣ ║  ╠═╣\n" +
	"└─┘┴└─└─┘┴ ┴ ╩ ╚═╝╚═╝╩ ╩"

// minLogoHeight is the terminal height below which only the brand name is shown.
const minLogoHeight = 24

// IdentityMsg replaces the signed-in line below the logo.
type IdentityMsg struct {
	User *identity.User
}

type Model struct {
	Brand    string
	identity string
	size     util.Size
}

func New(brand string) *Model {
	return &Model{Brand: brand}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(IdentityMsg); ok {
		m.identity = describe(msg.User)
		return nil
	}
	m.size.Update(msg)
	return nil
}

// Identity returns the signed-in line, empty when signed out.
func (m Model) Identity() string { return m.identity }

func describe(u *identity.User) string {
	switch {
	case u == nil:
		return ""
	case u.Anonymous:
		return i18n.T("app.user_anonymous")
	case u.Email != "":
		return i18n.T("app.user_signed_in", u.Email)
	default:
		return i18n.T("app.user_signed_in", u.DisplayName)
	}
}

func (m Model) View() string {
	content := logo
	if m.size.Height < minLogoHeight || m.size.Width < lipgloss.Width(logo) {
		content = lipgloss.NewStyle().Bold(true).Render(m.Brand)
	}
	if m.identity != "" {
		content = lipgloss.JoinVertical(lipgloss.Center, content,
			lipgloss.NewStyle().Faint(true).Render(m.identity))
	}
	return lipgloss.
		NewStyle().
		Foreground(lipgloss.Color("205")).
		Border(lipgloss.NormalBorder(), false).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("240")).
		Render(lipgloss.PlaceHorizontal(
			m.size.Width,
			lipgloss.Center,
			content,
		))
}
