// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package forminput

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/ui/tui/models/helpers/form"
)

// Label is static text inside a form. It never takes focus.
type Label struct {
	Text  string
	Style lipgloss.Style
}

func NewLabel(text string) *Label {
	return &Label{
		Text:  text,
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1),
	}
}

func (l *Label) Skip() bool { return true }

func (l *Label) View(width int) string {
	return l.Style.MaxWidth(max(width, 1)).Render(l.Text)
}

func (l *Label) Focus(help.KeyMap) tea.Cmd { return nil }
func (l *Label) Blur()                     {}
func (l *Label) Get() any                  { return nil }
func (l *Label) Init() tea.Cmd             { return nil }
func (l *Label) Reset()                    {}
func (l *Label) Set(any)                   {}

func (l *Label) Update(tea.Msg) (tea.Cmd, form.Action) { return nil, form.ActionNone }

var (
	_ form.FormInput = (*Label)(nil)
	_ form.Skipper   = (*Label)(nil)
)
