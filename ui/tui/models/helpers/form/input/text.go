// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package forminput contains the inputs used by form.Form.
package forminput

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/ui/tui/models/helpers/form"
	"github.com/toeirei/createch/ui/tui/util"
)

type Text struct {
	Label       string
	Placeholder string
	KeyMap      TextKeyMap

	input    textinput.Model
	focused  bool
	password bool
}

type TextKeyMap struct {
	Next   key.Binding
	Reveal key.Binding
}

func (k TextKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Next, k.Reveal} }

func (k TextKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Next, k.Reveal}} }

func NewText(label, placeholder string) *Text {
	reveal := key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "show password"),
	)
	reveal.SetEnabled(false)

	return &Text{
		Label:       label,
		Placeholder: placeholder,
		KeyMap: TextKeyMap{
			Next: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "next"),
			),
			Reveal: reveal,
		},
		input: textinput.New(),
	}
}

// NewPassword returns a text input that masks its value until revealed.
func NewPassword(label, placeholder string) *Text {
	t := NewText(label, placeholder)
	t.password = true
	t.input.EchoMode = textinput.EchoPassword
	t.input.EchoCharacter = '•'
	t.KeyMap.Reveal.SetEnabled(true)
	return t
}

func (t *Text) Blur() {
	t.input.Blur()
	t.focused = false
}

func (t *Text) Focus(baseKeyMap help.KeyMap) tea.Cmd {
	t.focused = true
	return tea.Batch(t.input.Focus(), util.AnnounceKeyMapCmd(baseKeyMap, t.KeyMap))
}

// Value returns the current text.
func (t *Text) Value() string {
	return t.input.Value()
}

// Revealed reports whether a password is shown in clear text.
func (t *Text) Revealed() bool {
	return t.password && t.input.EchoMode == textinput.EchoNormal
}

func (t *Text) Get() any {
	return t.input.Value()
}

func (t *Text) Init() tea.Cmd {
	return nil
}

func (t *Text) Reset() {
	t.input.SetValue("")
	if t.password {
		t.input.EchoMode = textinput.EchoPassword
	}
}

func (t *Text) Set(value any) {
	if value, ok := value.(string); ok {
		t.input.SetValue(value)
	}
}

func (t *Text) Update(msg tea.Msg) (tea.Cmd, form.Action) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, t.KeyMap.Next):
			return nil, form.ActionNext
		case t.password && key.Matches(msg, t.KeyMap.Reveal):
			if t.input.EchoMode == textinput.EchoPassword {
				t.input.EchoMode = textinput.EchoNormal
			} else {
				t.input.EchoMode = textinput.EchoPassword
			}
			return nil, form.ActionNone
		}
	}

	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd, form.ActionNone
}

func (t *Text) View(width int) string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(width)

	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	label := t.Label
	if t.focused {
		label = focusedStyle.Render(label)
	} else {
		label = labelStyle.Render(label)
	}

	t.input.Width = max(width-4, 1)
	t.input.Placeholder = t.Placeholder

	return lipgloss.JoinVertical(lipgloss.Left, label, t.input.View())
}

var _ form.FormInput = (*Text)(nil)
