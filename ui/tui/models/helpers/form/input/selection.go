// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package forminput

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/ui/tui/models/helpers/form"
	"github.com/toeirei/createch/ui/tui/util"
)

type Option struct {
	Label string
	Value any
}

// Select cycles through a fixed list of options.
type Select struct {
	Label   string
	Options []Option
	KeyMap  SelectKeyMap

	initial int
	index   int
	focused bool
}

type SelectKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Confirm key.Binding
}

func (k SelectKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Prev, k.Next} }

func (k SelectKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Confirm}}
}

func NewSelect(label string, options []Option, initial int) *Select {
	initial = util.Clamp(0, initial, max(len(options)-1, 0))
	return &Select{
		Label:   label,
		Options: options,
		KeyMap: SelectKeyMap{
			Prev: key.NewBinding(
				key.WithKeys("left", "h"),
				key.WithHelp("←", "previous option"),
			),
			Next: key.NewBinding(
				key.WithKeys("right", "l", " "),
				key.WithHelp("→", "next option"),
			),
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
		},
		initial: initial,
		index:   initial,
	}
}

func (s *Select) Focus(baseKeyMap help.KeyMap) tea.Cmd {
	s.focused = true
	return util.AnnounceKeyMapCmd(baseKeyMap, s.KeyMap)
}

func (s *Select) Blur() {
	s.focused = false
}

// Selected returns the highlighted option.
func (s *Select) Selected() Option {
	if len(s.Options) == 0 {
		return Option{}
	}
	return s.Options[s.index]
}

func (s *Select) Get() any {
	return s.Selected().Value
}

func (s *Select) Set(value any) {
	for i, o := range s.Options {
		if o.Value == value {
			s.index = i
			return
		}
	}
}

func (s *Select) Init() tea.Cmd { return nil }

func (s *Select) Reset() {
	s.index = s.initial
}

func (s *Select) Update(msg tea.Msg) (tea.Cmd, form.Action) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(s.Options) == 0 {
		return nil, form.ActionNone
	}
	switch {
	case key.Matches(kmsg, s.KeyMap.Prev):
		s.index = (s.index - 1 + len(s.Options)) % len(s.Options)
	case key.Matches(kmsg, s.KeyMap.Next):
		s.index = (s.index + 1) % len(s.Options)
	case key.Matches(kmsg, s.KeyMap.Confirm):
		return nil, form.ActionNext
	}
	return nil, form.ActionNone
}

func (s *Select) View(width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	valueStyle := lipgloss.NewStyle()
	if s.focused {
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
		valueStyle = valueStyle.Foreground(lipgloss.Color("205"))
	}

	return lipgloss.NewStyle().MaxWidth(max(width, 1)).Render(lipgloss.JoinVertical(
		lipgloss.Left,
		labelStyle.Render(s.Label),
		valueStyle.Render("‹ "+s.Selected().Label+" ›"),
	))
}

var _ form.FormInput = (*Select)(nil)
