// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package form arranges inputs in rows, moves focus between them and decodes
// their values into a struct with mapstructure.
package form

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-viper/mapstructure/v2"
	"github.com/toeirei/createch/ui/tui/util"
	"github.com/toeirei/createch/util/slicest"
)

type FormInput interface {
	util.Focusable
	Reset()
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, Action)
	Set(any)
	Get() any
	View(width int) string
}

// Skipper is implemented by inputs that only display text. Focus moves past
// them.
type Skipper interface {
	Skip() bool
}

type formItem struct {
	id    string
	input FormInput
}

type formRow struct {
	items []int
}

type Form[T any] struct {
	OnSubmit         func(result T, err error) tea.Cmd
	OnCancel         func() tea.Cmd
	ResetAfterSubmit bool

	items       []formItem
	rows        []formRow
	activeIndex int
	focused     bool
	baseKeyMap  help.KeyMap
	size        util.Size
}

func (f Form[T]) Init() tea.Cmd {
	return tea.Batch(slicest.Map(f.items, func(item formItem) tea.Cmd {
		return item.input.Init()
	})...)
}

func (f Form[T]) Update(msg tea.Msg) (Form[T], tea.Cmd) {
	if f.size.Update(msg) {
		return f, nil
	}

	if f.focused && len(f.items) > 0 {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(kmsg, DefaultKeyMap.Next):
				return f, f.changeActiveIndex(1)
			case key.Matches(kmsg, DefaultKeyMap.Prev):
				return f, f.changeActiveIndex(-1)
			}
		}

		return f, f.updateActiveInput(msg)
	}

	return f, nil
}

func (f Form[T]) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		slicest.Map(f.rows, func(row formRow) string {
			return lipgloss.JoinHorizontal(
				lipgloss.Top,
				slicest.Map(row.items, func(itemIndex int) string {
					return f.items[itemIndex].input.View(f.size.Width / len(row.items))
				})...,
			)
		})...,
	)
}

func (f *Form[T]) Focus(baseKeyMap help.KeyMap) tea.Cmd {
	f.focused, f.baseKeyMap = true, baseKeyMap
	if len(f.items) == 0 {
		return util.AnnounceKeyMapCmd(baseKeyMap)
	}
	return f.moveTo(f.activeIndex, 1)
}

func (f *Form[T]) Blur() {
	f.focused, f.baseKeyMap = false, nil
	if len(f.items) > 0 {
		f.items[f.activeIndex].input.Blur()
	}
}

// *Form implements util.Focusable
var _ util.Focusable = (*Form[any])(nil)

// Focused reports whether the form receives keys.
func (f *Form[T]) Focused() bool { return f.focused }

// ActiveID returns the id of the input that has focus.
func (f *Form[T]) ActiveID() string {
	if len(f.items) == 0 {
		return ""
	}
	return f.items[f.activeIndex].id
}

// Input returns the input registered under id, or nil.
func (f *Form[T]) Input(id string) FormInput {
	for _, item := range f.items {
		if item.id == id {
			return item.input
		}
	}
	return nil
}

// SetWidth sets the width inputs are laid out in.
func (f *Form[T]) SetWidth(width int) {
	f.size.Width = width
}

func (f *Form[T]) Reset() tea.Cmd {
	for _, item := range f.items {
		item.input.Reset()
	}
	if len(f.items) == 0 {
		return nil
	}
	return f.moveTo(0, 1)
}

func (f *Form[T]) Submit() tea.Cmd {
	var resetCmd tea.Cmd
	data, err := f.Get()
	if f.ResetAfterSubmit {
		resetCmd = f.Reset()
	}
	var submitCmd tea.Cmd
	if f.OnSubmit != nil {
		submitCmd = f.OnSubmit(data, err)
	}
	return tea.Batch(resetCmd, submitCmd)
}

func (f *Form[T]) updateActiveInput(msg tea.Msg) tea.Cmd {
	var (
		updateCmd tea.Cmd
		actionCmd tea.Cmd
		action    Action
	)

	updateCmd, action = f.items[f.activeIndex].input.Update(msg)

	switch action {
	case ActionNone:
	case ActionNext:
		actionCmd = f.changeActiveIndex(1)
	case ActionPrev:
		actionCmd = f.changeActiveIndex(-1)
	case ActionSubmit:
		actionCmd = f.Submit()
	case ActionCancel:
		if f.OnCancel != nil {
			actionCmd = f.OnCancel()
		}
	}

	return tea.Batch(updateCmd, actionCmd)
}

func (f *Form[T]) changeActiveIndex(delta int) tea.Cmd {
	step := 1
	if delta < 0 {
		step = -1
	}
	return f.moveTo(f.activeIndex+delta, step)
}

// moveTo focuses the input at index, wrapping around and stepping past
// inputs that skip focus.
func (f *Form[T]) moveTo(index, step int) tea.Cmd {
	n := len(f.items)
	wrap := func(i int) int { return ((i % n) + n) % n }

	index = wrap(index)
	for i := 0; i < n && skips(f.items[index].input); i++ {
		index = wrap(index + step)
	}

	if index != f.activeIndex {
		if f.focused {
			f.items[f.activeIndex].input.Blur()
		}
		f.activeIndex = index
	}

	if !f.focused {
		return nil
	}
	return f.items[f.activeIndex].input.Focus(util.MergeKeyMaps(f.baseKeyMap, DefaultKeyMap))
}

func skips(input FormInput) bool {
	s, ok := input.(Skipper)
	return ok && s.Skip()
}

// Get decodes the input values into T. Inputs without a value, such as
// buttons, are skipped.
func (f *Form[T]) Get() (T, error) {
	var data T
	values := make(map[string]any, len(f.items))

	for _, item := range f.items {
		if v := item.input.Get(); v != nil {
			values[item.id] = v
		}
	}

	err := mapstructure.Decode(values, &data)
	return data, err
}

func (f *Form[T]) Set(data T) error {
	values := make(map[string]any, len(f.items))
	if err := mapstructure.Decode(data, &values); err != nil {
		return err
	}

	for i := range f.items {
		if value, ok := values[f.items[i].id]; ok {
			f.items[i].input.Set(value)
		}
	}

	return nil
}
