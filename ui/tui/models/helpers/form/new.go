// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package form

import tea "github.com/charmbracelet/bubbletea"

type NewOpt[T any] = func(form *Form[T])

func New[T any](opts ...NewOpt[T]) Form[T] {
	form := Form[T]{}
	for _, opt := range opts {
		opt(&form)
	}
	return form
}

func WithOnSubmit[T any](fn func(result T, err error) tea.Cmd) NewOpt[T] {
	return func(form *Form[T]) {
		form.OnSubmit = fn
	}
}

func WithOnCancel[T any](fn func() tea.Cmd) NewOpt[T] {
	return func(form *Form[T]) {
		form.OnCancel = fn
	}
}

func WithResetAfterSubmit[T any]() NewOpt[T] {
	return func(form *Form[T]) {
		form.ResetAfterSubmit = true
	}
}

// Field pairs an input with the mapstructure key it fills.
type Field struct {
	ID    string
	Input FormInput
}

// WithInput adds an input on its own row.
func WithInput[T any](id string, input FormInput) NewOpt[T] {
	return WithRow[T](Field{ID: id, Input: input})
}

// WithRow adds inputs side by side. Focus moves through them left to right.
func WithRow[T any](fields ...Field) NewOpt[T] {
	return func(form *Form[T]) {
		row := formRow{}
		for _, f := range fields {
			row.items = append(row.items, len(form.items))
			form.items = append(form.items, formItem{
				id:    f.ID,
				input: f.Input,
			})
		}
		if len(row.items) > 0 {
			form.rows = append(form.rows, row)
		}
	}
}
