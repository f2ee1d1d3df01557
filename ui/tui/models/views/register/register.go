// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package register is the account creation screen.
package register

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/ui/tui/models/helpers/form"
	forminput "github.com/toeirei/createch/ui/tui/models/helpers/form/input"
	"github.com/toeirei/createch/ui/tui/models/helpers/nav"
	"github.com/toeirei/createch/util/slicest"
)

// Handler creates the account and its profile record.
type Handler interface {
	Register(ctx context.Context, f account.RegistrationFields) account.Status
}

type doneMsg struct {
	status account.Status
}

type Model struct {
	ctx     context.Context
	handler Handler

	form      form.Form[account.RegistrationFields]
	firstName *forminput.Text
	email     *forminput.Text
	password  *forminput.Text
	country   *forminput.Select
	submit    *forminput.Button

	ready bool
	busy  bool
	width int
}

func countryOptions() []forminput.Option {
	return slicest.Map(account.Countries, func(c account.Country) forminput.Option {
		return forminput.Option{Label: c.Label(), Value: c.Code}
	})
}

func New(ctx context.Context, handler Handler) *Model {
	m := &Model{
		ctx:       ctx,
		handler:   handler,
		firstName: forminput.NewText(i18n.T("register.first_name"), ""),
		email:     forminput.NewText(i18n.T("register.email"), i18n.T("register.email_placeholder")),
		password:  forminput.NewPassword(i18n.T("register.password"), i18n.T("register.password_placeholder")),
		country:   forminput.NewSelect(i18n.T("register.country"), countryOptions(), 0),
		submit:    forminput.NewButton(i18n.T("register.submit"), true),
	}

	m.form = form.New(
		form.WithRow[account.RegistrationFields](
			form.Field{ID: "first_name", Input: m.firstName},
			form.Field{ID: "last_name", Input: forminput.NewText(i18n.T("register.last_name"), "")},
		),
		form.WithInput[account.RegistrationFields]("email", m.email),
		form.WithInput[account.RegistrationFields]("dob", forminput.NewText(i18n.T("register.dob"), i18n.T("register.dob_placeholder"))),
		form.WithRow[account.RegistrationFields](
			form.Field{ID: "country", Input: m.country},
			form.Field{ID: "phone", Input: forminput.NewText(i18n.T("register.phone"), i18n.T("register.phone_placeholder"))},
		),
		form.WithInput[account.RegistrationFields]("password", m.password),
		form.WithInput[account.RegistrationFields]("submit", m.submit),
		form.WithInput[account.RegistrationFields]("login", forminput.NewLink(
			i18n.T("register.have_account")+" "+i18n.T("register.to_login"),
			func() tea.Cmd { return nav.To(account.ScreenLogin) },
		)),
		form.WithOnSubmit(m.onSubmit),
	)
	return m
}

func (m *Model) onSubmit(f account.RegistrationFields, err error) tea.Cmd {
	if err != nil || !m.CanSubmit() {
		return nil
	}
	code, _ := m.country.Get().(string)
	f.Phone = account.ComposePhone(code, f.Phone)

	m.busy = true
	m.refresh()

	ctx, h := m.ctx, m.handler
	return func() tea.Msg {
		return doneMsg{status: h.Register(ctx, f)}
	}
}

// CanSubmit reports whether the Register button is enabled.
func (m *Model) CanSubmit() bool {
	return m.handler != nil &&
		account.CanRegister(m.ready, m.busy, m.email.Value(), m.password.Value(), m.firstName.Value())
}

// Busy reports whether a registration is running.
func (m *Model) Busy() bool { return m.busy }

// SetReady is called once the session finished bootstrapping.
func (m *Model) SetReady(ready bool) {
	m.ready = ready
	m.refresh()
}

func (m *Model) refresh() {
	m.submit.Disabled = !m.CanSubmit()
}

func (m *Model) SetWidth(width int) {
	m.width = width
	m.form.SetWidth(width)
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(doneMsg); ok {
		m.busy = false
		m.refresh()
		return nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	m.refresh()
	return cmd
}

func (m *Model) Focus(baseKeyMap help.KeyMap) tea.Cmd {
	return m.form.Focus(baseKeyMap)
}

func (m *Model) Blur() {
	m.form.Blur()
}

func (m *Model) Reset() tea.Cmd {
	cmd := m.form.Reset()
	m.refresh()
	return cmd
}

func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(i18n.T("register.title"))
	terms := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		Width(max(m.width, 1)).
		Render(i18n.T("register.terms"))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), terms)
}
