// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package login is the email/password and federated sign-in screen.
package login

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
)

// Handler runs the password sign-in.
type Handler interface {
	Login(ctx context.Context, email, password string) account.Status
}

// Launcher starts a federated consent flow. The outcome arrives later as a
// status.
type Launcher interface {
	Launch(ctx context.Context)
}

type Fields struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type doneMsg struct {
	status account.Status
}

type Model struct {
	ctx      context.Context
	handler  Handler
	google   Launcher
	facebook Launcher

	form     form.Form[Fields]
	email    *forminput.Text
	password *forminput.Text
	submit   *forminput.Button

	ready bool
	busy  bool
	width int
}

func New(ctx context.Context, handler Handler, google, facebook Launcher) *Model {
	m := &Model{
		ctx:      ctx,
		handler:  handler,
		google:   google,
		facebook: facebook,
		email:    forminput.NewText(i18n.T("login.email"), i18n.T("login.email_placeholder")),
		password: forminput.NewPassword(i18n.T("login.password"), i18n.T("login.password_placeholder")),
		submit:   forminput.NewButton(i18n.T("login.submit"), true),
	}

	m.form = form.New(
		form.WithInput[Fields]("email", m.email),
		form.WithInput[Fields]("password", m.password),
		form.WithInput[Fields]("submit", m.submit),
		form.WithInput[Fields]("or", forminput.NewLabel(i18n.T("login.or"))),
		form.WithRow[Fields](
			form.Field{ID: "google", Input: forminput.NewButton(i18n.T("login.google"), false)},
			form.Field{ID: "facebook", Input: forminput.NewButton(i18n.T("login.facebook"), false)},
		),
		form.WithInput[Fields]("register", forminput.NewLink(
			i18n.T("login.no_account")+" "+i18n.T("login.to_register"),
			func() tea.Cmd { return nav.To(account.ScreenRegister) },
		)),
		form.WithOnSubmit(m.onSubmit),
	)
	m.launchOnClick("google", m.google)
	m.launchOnClick("facebook", m.facebook)
	return m
}

func (m *Model) launchOnClick(id string, l Launcher) {
	b, ok := m.form.Input(id).(*forminput.Button)
	if !ok {
		return
	}
	if l == nil {
		b.Disabled = true
		return
	}
	b.OnClick = func() tea.Cmd {
		ctx := m.ctx
		return func() tea.Msg {
			l.Launch(ctx)
			return nil
		}
	}
}

func (m *Model) onSubmit(f Fields, err error) tea.Cmd {
	if err != nil || !m.CanSubmit() {
		return nil
	}
	m.busy = true
	m.refresh()

	ctx, h := m.ctx, m.handler
	return func() tea.Msg {
		return doneMsg{status: h.Login(ctx, f.Email, f.Password)}
	}
}

// CanSubmit reports whether the Log In button is enabled.
func (m *Model) CanSubmit() bool {
	return m.handler != nil && account.CanLogin(m.ready, m.busy, m.email.Value(), m.password.Value())
}

// Busy reports whether a sign-in is running.
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

// Reset clears the inputs, as leaving and reentering the screen does.
func (m *Model) Reset() tea.Cmd {
	cmd := m.form.Reset()
	m.refresh()
	return cmd
}

func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(i18n.T("login.title"))
	terms := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1).
		Width(max(m.width, 1)).
		Render(i18n.T("register.terms"))
	return lipgloss.JoinVertical(lipgloss.Left, title, m.form.View(), terms)
}
