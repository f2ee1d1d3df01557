// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

// Package root is the top-level TUI model. It shows the loading view until
// the session is ready and then switches between the login and register
// screens.
package root

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/ui/tui/models/components/header"
	"github.com/toeirei/createch/ui/tui/models/components/keyhelp"
	"github.com/toeirei/createch/ui/tui/models/components/statusline"
	"github.com/toeirei/createch/ui/tui/models/helpers/nav"
	windowtitle "github.com/toeirei/createch/ui/tui/models/helpers/title"
	"github.com/toeirei/createch/ui/tui/models/views/loading"
	"github.com/toeirei/createch/ui/tui/models/views/login"
	"github.com/toeirei/createch/ui/tui/models/views/register"
	"github.com/toeirei/createch/ui/tui/util"
)

// Session is the part of the session the UI waits on.
type Session interface {
	Ready() <-chan struct{}
	Status() string
	User() *identity.User
}

// Account runs the handlers behind the screens.
type Account interface {
	login.Handler
	register.Handler
	ClearStatus()
}

type Deps struct {
	Session  Session
	Account  Account
	Google   login.Launcher
	Facebook login.Launcher
	// Statuses delivers every status the handlers emit, progress included.
	Statuses <-chan account.Status
	Version  string
}

type readyMsg struct{}

type feedMsg struct {
	status account.Status
}

type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	Focus(help.KeyMap) tea.Cmd
	Blur()
	Reset() tea.Cmd
	SetWidth(int)
	SetReady(bool)
}

type Model struct {
	session  Session
	account  Account
	statuses <-chan account.Status

	current  account.Screen
	screens  map[account.Screen]screen
	loading  *loading.Model
	header   *header.Model
	keyhelp  *keyhelp.Model
	status   *statusline.Model
	keyMap   KeyMap
	size     util.Size
	quitting bool

	titleHandler *windowtitle.TitleHandler
}

func New(ctx context.Context, deps Deps) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	title := i18n.T("app.brand")
	if deps.Version != "" {
		title += " " + deps.Version
	}

	var loginHandler login.Handler
	var registerHandler register.Handler
	if deps.Account != nil {
		loginHandler, registerHandler = deps.Account, deps.Account
	}

	return &Model{
		session:  deps.Session,
		account:  deps.Account,
		statuses: deps.Statuses,
		screens: map[account.Screen]screen{
			account.ScreenLogin:    login.New(ctx, loginHandler, deps.Google, deps.Facebook),
			account.ScreenRegister: register.New(ctx, registerHandler),
		},
		loading:      loading.New(),
		header:       header.New(i18n.T("app.brand")),
		keyhelp:      keyhelp.New(),
		status:       statusline.New(),
		keyMap:       newKeyMap(),
		titleHandler: windowtitle.NewHandler(title, " | "),
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.titleHandler.Init(),
		m.loading.Init(),
		m.waitReady(),
		m.listen(),
		util.AnnounceKeyMapCmd(m.keyMap),
	}
	for _, s := range m.screens {
		cmds = append(cmds, s.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitReady() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		if s != nil {
			<-s.Ready()
		}
		return readyMsg{}
	}
}

// listen reads the next status from the feed. It is reissued after every
// status so exactly one reader is active.
func (m *Model) listen() tea.Cmd {
	ch := m.statuses
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return feedMsg{status: st}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Exit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Help):
			m.keyhelp.ToggleExpanded()
			return m, nil
		}
		if s := m.active(); s != nil {
			return m, s.Update(msg)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.size.Update(msg)
		_ = m.header.Update(msg)
		_ = m.keyhelp.Update(msg)
		m.status.Update(tea.WindowSizeMsg{Width: m.contentWidth(), Height: msg.Height})
		for _, s := range m.screens {
			s.SetWidth(m.contentWidth())
		}
		return m, nil

	case readyMsg:
		for _, s := range m.screens {
			s.SetReady(true)
		}
		if m.session != nil {
			_ = m.header.Update(header.IdentityMsg{User: m.session.User()})
		}
		if text := m.sessionStatus(); text != "" {
			m.status.Update(statusline.Msg{Status: account.Warning(text)})
		}
		logging.Debugf("session ready, showing %s", account.ScreenLogin)
		return m, m.show(account.ScreenLogin)

	case feedMsg:
		m.status.Update(statusline.Msg{Status: msg.status})
		return m, m.listen()

	case nav.Msg:
		if !msg.KeepStatus {
			m.status.Update(statusline.ClearMsg{})
			if m.account != nil {
				m.account.ClearStatus()
			}
		}
		return m, m.show(msg.Screen)

	case header.IdentityMsg:
		_ = m.header.Update(msg)
		return m, nil

	case util.AnnounceKeyMapMsg:
		_ = m.keyhelp.Update(msg)
		return m, nil
	}

	if cmd := m.titleHandler.Handle(msg); cmd != nil {
		return m, cmd
	}
	if m.status.Update(msg) {
		return m, nil
	}

	cmds := []tea.Cmd{m.loading.Update(msg)}
	for _, s := range m.screens {
		cmds = append(cmds, s.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) sessionStatus() string {
	if m.session == nil {
		return ""
	}
	return m.session.Status()
}

func (m *Model) active() screen {
	return m.screens[m.current]
}

// show makes target the visible screen with fresh inputs.
func (m *Model) show(target account.Screen) tea.Cmd {
	next, ok := m.screens[target]
	if !ok || target == m.current {
		return nil
	}
	if prev := m.active(); prev != nil {
		prev.Blur()
	}
	m.current = target
	return tea.Batch(
		next.Reset(),
		next.Focus(m.keyMap),
		windowtitle.Set(string(target)),
	)
}

// Screen returns the visible screen, empty while loading.
func (m *Model) Screen() account.Screen { return m.current }

func (m *Model) contentWidth() int {
	return util.Clamp(20, m.size.Width-4, 64)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.loading.View()
	if s := m.active(); s != nil {
		body = s.View()
	}
	body = lipgloss.NewStyle().Width(m.contentWidth()).Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		"",
		lipgloss.PlaceHorizontal(m.size.Width, lipgloss.Center, body),
		"",
		lipgloss.PlaceHorizontal(m.size.Width, lipgloss.Center, m.status.View()),
		m.keyhelp.View(),
	)
}

// *Model implements tea.Model
var _ tea.Model = (*Model)(nil)
