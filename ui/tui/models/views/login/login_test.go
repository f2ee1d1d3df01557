package login

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/internal/i18n"
	"github.com/toeirei/createch/ui/tui/models/helpers/nav"
)

type fakeHandler struct {
	calls [][2]string
}

func (h *fakeHandler) Login(_ context.Context, email, password string) account.Status {
	h.calls = append(h.calls, [2]string{email, password})
	return account.Success("Success! Logged in as " + email)
}

type fakeLauncher struct {
	launched int
}

func (l *fakeLauncher) Launch(context.Context) { l.launched++ }

func typeIn(m *Model, s string) {
	_ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	return m.Update(tea.KeyMsg{Type: k})
}

func newReady(t *testing.T, google, facebook Launcher) (*Model, *fakeHandler) {
	t.Helper()
	i18n.Init("en")
	h := &fakeHandler{}
	m := New(context.Background(), h, google, facebook)
	m.SetReady(true)
	m.SetWidth(60)
	_ = m.Focus(nil)
	return m, h
}

func TestLogin_SubmitRunsHandler(t *testing.T) {
	m, h := newReady(t, nil, nil)

	if m.CanSubmit() {
		t.Fatalf("log in enabled with empty fields")
	}
	typeIn(m, "a@b.co")
	press(m, tea.KeyEnter)
	typeIn(m, "secret1")
	press(m, tea.KeyEnter)

	cmd := press(m, tea.KeyEnter)
	if cmd == nil || !m.Busy() || m.CanSubmit() {
		t.Fatalf("expected a running, gated sign-in")
	}
	msg := cmd()
	if done, ok := msg.(doneMsg); !ok || done.status.Kind != account.KindSuccess {
		t.Fatalf("unexpected result %#v", msg)
	}
	_ = m.Update(msg)
	if m.Busy() || !m.CanSubmit() {
		t.Fatalf("done should re-enable log in")
	}
	if len(h.calls) != 1 || h.calls[0] != [2]string{"a@b.co", "secret1"} {
		t.Fatalf("unexpected calls %v", h.calls)
	}
}

func TestLogin_DisabledWithoutPassword(t *testing.T) {
	m, h := newReady(t, nil, nil)
	typeIn(m, "a@b.co")
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		_ = cmd()
	}
	if len(h.calls) != 0 {
		t.Fatalf("disabled log in submitted")
	}
}

func TestLogin_FederatedButtons(t *testing.T) {
	google := &fakeLauncher{}
	m, _ := newReady(t, google, nil)

	// email, password, submit, (label skipped), google
	for range 3 {
		press(m, tea.KeyTab)
	}
	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected launch command")
	}
	_ = cmd()
	if google.launched != 1 {
		t.Fatalf("google launcher not started")
	}

	// facebook has no launcher and stays disabled
	press(m, tea.KeyTab)
	if cmd := press(m, tea.KeyEnter); cmd != nil {
		t.Fatalf("disabled facebook button acted")
	}
}

func TestLogin_RegisterLinkNavigates(t *testing.T) {
	m, _ := newReady(t, nil, nil)
	press(m, tea.KeyShiftTab)
	cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatalf("expected navigation command")
	}
	if msg, ok := cmd().(nav.Msg); !ok || msg.Screen != account.ScreenRegister {
		t.Fatalf("unexpected navigation %#v", msg)
	}
}

func TestLogin_ViewShowsTitleAndTerms(t *testing.T) {
	m, _ := newReady(t, nil, nil)
	out := m.View()
	for _, want := range []string{"Sign in to your Account", "Log In", "Or login with", "Sign Up", "Terms of Service"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
