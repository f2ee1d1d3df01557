package federated

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/createch/core/account"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/core/identity/identitytest"
	"github.com/toeirei/createch/internal/config"
	"golang.org/x/oauth2"
)

type caps struct{ p identity.Provider }

func (c caps) Provider() identity.Provider   { return c.p }
func (c caps) Store() identity.DocumentStore { return nil }

type harness struct {
	receiver *Receiver
	provider *identitytest.Provider
	service  *account.Service
	statuses chan account.Status
	urls     chan string
	creds    chan identity.Credential
	deps     Deps
}

func newHarness(t *testing.T, tokenSrv *httptest.Server) *harness {
	t.Helper()
	h := &harness{
		receiver: NewReceiver("127.0.0.1:0"),
		statuses: make(chan account.Status, 16),
		urls:     make(chan string, 1),
		creds:    make(chan identity.Credential, 1),
	}
	t.Cleanup(func() { _ = h.receiver.Close() })

	h.provider = identitytest.NewProvider(identitytest.ProviderOverwrites{
		SignInWithCredential: func(_ context.Context, cred identity.Credential) (*identity.User, error) {
			h.creds <- cred
			return &identity.User{UID: "fed-uid", ProviderID: cred.ProviderID}, nil
		},
	})
	h.service = account.NewService(caps{p: h.provider}, account.WithStatusSink(func(st account.Status) {
		h.statuses <- st
	}))
	h.deps = Deps{
		Receiver:  h.receiver,
		Completer: h.service,
		Presenter: PresenterFunc(func(_, consentURL string) { h.urls <- consentURL }),
		Timeout:   5 * time.Second,
	}
	if tokenSrv != nil {
		h.deps.Endpoint = oauth2.Endpoint{
			AuthURL:   tokenSrv.URL + "/auth",
			TokenURL:  tokenSrv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
	return h
}

func (h *harness) terminal(t *testing.T) account.Status {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-h.statuses:
			if st.Terminal() {
				return st
			}
		case <-deadline:
			t.Fatalf("no terminal status")
		}
	}
}

func (h *harness) consentURL(t *testing.T) *url.URL {
	t.Helper()
	select {
	case raw := <-h.urls:
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse consent url: %v", err)
		}
		return u
	case <-time.After(2 * time.Second):
		t.Fatalf("consent url was not presented")
	}
	return nil
}

func redirect(t *testing.T, redirectURI string, params url.Values) int {
	t.Helper()
	resp, err := http.Get(redirectURI + "?" + params.Encode())
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	_ = resp.Body.Close()
	return resp.StatusCode
}

// tokenServer answers authorization-code grants for "good-code".
func tokenServer(t *testing.T, gotVerifier chan<- string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if gotVerifier != nil {
			gotVerifier <- r.PostForm.Get("code_verifier")
		}
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":             "invalid_grant",
				"error_description": "Bad Request",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fb-access-token",
			"id_token":     "google-id-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLaunch_SetupIncomplete(t *testing.T) {
	h := newHarness(t, nil)

	google := NewGoogle(config.GoogleConfig{}, h.deps)
	if google.Configured() {
		t.Fatalf("google must not be configured without client ids")
	}
	google.Launch(context.Background())
	st := h.terminal(t)
	if st.Kind != account.KindWarning || !strings.HasPrefix(st.Text, "Google setup incomplete") {
		t.Fatalf("unexpected status %+v", st)
	}

	NewFacebook(config.FacebookConfig{}, h.deps).Launch(context.Background())
	st = h.terminal(t)
	if !strings.HasPrefix(st.Text, "Facebook setup incomplete") {
		t.Fatalf("unexpected status %+v", st)
	}
	select {
	case <-h.urls:
		t.Fatalf("nothing must be presented when setup is incomplete")
	default:
	}
}

func TestGoogleLaunch_Success(t *testing.T) {
	verifiers := make(chan string, 1)
	h := newHarness(t, tokenServer(t, verifiers))

	l := NewGoogle(config.GoogleConfig{AndroidClientID: "android-id"}, h.deps)
	l.Launch(context.Background())

	consent := h.consentURL(t)
	q := consent.Query()
	if q.Get("client_id") != "android-id" {
		t.Fatalf("android client id must be used when no web id is set: %v", q)
	}
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Fatalf("PKCE challenge missing: %v", q)
	}
	if q.Get("redirect_uri") != h.receiver.RedirectURL() {
		t.Fatalf("redirect_uri = %q, want %q", q.Get("redirect_uri"), h.receiver.RedirectURL())
	}

	code := redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}, "code": {"good-code"}})
	if code != http.StatusOK {
		t.Fatalf("callback status %d", code)
	}
	if v := <-verifiers; v == "" {
		t.Fatalf("code exchange must send the PKCE verifier")
	}

	st := h.terminal(t)
	if st.Text != "Success! Logged in with Google." {
		t.Fatalf("unexpected status %+v", st)
	}
	cred := <-h.creds
	if cred.ProviderID != identity.ProviderGoogle || cred.IDToken != "google-id-token" {
		t.Fatalf("unexpected credential %+v", cred)
	}

	// The state is single-use.
	if code := redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}, "code": {"good-code"}}); code != http.StatusBadRequest {
		t.Fatalf("replayed state must be rejected, got %d", code)
	}
}

func TestFacebookLaunch_UsesAccessToken(t *testing.T) {
	h := newHarness(t, tokenServer(t, nil))

	l := NewFacebook(config.FacebookConfig{AppID: "fb-app"}, h.deps)
	l.Launch(context.Background())
	q := h.consentURL(t).Query()

	redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}, "code": {"good-code"}})

	if st := h.terminal(t); st.Text != "Success! Logged in with Facebook." {
		t.Fatalf("unexpected status %+v", st)
	}
	cred := <-h.creds
	if cred.ProviderID != identity.ProviderFacebook || cred.AccessToken != "fb-access-token" || cred.IDToken != "" {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestLaunch_ExchangeFailure(t *testing.T) {
	h := newHarness(t, tokenServer(t, nil))

	NewGoogle(config.GoogleConfig{WebClientID: "web-id"}, h.deps).Launch(context.Background())
	q := h.consentURL(t).Query()
	redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}, "code": {"stale"}})

	st := h.terminal(t)
	if st.Text != "Google Login Failed: Bad Request" {
		t.Fatalf("unexpected status %+v", st)
	}
	if h.provider.Calls("SignInWithCredential") != 0 {
		t.Fatalf("no sign-in must be attempted after a failed exchange")
	}
}

func TestLaunch_ErrorAndDismissResponses(t *testing.T) {
	h := newHarness(t, tokenServer(t, nil))
	l := NewGoogle(config.GoogleConfig{WebClientID: "web-id"}, h.deps)

	l.Launch(context.Background())
	q := h.consentURL(t).Query()
	redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}, "error": {"access_denied"}})
	if st := h.terminal(t); st.Text != "Google Login Failed: access_denied" {
		t.Fatalf("unexpected status %+v", st)
	}

	l.Launch(context.Background())
	q = h.consentURL(t).Query()
	redirect(t, q.Get("redirect_uri"), url.Values{"state": {q.Get("state")}})
	select {
	case st := <-h.statuses:
		t.Fatalf("dismissed flow must not report, got %+v", st)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLaunch_SupersedesPendingRequest(t *testing.T) {
	h := newHarness(t, tokenServer(t, nil))
	l := NewGoogle(config.GoogleConfig{WebClientID: "web-id"}, h.deps)

	l.Launch(context.Background())
	first := h.consentURL(t).Query()
	l.Launch(context.Background())
	second := h.consentURL(t).Query()

	if code := redirect(t, first.Get("redirect_uri"), url.Values{"state": {first.Get("state")}, "code": {"good-code"}}); code != http.StatusBadRequest {
		t.Fatalf("superseded state must be rejected, got %d", code)
	}
	if code := redirect(t, second.Get("redirect_uri"), url.Values{"state": {second.Get("state")}, "code": {"good-code"}}); code != http.StatusOK {
		t.Fatalf("current state must be accepted, got %d", code)
	}
	if st := h.terminal(t); st.Kind != account.KindSuccess {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestReceiver_UnknownState(t *testing.T) {
	r := NewReceiver("127.0.0.1:0")
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + CallbackPath + "?state=nope&code=x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestClipboardPresenter_ReportsURL(t *testing.T) {
	statuses := make(chan account.Status, 1)
	svc := account.NewService(nil, account.WithStatusSink(func(st account.Status) { statuses <- st }))
	p := NewClipboardPresenter(svc)
	p.copy = func(string) error { return nil }

	p.Present("Google", "https://accounts.example/consent")
	st := <-statuses
	if st.Kind != account.KindProgress || !strings.Contains(st.Text, "https://accounts.example/consent") {
		t.Fatalf("unexpected status %+v", st)
	}
}
