package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/core/identity/identitytest"
	"google.golang.org/api/googleapi"
)

type caps struct {
	p identity.Provider
	d identity.DocumentStore
}

func (c caps) Provider() identity.Provider   { return c.p }
func (c caps) Store() identity.DocumentStore { return c.d }

type recorder struct {
	mu       sync.Mutex
	statuses []Status
	screens  []Screen
	audits   []string
}

func (r *recorder) sink(st Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, st)
	r.mu.Unlock()
}

func (r *recorder) NavigateTo(s Screen) {
	r.mu.Lock()
	r.screens = append(r.screens, s)
	r.mu.Unlock()
}

func (r *recorder) LogAction(_ context.Context, action, details string) error {
	r.mu.Lock()
	r.audits = append(r.audits, action+" "+details)
	r.mu.Unlock()
	return nil
}

func newService(p identity.Provider, d identity.DocumentStore, r *recorder, opts ...Option) *Service {
	base := []Option{WithStatusSink(r.sink), WithNavigator(r), WithAuditor(r)}
	return NewService(caps{p: p, d: d}, append(base, opts...)...)
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)

func TestLogin_Success(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{})
	s := newService(p, nil, r)

	st := s.Login(context.Background(), "a@b.co", "secret1")
	if st.Kind != KindSuccess || st.Text != "Success! Logged in as a@b.co" {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(r.statuses) != 2 || r.statuses[0].Text != "Signing in..." {
		t.Fatalf("expected progress then success, got %+v", r.statuses)
	}
	if s.LastStatus() != st {
		t.Fatalf("LastStatus not updated")
	}
	if len(r.audits) != 1 || !strings.HasPrefix(r.audits[0], ActionLogin) {
		t.Fatalf("expected LOGIN audit, got %v", r.audits)
	}
}

func TestLogin_ProviderMessageVerbatim(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{
		SignInWithPassword: func(context.Context, string, string) (*identity.User, error) {
			return nil, &googleapi.Error{Code: 400, Message: "INVALID_LOGIN_CREDENTIALS"}
		},
	})
	s := newService(p, nil, r)

	st := s.Login(context.Background(), "a@b.co", "wrong")
	if st.Kind != KindFailure || st.Text != "Login Failed: INVALID_LOGIN_CREDENTIALS" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestLogin_NoProvider(t *testing.T) {
	r := &recorder{}
	s := newService(nil, nil, r)
	st := s.Login(context.Background(), "a@b.co", "secret1")
	if st.Text != "Error: Auth not ready." || st.Kind != KindFailure {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(r.statuses) != 1 {
		t.Fatalf("no progress status expected, got %+v", r.statuses)
	}
}

func TestRegister_ShortPasswordMakesNoProviderCall(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{})
	d := &identitytest.DocumentStore{}
	s := newService(p, d, r)

	// Length counts characters, so five umlauts are still too short.
	for _, pw := range []string{"abc", "äöüäö"} {
		st := s.Register(context.Background(), RegistrationFields{FirstName: "Ann", Email: "x@y.z", Password: pw})
		if st.Kind != KindFailure || !strings.Contains(st.Text, "6 characters") {
			t.Fatalf("password %q: unexpected status %+v", pw, st)
		}
	}
	if p.Calls("CreateUser") != 0 || len(d.Writes()) != 0 {
		t.Fatalf("short password must not reach the provider or the store")
	}

	if st := s.Register(context.Background(), RegistrationFields{FirstName: "Ann", Email: "x@y.z", Password: "äöüäöü"}); st.Kind != KindSuccess {
		t.Fatalf("six characters must be accepted, got %+v", st)
	}
}

func TestRegister_SuccessWritesProfileAndNavigatesOnce(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{
		CreateUser: func(_ context.Context, email, _ string) (*identity.User, error) {
			return &identity.User{UID: "U2", Email: email}, nil
		},
	})
	d := &identitytest.DocumentStore{}
	s := newService(p, d, r, WithNamespace("N"), WithClock(func() time.Time { return fixedNow }))

	fields := RegistrationFields{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@x.io",
		Password:    "secret1",
		Phone:       ComposePhone("+63", "9123456789"),
		DateOfBirth: "01/02/1990",
	}
	st := s.Register(context.Background(), fields)
	if st.Kind != KindSuccess || st.Text != "Success! Account created and details saved." {
		t.Fatalf("unexpected status %+v", st)
	}

	writes := d.Writes()
	if len(writes) != 1 {
		t.Fatalf("expected one profile write, got %d", len(writes))
	}
	if writes[0].Path != "artifacts/N/users/U2/user_data/profile" {
		t.Fatalf("unexpected path %q", writes[0].Path)
	}
	rec, ok := writes[0].Data.(Record)
	if !ok {
		t.Fatalf("unexpected record type %T", writes[0].Data)
	}
	want := Record{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "ann@x.io",
		Phone:       "+639123456789",
		DateOfBirth: "01/02/1990",
		CreatedAt:   "2026-03-04T05:06:07.008Z",
	}
	if rec != want {
		t.Fatalf("record mismatch:\n got %+v\nwant %+v", rec, want)
	}
	if len(r.screens) != 1 || r.screens[0] != ScreenLogin {
		t.Fatalf("expected exactly one navigation to Login, got %v", r.screens)
	}
	if r.statuses[0].Text != "Registering..." {
		t.Fatalf("expected registering progress first, got %+v", r.statuses[0])
	}
}

func TestRegister_ProviderFailure(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{
		CreateUser: func(context.Context, string, string) (*identity.User, error) {
			return nil, &googleapi.Error{Code: 400, Message: "EMAIL_EXISTS"}
		},
	})
	d := &identitytest.DocumentStore{}
	s := newService(p, d, r)

	st := s.Register(context.Background(), RegistrationFields{FirstName: "A", Email: "a@b.co", Password: "secret1"})
	if st.Text != "Registration Failed: EMAIL_EXISTS" {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(d.Writes()) != 0 || len(r.screens) != 0 {
		t.Fatalf("failed creation must not write or navigate")
	}
}

func TestRegister_ProfileWriteFailureKeepsAccount(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{})
	d := &identitytest.DocumentStore{Err: errors.New("PERMISSION_DENIED")}
	s := newService(p, d, r)

	st := s.Register(context.Background(), RegistrationFields{FirstName: "A", Email: "a@b.co", Password: "secret1"})
	if st.Kind != KindFailure || st.Text != "Registration Failed: PERMISSION_DENIED" {
		t.Fatalf("unexpected status %+v", st)
	}
	if p.Calls("CreateUser") != 1 || p.Calls("SignOut") != 0 {
		t.Fatalf("account creation must not be rolled back")
	}
	if len(r.screens) != 0 {
		t.Fatalf("no navigation on failure")
	}
}

func TestRegister_ServicesNotReady(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{})
	s := newService(p, nil, r)
	st := s.Register(context.Background(), RegistrationFields{Password: "x"})
	if st.Text != "Error: Services not ready." {
		t.Fatalf("unexpected status %+v", st)
	}
	if p.Calls("CreateUser") != 0 {
		t.Fatalf("no provider call expected")
	}
}

func TestCompleteFederated(t *testing.T) {
	r := &recorder{}
	var got identity.Credential
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{
		SignInWithCredential: func(_ context.Context, c identity.Credential) (*identity.User, error) {
			got = c
			if c.ProviderID == identity.ProviderFacebook {
				return nil, errors.New("invalid access token")
			}
			return &identity.User{UID: "G1"}, nil
		},
	})
	s := newService(p, nil, r)

	st := s.CompleteFederated(context.Background(), identity.GoogleCredential("idt"))
	if st.Text != "Success! Logged in with Google." || got.IDToken != "idt" {
		t.Fatalf("unexpected google result %+v / %+v", st, got)
	}
	if r.statuses[0].Text != "Signing in with Google..." {
		t.Fatalf("unexpected progress %+v", r.statuses[0])
	}

	st = s.CompleteFederated(context.Background(), identity.FacebookCredential("acc"))
	if st.Text != "Facebook Login Failed: invalid access token" {
		t.Fatalf("unexpected facebook result %+v", st)
	}
}

func TestGating(t *testing.T) {
	cases := []struct {
		name                    string
		ready, busy             bool
		email, password, first  string
		wantLogin, wantRegister bool
	}{
		{"all set", true, false, "a", "b", "c", true, true},
		{"not ready", false, false, "a", "b", "c", false, false},
		{"busy", true, true, "a", "b", "c", false, false},
		{"no email", true, false, "", "b", "c", false, false},
		{"no password", true, false, "a", "", "c", false, false},
		{"no first name", true, false, "a", "b", "", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanLogin(tc.ready, tc.busy, tc.email, tc.password); got != tc.wantLogin {
				t.Fatalf("CanLogin = %v", got)
			}
			if got := CanRegister(tc.ready, tc.busy, tc.email, tc.password, tc.first); got != tc.wantRegister {
				t.Fatalf("CanRegister = %v", got)
			}
		})
	}
}

func TestCountries(t *testing.T) {
	if len(Countries) != 15 {
		t.Fatalf("expected 15 dialing codes, got %d", len(Countries))
	}
	if DefaultCountry.Code != "+63" {
		t.Fatalf("default must be the Philippines, got %+v", DefaultCountry)
	}
	if c, ok := LookupCountry("ae"); !ok || c.Code != "+971" || c.Name != "UAE" {
		t.Fatalf("lookup by ISO failed: %+v", c)
	}
	if c, ok := LookupCountry("GB"); !ok || c.Code != "+44" {
		t.Fatalf("lookup of the United Kingdom failed: %+v", c)
	}
	if c, ok := LookupCountry("44"); !ok || c.ISO != "GB" {
		t.Fatalf("lookup by bare code failed: %+v", c)
	}
	if _, ok := LookupCountry("+999"); ok {
		t.Fatalf("unknown code must not resolve")
	}
}

func TestSetNavigator_ReplacesAndClears(t *testing.T) {
	r := &recorder{}
	p := identitytest.NewProvider(identitytest.ProviderOverwrites{})
	d := &identitytest.DocumentStore{}
	s := newService(p, d, r)

	later := &recorder{}
	s.SetNavigator(later)
	fields := RegistrationFields{FirstName: "Ann", Email: "ann@x.io", Password: "secret1"}
	if st := s.Register(context.Background(), fields); st.Kind != KindSuccess {
		t.Fatalf("unexpected status %+v", st)
	}
	if len(r.screens) != 0 || len(later.screens) != 1 {
		t.Fatalf("navigation went to the wrong navigator: %v / %v", r.screens, later.screens)
	}

	s.SetNavigator(nil)
	fields.Email = "bob@x.io"
	if st := s.Register(context.Background(), fields); st.Kind != KindSuccess {
		t.Fatalf("register without navigator failed: %+v", st)
	}
	if len(later.screens) != 1 {
		t.Fatalf("cleared navigator still called: %v", later.screens)
	}
}
