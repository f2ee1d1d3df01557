package i18n

import (
	"strings"
	"testing"
)

func TestInitAndAvailableLocales(t *testing.T) {
	Init("en")
	if GetLang() != "en" {
		t.Fatalf("expected lang 'en', got %q", GetLang())
	}

	av := AvailableLocales()
	for _, want := range []string{"de", "en"} {
		found := false
		for _, got := range av {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected locale %q in %v", want, av)
		}
	}
}

func TestT_BasicAndFormatting(t *testing.T) {
	Init("en")
	defer Init("en")

	if got := T("status.signing_in"); got != "Signing in..." {
		t.Fatalf("unexpected translation: %q", got)
	}
	if got := T("status.login_success", "a@b.co"); got != "Success! Logged in as a@b.co" {
		t.Fatalf("unexpected formatted translation: %q", got)
	}
	if got := T("status.keys_missing"); !strings.HasPrefix(got, "WARNING: Keys missing") {
		t.Fatalf("keys-missing text changed: %q", got)
	}

	SetLang("de")
	if GetLang() != "de" {
		t.Fatalf("expected lang 'de', got %q", GetLang())
	}
	if got := T("login.submit"); got != "Anmelden" {
		t.Fatalf("expected German 'Anmelden', got %q", got)
	}
}

func TestT_UnknownIDAndFallback(t *testing.T) {
	Init("fr")
	defer Init("en")

	if got := T("no.such.message"); got != "no.such.message" {
		t.Fatalf("unknown id should be returned verbatim, got %q", got)
	}
	if got := T("register.submit"); got != "Register" {
		t.Fatalf("expected English fallback, got %q", got)
	}
}
