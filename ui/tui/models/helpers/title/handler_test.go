package windowtitle

import "testing"

func TestHandler_TracksCurrentTitle(t *testing.T) {
	h := NewHandler("CreaTECH", " | ")
	if h.Title() != "CreaTECH" {
		t.Fatalf("unexpected base title %q", h.Title())
	}
	if cmd := h.Handle(Set("Login")()); cmd == nil {
		t.Fatalf("expected a title command on change")
	}
	if h.Title() != "CreaTECH | Login" {
		t.Fatalf("unexpected title %q", h.Title())
	}
	if cmd := h.Handle(Set("Login")()); cmd != nil {
		t.Fatalf("unchanged title should not emit")
	}
	if cmd := h.Handle("other"); cmd != nil {
		t.Fatalf("foreign messages are ignored")
	}
}
