// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package account

// Kind classifies a Status.
type Kind int

const (
	KindProgress Kind = iota
	KindSuccess
	KindFailure
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Status is the user-facing outcome of a handler step.
type Status struct {
	Kind Kind
	Text string
}

// Failed reports whether the status ends an operation unsuccessfully.
func (s Status) Failed() bool {
	return s.Kind == KindFailure || s.Kind == KindWarning
}

// Terminal reports whether no further status follows for the operation.
func (s Status) Terminal() bool {
	return s.Kind != KindProgress
}

// Status constructors.
func Progress(text string) Status { return Status{Kind: KindProgress, Text: text} }
func Success(text string) Status  { return Status{Kind: KindSuccess, Text: text} }
func Failure(text string) Status  { return Status{Kind: KindFailure, Text: text} }

// Warning builds a configuration warning status.
func Warning(text string) Status { return Status{Kind: KindWarning, Text: text} }

// StatusSink receives every status a handler emits, including progress.
type StatusSink func(Status)

// Screen names a top-level screen of the application.
type Screen string

const (
	ScreenLogin    Screen = "Login"
	ScreenRegister Screen = "Register"
)

// Navigator switches the visible screen.
type Navigator interface {
	NavigateTo(screen Screen)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Screen)

func (f NavigatorFunc) NavigateTo(screen Screen) { f(screen) }
