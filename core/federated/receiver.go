// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package federated

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/toeirei/createch/internal/logging"
)

// CallbackPath is the route the consent screens redirect back to.
const CallbackPath = "/oauth/callback"

// ResponseType classifies the outcome of a consent flow.
type ResponseType string

const (
	ResponseSuccess ResponseType = "success"
	ResponseError   ResponseType = "error"
	ResponseDismiss ResponseType = "dismiss"
)

// Response is one redirect delivered back from a consent screen.
type Response struct {
	Type   ResponseType
	Params map[string]string
}

// Receiver is the loopback HTTP endpoint that consent screens redirect to.
// Each pending request is keyed by its OAuth state and receives at most one
// Response.
type Receiver struct {
	addr string

	mu      sync.Mutex
	pending map[string]func(Response)
	ln      net.Listener
	srv     *http.Server
}

// NewReceiver returns a receiver that will listen on addr (host:port).
func NewReceiver(addr string) *Receiver {
	return &Receiver{addr: addr, pending: make(map[string]func(Response))}
}

// Handler returns the router serving the callback route.
func (r *Receiver) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get(CallbackPath, r.callback)
	return router
}

// Start begins listening. It is a no-op when already listening.
func (r *Receiver) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", r.addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", r.addr, err)
	}
	r.ln = ln
	r.addr = ln.Addr().String()
	r.srv = &http.Server{Handler: r.Handler(), ReadHeaderTimeout: 10 * time.Second}

	go func(srv *http.Server, ln net.Listener) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("oauth redirect receiver stopped: %v", err)
		}
	}(r.srv, ln)
	logging.Debugf("oauth redirect receiver listening on %s", r.addr)
	return nil
}

// RedirectURL is the URL registered with the consent screens.
func (r *Receiver) RedirectURL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return "http://" + r.addr + CallbackPath
}

// Expect registers fn for the redirect carrying state. The returned function
// drops the registration if it has not fired yet.
func (r *Receiver) Expect(state string, fn func(Response)) (cancel func()) {
	r.mu.Lock()
	r.pending[state] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.pending, state)
		r.mu.Unlock()
	}
}

// Close stops the listener. Pending requests are dropped.
func (r *Receiver) Close() error {
	r.mu.Lock()
	srv := r.srv
	r.srv, r.ln = nil, nil
	r.pending = make(map[string]func(Response))
	r.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (r *Receiver) callback(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	state := q.Get("state")

	r.mu.Lock()
	fn, ok := r.pending[state]
	delete(r.pending, state)
	r.mu.Unlock()

	if state == "" || !ok {
		logging.Warnf("oauth redirect with unknown state rejected")
		http.Error(w, "unknown or expired sign-in request", http.StatusBadRequest)
		return
	}

	resp := Response{Params: make(map[string]string, len(q))}
	for k := range q {
		resp.Params[k] = q.Get(k)
	}
	switch {
	case q.Get("error") != "":
		resp.Type = ResponseError
	case q.Get("code") != "":
		resp.Type = ResponseSuccess
	default:
		resp.Type = ResponseDismiss
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if resp.Type == ResponseSuccess {
		_, _ = fmt.Fprintln(w, "Sign-in received. You can close this window and return to createch.")
	} else {
		_, _ = fmt.Fprintln(w, "Sign-in was not completed. You can close this window.")
	}

	go fn(resp)
}
