// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package identity

import "sync"

// Notifier fans auth-state changes out to subscribers. Each subscriber gets
// its own delivery goroutine, so its callback is never invoked concurrently
// with itself and sees events in publish order.
type Notifier struct {
	mu      sync.Mutex
	current *User
	subs    map[int]*subscriber
	nextID  int
}

type subscriber struct {
	fn     func(*User)
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*User
	closed bool
}

// Current returns the last published user.
func (n *Notifier) Current() *User {
	n.mu.Lock()
	defer n.mu.Unlock()
	return copyUser(n.current)
}

// Subscribe registers fn and queues the current user as its first event.
func (n *Notifier) Subscribe(fn func(*User)) (unsubscribe func()) {
	s := &subscriber{fn: fn}
	s.cond = sync.NewCond(&s.mu)

	n.mu.Lock()
	if n.subs == nil {
		n.subs = map[int]*subscriber{}
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = s
	s.queue = append(s.queue, copyUser(n.current))
	n.mu.Unlock()

	go s.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
			s.close()
		})
	}
}

// Publish records u as the current user. Subscribers are only notified when
// the signed-in identity actually changes.
func (n *Notifier) Publish(u *User) {
	n.mu.Lock()
	defer n.mu.Unlock()

	changed := !SameIdentity(n.current, u)
	n.current = copyUser(u)
	if !changed {
		return
	}
	for _, s := range n.subs {
		s.push(copyUser(u))
	}
}

func (s *subscriber) push(u *User) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, u)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *subscriber) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		u := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.fn(u)
	}
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
