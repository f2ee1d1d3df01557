// Copyright (c) 2026 Createch Team
// Createch - terminal sign-in client for Firebase
// This source code is licensed under the MIT license found in the LICENSE file.

package identitytest

import (
	"context"
	"sync"

	"github.com/toeirei/createch/core/identity"
)

// Write is one recorded SetDocument call.
type Write struct {
	Path string
	Data any
}

// DocumentStore records writes. Err, when set, is returned by every write and
// nothing is recorded.
type DocumentStore struct {
	Err error

	mu     sync.Mutex
	writes []Write
}

var _ identity.DocumentStore = (*DocumentStore)(nil)

func (s *DocumentStore) SetDocument(_ context.Context, path string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.writes = append(s.writes, Write{Path: path, Data: data})
	return nil
}

// Writes returns a copy of the recorded writes.
func (s *DocumentStore) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}
