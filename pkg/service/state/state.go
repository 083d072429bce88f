// NetPilot Core
// Copyright (c) 2026 The NetPilot Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of NetPilot Core.
//
// NetPilot Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// NetPilot Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with NetPilot Core.  If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"context"

	"github.com/NetPilotProject/netpilot-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
)

// State holds the runtime state of the NetPilot service.
//
// The mu mutex protects all mutable fields. Readers take a snapshot
// under RLock and work with the copy; no caller ever inspects fields
// directly. The lifecycle context is set once at construction and is
// safe to read without the lock.
type State struct {
	ctx             context.Context
	ctxCancelFunc   context.CancelFunc
	selectedAdapter string
	sessionID       string
	mu              syncutil.RWMutex
	stopped         bool
}

// NewState creates service state with a fresh session ID and the
// lifecycle context every long-running goroutine watches.
func NewState() *State {
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		sessionID:     uuid.NewString(),
	}
}

// SetSelectedAdapter marks an adapter as the one the speed loop reports
// on. An empty name clears the selection and pauses speed events.
func (s *State) SetSelectedAdapter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedAdapter = name
}

// SelectedAdapter returns the current adapter of interest, or "" when
// none is selected.
func (s *State) SelectedAdapter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedAdapter
}

// SessionID returns the ID generated for this service run. It is
// attached to error reports to correlate events from the same session.
func (s *State) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

// Stop cancels the lifecycle context. Polling loops and in-flight
// commands unwind on their next context check.
func (s *State) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

// Stopped reports whether Stop has been called.
func (s *State) Stopped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopped
}
