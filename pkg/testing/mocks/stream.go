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

package mocks

import "sync/atomic"

// StubStream is a canned command.Stream backed by a fixed set of lines.
// The lines channel is pre-filled and closed, so consumers drain it like a
// finished command.
type StubStream struct {
	lines  chan string
	err    error
	closed atomic.Bool
}

// NewStubStream creates a stream that yields lines then reports err from
// Err.
func NewStubStream(lines []string, err error) *StubStream {
	ch := make(chan string, len(lines))
	for _, line := range lines {
		ch <- line
	}
	close(ch)
	return &StubStream{lines: ch, err: err}
}

func (s *StubStream) Lines() <-chan string {
	return s.lines
}

func (s *StubStream) Err() error {
	return s.err
}

func (s *StubStream) Close() error {
	s.closed.Store(true)
	return nil
}

// Closed reports whether Close was called, for asserting cleanup behavior.
func (s *StubStream) Closed() bool {
	return s.closed.Load()
}
