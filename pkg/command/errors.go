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

package command

import (
	"fmt"
	"strings"
	"time"
)

// NotFoundError reports a program missing from PATH.
type NotFoundError struct {
	Program string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Program)
}

// TimeoutError reports a command killed for exceeding its deadline.
type TimeoutError struct {
	Args    []string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s",
		e.Elapsed.Round(time.Millisecond), LogLine(e.Args))
}

// ExitError reports a non-zero exit from a checked command. Output is
// kept raw so callers can match tool messages before decoding.
type ExitError struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s", e.ExitCode, e.Message())
}

// Message picks the most useful human-readable text from the failed
// command. Windows tools are inconsistent about which stream carries the
// reason, so stderr is preferred but stdout is used as a fallback.
func (e *ExitError) Message() string {
	if msg := strings.TrimSpace(Decode(e.Stderr)); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(Decode(e.Stdout)); msg != "" {
		return msg
	}
	return "An unknown error occurred."
}

// ParseError reports command output that did not match the expected
// shape, with a snippet of what was actually seen.
type ParseError struct {
	Tool   string
	Reason string
	Output string
}

func (e *ParseError) Error() string {
	snippet := e.Output
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return fmt.Sprintf("unexpected %s output: %s: %q", e.Tool, e.Reason, snippet)
}
