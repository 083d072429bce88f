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

// Package command executes external OS commands with timeouts, hidden
// console windows, and encoding-safe output capture. Commands are always
// argument vectors, never shell strings.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout applies when a request doesn't set its own. Slow
// operations (DHCP renew, traceroute) pass longer timeouts explicitly.
const DefaultTimeout = 10 * time.Second

// Request describes one external command invocation. Args[0] is the
// program. Treat as immutable once built.
type Request struct {
	Dir     string
	Args    []string
	Timeout time.Duration
	// Check converts a non-zero exit into an *ExitError. When false the
	// caller inspects Result.ExitCode itself.
	Check bool
}

// Result holds the raw output of a finished command. Stdout and Stderr
// stay as captured bytes; decoding happens on demand so no multi-byte
// sequence is ever split by an eager conversion. A Result belongs to the
// caller that issued the command and must not be shared across goroutines.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Out returns stdout decoded to text.
func (r *Result) Out() string {
	return Decode(r.Stdout)
}

// Err returns stderr decoded to text.
func (r *Result) Err() string {
	return Decode(r.Stderr)
}

// Runner executes commands. The interface exists so network operations can
// be tested against a mock without spawning real processes.
type Runner interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// ExecRunner is the production Runner on top of os/exec.
type ExecRunner struct{}

func (*ExecRunner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Args) == 0 {
		return nil, errors.New("empty argument vector")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // argument vectors are fixed tool invocations, never shell strings
	cmd := exec.CommandContext(ctx, req.Args[0], req.Args[1:]...)
	cmd.Dir = req.Dir
	// A killed child can leave output pipes held open by grandchildren;
	// don't let that stall Wait past the timeout.
	cmd.WaitDelay = time.Second
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Msgf("running command: %s", LogLine(req.Args))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &NotFoundError{Program: req.Args[0]}
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Args: req.Args, Elapsed: elapsed}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if req.Check {
				return nil, &ExitError{
					ExitCode: res.ExitCode,
					Stdout:   res.Stdout,
					Stderr:   res.Stderr,
				}
			}
			return res, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", req.Args[0], err)
	}

	return res, nil
}

// LogLine renders an argument vector for logging, eliding encoded script
// payloads which are long and unreadable.
func LogLine(args []string) string {
	out := make([]string, len(args))
	for i, arg := range args {
		if i > 0 && strings.EqualFold(args[i-1], "-EncodedCommand") {
			out[i] = "<...>"
			continue
		}
		out[i] = arg
	}
	return strings.Join(out, " ")
}
