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
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
)

// EncodeCommand converts a script to the UTF-16LE base64 form expected by
// powershell -EncodedCommand. Encoding the script sidesteps cmd-style
// quoting and escaping entirely.
func EncodeCommand(script string) string {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	utf16le, err := enc.Bytes([]byte(script))
	if err != nil {
		// Scripts are compiled-in constants, so this is a programming
		// error rather than a runtime condition.
		log.Error().Err(err).Msg("script is not valid UTF-8")
		utf16le, _ = enc.Bytes([]byte(strings.ToValidUTF8(script, "?")))
	}
	return base64.StdEncoding.EncodeToString(utf16le)
}

// PowerShellArgs builds the argument vector that runs script in a fresh
// PowerShell, bypassing execution policy so embedded scripts run on locked
// down hosts.
func PowerShellArgs(script string) []string {
	return []string{
		"powershell",
		"-ExecutionPolicy",
		"Bypass",
		"-EncodedCommand",
		EncodeCommand(script),
	}
}

// PowerShell runs scripts through powershell.exe. One-shot runs go via the
// injected Runner so they can be mocked; streaming runs spawn a real
// process and hand back line output as it arrives.
type PowerShell struct {
	runner Runner
}

func NewPowerShell(runner Runner) *PowerShell {
	return &PowerShell{runner: runner}
}

// Run executes script and returns its decoded stdout, failing on non-zero
// exit.
func (ps *PowerShell) Run(ctx context.Context, script string) (string, error) {
	return ps.RunTimeout(ctx, script, DefaultTimeout)
}

// RunTimeout is Run with an explicit deadline for slow cmdlets.
func (ps *PowerShell) RunTimeout(
	ctx context.Context, script string, timeout time.Duration,
) (string, error) {
	res, err := ps.runner.Run(ctx, Request{
		Args:    PowerShellArgs(script),
		Timeout: timeout,
		Check:   true,
	})
	if err != nil {
		return "", err
	}
	return res.Out(), nil
}

// Stream is a live line-oriented command output. Consume Lines until it
// closes or call Close to stop early; either way the child process is
// gone once Err returns.
type Stream interface {
	// Lines yields decoded stdout lines. The channel is unbuffered and
	// closes when the command ends or the stream is closed.
	Lines() <-chan string
	// Err blocks until the stream has fully stopped, then reports how the
	// command ended. A stream stopped by Close reports nil.
	Err() error
	Close() error
}

// Stream starts script and returns its stdout as a line stream. The
// caller must drain Lines or call Close, otherwise the reader goroutine
// leaks.
func (*PowerShell) Stream(ctx context.Context, script string) (Stream, error) {
	return newStream(ctx, PowerShellArgs(script))
}

// StreamLines runs an argument vector directly, without the PowerShell
// wrapper, and streams its decoded output line by line. Used for console
// tools like tracert that produce output incrementally.
func StreamLines(ctx context.Context, args ...string) (Stream, error) {
	if len(args) == 0 {
		return nil, errors.New("no command arguments provided")
	}
	return newStream(ctx, args)
}

// LineStream is the live-process implementation of Stream.
type LineStream struct {
	cmd       *exec.Cmd
	lines     chan string
	closing   chan struct{}
	done      chan struct{}
	err       error
	closeOnce sync.Once
}

func newStream(ctx context.Context, args []string) (*LineStream, error) {
	//nolint:gosec // argument vectors are fixed tool invocations, never shell strings
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = time.Second
	hideWindow(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	log.Debug().Msgf("streaming command: %s", LogLine(args))

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &NotFoundError{Program: args[0]}
		}
		return nil, fmt.Errorf("failed to start %s: %w", args[0], err)
	}

	s := &LineStream{
		cmd:     cmd,
		lines:   make(chan string),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.read(stdout, &stderr)
	return s, nil
}

func (s *LineStream) Lines() <-chan string {
	return s.lines
}

// Close stops the stream, killing the command if it is still running. It
// is safe to call more than once and returns only after the reader
// goroutine has finished.
func (s *LineStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
		_ = s.cmd.Process.Kill()
	})
	<-s.done
	return nil
}

func (s *LineStream) Err() error {
	<-s.done
	return s.err
}

// read owns the single Wait call. It forwards lines until EOF or a close
// request, then reaps the process so nothing is left behind.
func (s *LineStream) read(stdout io.Reader, stderr *bytes.Buffer) {
	defer close(s.done)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	stopped := false
scan:
	for scanner.Scan() {
		select {
		case s.lines <- Decode(scanner.Bytes()):
		case <-s.closing:
			stopped = true
			break scan
		}
	}
	scanErr := scanner.Err()

	waitErr := s.cmd.Wait()
	close(s.lines)

	select {
	case <-s.closing:
		stopped = true
	default:
	}
	if stopped {
		// Killed on request; the exit status is ours, not an error.
		return
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			s.err = &ExitError{ExitCode: exitErr.ExitCode(), Stderr: stderr.Bytes()}
		} else {
			s.err = fmt.Errorf("failed to wait for command: %w", waitErr)
		}
		return
	}
	if scanErr != nil {
		s.err = fmt.Errorf("failed to read command output: %w", scanErr)
	}
}
