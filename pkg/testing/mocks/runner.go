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

import (
	"context"
	"slices"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify mock for command.Runner. It allows testing the
// network operation layer without spawning real processes.
type MockRunner struct {
	mock.Mock
}

// Run mocks a command execution. Use On() to set expectations and Return()
// to control the mock behavior, or the Setup helpers below for the common
// shapes.
//
// Example:
//
//	runner := &mocks.MockRunner{}
//	runner.SetupArgs("Windows IP Configuration\n", "ipconfig", "/all")
func (m *MockRunner) Run(ctx context.Context, req command.Request) (*command.Result, error) {
	args := m.Called(ctx, req)
	var res *command.Result
	if v := args.Get(0); v != nil {
		res, _ = v.(*command.Result)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return res, args.Error(1)
}

// MatchArgs returns a testify matcher for requests with an exact argument
// vector.
func MatchArgs(argv ...string) any {
	return mock.MatchedBy(func(req command.Request) bool {
		return slices.Equal(req.Args, argv)
	})
}

// MatchScript returns a matcher for a one-shot PowerShell run of script.
func MatchScript(script string) any {
	return mock.MatchedBy(func(req command.Request) bool {
		return slices.Equal(req.Args, command.PowerShellArgs(script))
	})
}

// SetupArgs configures canned stdout for an exact raw argument vector.
func (m *MockRunner) SetupArgs(stdout string, argv ...string) *mock.Call {
	return m.On("Run", mock.Anything, MatchArgs(argv...)).
		Return(&command.Result{Stdout: []byte(stdout)}, nil)
}

// SetupArgsError configures a failure for an exact raw argument vector.
func (m *MockRunner) SetupArgsError(err error, argv ...string) *mock.Call {
	return m.On("Run", mock.Anything, MatchArgs(argv...)).Return(nil, err)
}

// SetupScript configures canned stdout for a one-shot PowerShell script.
func (m *MockRunner) SetupScript(script, stdout string) *mock.Call {
	return m.On("Run", mock.Anything, MatchScript(script)).
		Return(&command.Result{Stdout: []byte(stdout)}, nil)
}

// SetupScriptError configures a failure for a one-shot PowerShell script.
func (m *MockRunner) SetupScriptError(script string, err error) *mock.Call {
	return m.On("Run", mock.Anything, MatchScript(script)).Return(nil, err)
}

// SetupAnySuccess makes every command succeed with empty output unless a
// more specific expectation matches first.
func (m *MockRunner) SetupAnySuccess() *mock.Call {
	return m.On("Run", mock.Anything, mock.Anything).
		Return(&command.Result{}, nil).Maybe()
}
