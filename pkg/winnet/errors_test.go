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

package winnet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/stretchr/testify/assert"
)

func TestMatchOutput(t *testing.T) {
	t.Parallel()

	t.Run("matches_case_insensitively", func(t *testing.T) {
		t.Parallel()

		err := &command.ExitError{
			ExitCode: 1,
			Stderr:   []byte("The Object Is Already In The State Described."),
		}

		assert.True(t, matchOutput(err, "already in the state"))
	})

	t.Run("falls_back_to_stdout", func(t *testing.T) {
		t.Parallel()

		err := &command.ExitError{
			ExitCode: 1,
			Stdout:   []byte("There is no wireless interface on the system."),
		}

		assert.True(t, matchOutput(err, "no wireless interface"))
	})

	t.Run("any_fragment_suffices", func(t *testing.T) {
		t.Parallel()

		err := &command.ExitError{ExitCode: 1, Stdout: []byte("ei ole yhteydessä")}

		assert.True(t, matchOutput(err, "not connected", "ei ole yhteydessä"))
	})

	t.Run("sees_through_wrapping", func(t *testing.T) {
		t.Parallel()

		exitErr := &command.ExitError{ExitCode: 1, Stderr: []byte("access is denied")}
		wrapped := fmt.Errorf("failed to do the thing: %w", exitErr)

		assert.True(t, matchOutput(wrapped, "access is denied"))
	})

	t.Run("ignores_non_exit_errors", func(t *testing.T) {
		t.Parallel()

		assert.False(t, matchOutput(errors.New("no wireless interface"), "no wireless interface"))
		assert.False(t, matchOutput(nil, "anything"))
	})

	t.Run("no_match_without_fragment", func(t *testing.T) {
		t.Parallel()

		err := &command.ExitError{ExitCode: 1, Stderr: []byte("something else entirely")}

		assert.False(t, matchOutput(err, "not connected"))
	})
}
