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
	"context"
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const connectionsJSON = `[
  {
    "Proto": "TCP",
    "Local": "192.168.1.23:52114",
    "Foreign": "140.82.121.4:443",
    "State": "Established",
    "ProcessName": "firefox",
    "PID": 8812
  },
  {
    "Proto": "UDP",
    "Local": "0.0.0.0:5353",
    "Foreign": "*:*",
    "State": "N/A",
    "ProcessName": "svchost",
    "PID": 1204
  }
]`

func TestActiveConnections(t *testing.T) {
	t.Parallel()

	t.Run("parses_connection_table", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupScript(embeddedScript(t, scriptConnections), connectionsJSON)
		c := newTestClient(runner)

		conns, err := c.ActiveConnections(context.Background())

		require.NoError(t, err)
		require.Len(t, conns, 2)
		assert.Equal(t, ActiveConnection{
			Proto:       "TCP",
			LocalAddr:   "192.168.1.23:52114",
			RemoteAddr:  "140.82.121.4:443",
			State:       "Established",
			ProcessName: "firefox",
			PID:         8812,
		}, conns[0])
		assert.Equal(t, "N/A", conns[1].State)
		assert.Equal(t, 1204, conns[1].PID)
	})

	t.Run("empty_table_yields_nil", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupScript(embeddedScript(t, scriptConnections), "")
		c := newTestClient(runner)

		conns, err := c.ActiveConnections(context.Background())

		require.NoError(t, err)
		assert.Nil(t, conns)
	})

	t.Run("wraps_command_failure", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupScriptError(embeddedScript(t, scriptConnections),
			&command.ExitError{ExitCode: 1, Stderr: []byte("Access is denied.")})
		c := newTestClient(runner)

		_, err := c.ActiveConnections(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get active connections")
	})
}
