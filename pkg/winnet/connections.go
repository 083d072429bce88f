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
	"fmt"
)

// ActiveConnection is one row of the connection table: a TCP connection
// or a UDP listen endpoint. State is "N/A" for UDP.
type ActiveConnection struct {
	Proto       string `json:"Proto"`
	LocalAddr   string `json:"Local"`
	RemoteAddr  string `json:"Foreign"`
	State       string `json:"State"`
	ProcessName string `json:"ProcessName"`
	PID         int    `json:"PID"`
}

// ActiveConnections returns the live TCP connection and UDP endpoint
// table with owning process names resolved. One script call covers the
// whole table; querying per row would take seconds.
func (c *Client) ActiveConnections(ctx context.Context) ([]ActiveConnection, error) {
	out, err := c.runScript(ctx, scriptConnections, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get active connections: %w", err)
	}
	return decodeJSONList[ActiveConnection]("connection table", out)
}
