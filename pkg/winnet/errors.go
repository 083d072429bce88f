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
	"strings"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
)

// Sentinel errors for conditions callers are expected to branch on.
// Everything else propagates as the underlying command error.
var (
	// ErrAlreadyInState means an enable or disable was a no-op because the
	// adapter was already there.
	ErrAlreadyInState = errors.New("adapter is already in the requested state")

	// ErrWifiConnectedDisableFailed means Windows refused to disable the
	// adapter carrying the active Wi-Fi connection. Disconnect first.
	ErrWifiConnectedDisableFailed = errors.New("adapter cannot be disabled while connected to Wi-Fi")

	// ErrNotConnected means a disconnect was requested with no active
	// Wi-Fi connection. Callers usually treat this as success.
	ErrNotConnected = errors.New("no active Wi-Fi connection")

	// ErrLocationPermissionDenied means Windows blocked the network scan
	// until location services are enabled.
	ErrLocationPermissionDenied = errors.New("location services must be enabled to scan for Wi-Fi networks")

	// ErrWifiInvalidKey means the stored profile's security key was
	// rejected by the network.
	ErrWifiInvalidKey = errors.New("the network security key is not correct")

	// ErrDHCPServerUnreachable means an address renewal could not reach
	// the DHCP server.
	ErrDHCPServerUnreachable = errors.New("unable to contact the DHCP server")

	// ErrAdapterDisabled means the operation needs at least one enabled
	// adapter and found none.
	ErrAdapterDisabled = errors.New("no enabled network adapter available")

	// ErrElevationRequired means the operation needs administrator rights.
	ErrElevationRequired = errors.New("operation requires administrator privileges")

	// ErrInvalidTraceTarget means the traceroute target is neither an IP
	// literal nor a plausible host name.
	ErrInvalidTraceTarget = errors.New("invalid traceroute target")
)

// matchOutput reports whether err is a command exit failure whose output
// contains any of the given fragments. Matching is case-insensitive.
// Windows tools localize their messages, so known translations are listed
// alongside the English forms at call sites; the whole mechanism is a
// best-effort heuristic layered over exit codes, which are useless on
// their own (netsh exits 1 for nearly everything).
func matchOutput(err error, fragments ...string) bool {
	var exitErr *command.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	return containsAny(strings.ToLower(exitErr.Message()), fragments...)
}

func containsAny(s string, fragments ...string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
