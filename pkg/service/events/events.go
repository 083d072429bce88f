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

// Package events defines the closed set of event types the service
// publishes to its consumer. Events are immutable values; producers build
// them once and never touch them after publishing.
package events

import "github.com/NetPilotProject/netpilot-core/pkg/winnet"

// Event is the union of everything the service can publish. The consumer
// switches on the concrete type; the unexported marker keeps the set
// closed so a missing case is findable at review time rather than
// runtime.
type Event interface {
	isEvent()
}

// Action identifies a user-initiated operation in command result events.
type Action string

const (
	ActionAdapterEnable  Action = "adapter.enable"
	ActionAdapterDisable Action = "adapter.disable"
	ActionAdapterRefresh Action = "adapter.refresh"
	ActionSetStaticIP    Action = "adapter.static_ip"
	ActionSetDHCP        Action = "adapter.dhcp"
	ActionWifiConnect    Action = "wifi.connect"
	ActionWifiDisconnect Action = "wifi.disconnect"
	ActionProfileDelete  Action = "wifi.profile_delete"
	ActionFlushDNS       Action = "system.flush_dns"
	ActionReleaseRenew   Action = "system.release_renew"
	ActionWinsockReset   Action = "system.winsock_reset"
	ActionProcessKill    Action = "system.process_kill"
)

// Rate is the transfer rate of one adapter over one polling interval.
type Rate struct {
	DownloadBPS float64
	UploadBPS   float64
}

// Speeds maps adapter name to its current transfer rate. Rates are never
// negative; an interval spanning a counter reset reads as zero.
type Speeds map[string]Rate

// SpeedUpdated carries the rates computed on one fast-poll tick. The full
// map is published; the consumer picks the adapter it is showing.
type SpeedUpdated struct {
	Speeds Speeds
}

// AdaptersUpdated carries a fresh adapter enumeration, published once at
// startup and after actions that change adapter state.
type AdaptersUpdated struct {
	Adapters []winnet.Adapter
}

// DiagnosticsUpdated carries one connectivity snapshot from the slow poll
// loop.
type DiagnosticsUpdated struct {
	Diagnostics winnet.Diagnostics
}

// WifiStatusUpdated carries the current Wi-Fi association state from the
// slow poll loop.
type WifiStatusUpdated struct {
	Status winnet.WifiStatus
}

// CommandSucceeded reports a completed user action. Detail is a short
// human-readable outcome, e.g. the name of the adapter that was enabled.
type CommandSucceeded struct {
	Action Action
	Detail string
}

// CommandFailed reports a failed user action. Err keeps the typed error
// chain so the consumer can branch on sentinel conditions.
type CommandFailed struct {
	Action Action
	Err    error
}

// StatusText is a transient progress line from a multi-step operation.
type StatusText struct {
	Text string
}

func (SpeedUpdated) isEvent()       {}
func (AdaptersUpdated) isEvent()    {}
func (DiagnosticsUpdated) isEvent() {}
func (WifiStatusUpdated) isEvent()  {}
func (CommandSucceeded) isEvent()   {}
func (CommandFailed) isEvent()      {}
func (StatusText) isEvent()         {}
