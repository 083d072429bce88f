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

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/service/queue"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// refreshMinInterval throttles explicit adapter re-enumeration. The
// enumeration script costs a PowerShell process, so button mashing gets
// absorbed here instead of spawning a pile of them.
const refreshMinInterval = 3 * time.Second

// Actions runs user-initiated operations in the background. Every
// invocation spawns a tracked goroutine and ends in exactly one
// CommandSucceeded or CommandFailed on the queue; nothing fails
// silently. Long flows surface progress through StatusText events.
type Actions struct {
	ctx     context.Context
	client  *winnet.Client
	queue   *queue.Queue
	refresh *rate.Limiter
	wg      sync.WaitGroup
}

// NewActions wires the action runner against the service lifecycle
// context; cancelling it aborts in-flight operations.
func NewActions(ctx context.Context, client *winnet.Client, q *queue.Queue) *Actions {
	return &Actions{
		ctx:     ctx,
		client:  client,
		queue:   q,
		refresh: rate.NewLimiter(rate.Every(refreshMinInterval), 1),
	}
}

// spawn runs op in a tracked goroutine and publishes its outcome. The
// op returns the success detail shown to the user.
func (a *Actions) spawn(action events.Action, op func(ctx context.Context) (string, error)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		detail, err := op(a.ctx)
		if err != nil {
			log.Error().Err(err).Str("action", string(action)).Msg("action failed")
			a.queue.Publish(events.CommandFailed{Action: action, Err: err})
			return
		}
		a.queue.Publish(events.CommandSucceeded{Action: action, Detail: detail})
	}()
}

func (a *Actions) notify(text string) {
	a.queue.Publish(events.StatusText{Text: text})
}

// Wait blocks until every in-flight action goroutine has finished.
// Called during shutdown after the lifecycle context is cancelled.
func (a *Actions) Wait() {
	a.wg.Wait()
}

// EnableAdapter turns an adapter on.
func (a *Actions) EnableAdapter(name string) {
	a.spawn(events.ActionAdapterEnable, func(ctx context.Context) (string, error) {
		err := a.client.EnableAdapter(ctx, name)
		if errors.Is(err, winnet.ErrAlreadyInState) {
			return fmt.Sprintf("Adapter %q is already enabled.", name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Adapter %q enabled.", name), nil
	})
}

// DisableAdapter turns an adapter off via the safe disconnect-first
// flow, streaming its step announcements as StatusText events.
func (a *Actions) DisableAdapter(name string) {
	a.spawn(events.ActionAdapterDisable, func(ctx context.Context) (string, error) {
		err := a.client.DisconnectAndDisable(ctx, name, a.notify)
		if errors.Is(err, winnet.ErrAlreadyInState) {
			return fmt.Sprintf("Adapter %q is already disabled.", name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Adapter %q disabled.", name), nil
	})
}

// RefreshAdapters re-enumerates adapters and publishes a fresh
// AdaptersUpdated. Throttled; excess requests drop with a notice.
func (a *Actions) RefreshAdapters() {
	if !a.refresh.Allow() {
		a.notify("Adapter list was just refreshed, try again in a moment.")
		return
	}
	a.spawn(events.ActionAdapterRefresh, func(ctx context.Context) (string, error) {
		adapters, err := a.client.Adapters(ctx)
		if err != nil {
			return "", err
		}
		a.queue.Publish(events.AdaptersUpdated{Adapters: adapters})
		return fmt.Sprintf("Found %d network adapters.", len(adapters)), nil
	})
}

// SetStaticAddress configures a static IPv4 address on an adapter.
func (a *Actions) SetStaticAddress(name, ip, mask, gateway string) {
	a.spawn(events.ActionSetStaticIP, func(ctx context.Context) (string, error) {
		if err := a.client.SetStaticAddress(ctx, name, ip, mask, gateway); err != nil {
			return "", err
		}
		return fmt.Sprintf("Adapter %q set to static address %s.", name, ip), nil
	})
}

// SetDHCP returns an adapter to DHCP-assigned addressing.
func (a *Actions) SetDHCP(name string) {
	a.spawn(events.ActionSetDHCP, func(ctx context.Context) (string, error) {
		err := a.client.SetDHCP(ctx, name)
		if errors.Is(err, winnet.ErrAlreadyInState) {
			return fmt.Sprintf("Adapter %q is already using DHCP.", name), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Adapter %q set to DHCP.", name), nil
	})
}

// ConnectWifi connects to a saved Wi-Fi profile.
func (a *Actions) ConnectWifi(profile string) {
	a.spawn(events.ActionWifiConnect, func(ctx context.Context) (string, error) {
		if err := a.client.ConnectWifi(ctx, profile); err != nil {
			return "", err
		}
		return fmt.Sprintf("Connecting to %q.", profile), nil
	})
}

// DisconnectWifi drops the current Wi-Fi association. Not being
// connected is already the requested outcome, not a failure.
func (a *Actions) DisconnectWifi() {
	a.spawn(events.ActionWifiDisconnect, func(ctx context.Context) (string, error) {
		err := a.client.DisconnectWifi(ctx)
		if errors.Is(err, winnet.ErrNotConnected) {
			return "Wi-Fi was already disconnected.", nil
		}
		if err != nil {
			return "", err
		}
		return "Wi-Fi disconnected.", nil
	})
}

// DeleteWifiProfile removes a saved Wi-Fi profile.
func (a *Actions) DeleteWifiProfile(profile string) {
	a.spawn(events.ActionProfileDelete, func(ctx context.Context) (string, error) {
		if err := a.client.DeleteProfile(ctx, profile); err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted Wi-Fi profile %q.", profile), nil
	})
}

// FlushDNS clears the DNS resolver cache.
func (a *Actions) FlushDNS() {
	a.spawn(events.ActionFlushDNS, func(ctx context.Context) (string, error) {
		if err := a.client.FlushDNS(ctx); err != nil {
			return "", err
		}
		return "DNS cache flushed.", nil
	})
}

// ReleaseRenew drops and re-acquires DHCP leases, announcing each step.
func (a *Actions) ReleaseRenew() {
	a.spawn(events.ActionReleaseRenew, func(ctx context.Context) (string, error) {
		if err := a.client.ReleaseRenew(ctx, a.notify); err != nil {
			return "", err
		}
		return "DHCP leases renewed.", nil
	})
}

// WinsockReset resets the Winsock catalog.
func (a *Actions) WinsockReset() {
	a.spawn(events.ActionWinsockReset, func(ctx context.Context) (string, error) {
		if err := a.client.WinsockReset(ctx); err != nil {
			return "", err
		}
		return "Network stack reset. Restart the computer to finish.", nil
	})
}

// KillProcess force-terminates a process tree by PID.
func (a *Actions) KillProcess(pid int) {
	a.spawn(events.ActionProcessKill, func(ctx context.Context) (string, error) {
		if err := a.client.KillProcess(ctx, pid); err != nil {
			return "", err
		}
		return fmt.Sprintf("Process %d terminated.", pid), nil
	})
}
