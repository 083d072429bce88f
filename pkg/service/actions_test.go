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
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/service/queue"
	"github.com/NetPilotProject/netpilot-core/pkg/testing/mocks"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestActions(runner *mocks.MockRunner) (*Actions, *queue.Queue) {
	q := queue.NewQueue()
	client := winnet.NewClient(runner, nil)
	return NewActions(context.Background(), client, q), q
}

// commandResults filters the queue down to action outcomes.
func commandResults(drained []events.Event) (succeeded []events.CommandSucceeded, failed []events.CommandFailed) {
	for _, evt := range drained {
		switch e := evt.(type) {
		case events.CommandSucceeded:
			succeeded = append(succeeded, e)
		case events.CommandFailed:
			failed = append(failed, e)
		}
	}
	return succeeded, failed
}

func TestActions_FlushDNS(t *testing.T) {
	t.Parallel()

	t.Run("success_publishes_command_succeeded", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupArgs("Successfully flushed the DNS Resolver Cache.\n", "ipconfig", "/flushdns")
		a, q := newTestActions(runner)

		a.FlushDNS()
		a.Wait()

		succeeded, failed := commandResults(q.Drain())
		require.Len(t, succeeded, 1)
		assert.Empty(t, failed)
		assert.Equal(t, events.ActionFlushDNS, succeeded[0].Action)
		assert.Equal(t, "DNS cache flushed.", succeeded[0].Detail)
		runner.AssertExpectations(t)
	})

	t.Run("failure_publishes_command_failed", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupArgsError(&command.ExitError{
			Stdout:   []byte("Could not flush the DNS Resolver Cache."),
			ExitCode: 1,
		}, "ipconfig", "/flushdns")
		a, q := newTestActions(runner)

		a.FlushDNS()
		a.Wait()

		succeeded, failed := commandResults(q.Drain())
		assert.Empty(t, succeeded)
		require.Len(t, failed, 1)
		assert.Equal(t, events.ActionFlushDNS, failed[0].Action)
		require.Error(t, failed[0].Err)
	})
}

func TestActions_DisconnectWifi_NotConnectedIsSuccess(t *testing.T) {
	t.Parallel()

	runner := &mocks.MockRunner{}
	runner.SetupArgsError(&command.ExitError{
		Stdout:   []byte("There is no wireless interface connected, or the interface is not connected to a network."),
		ExitCode: 1,
	}, "netsh", "wlan", "disconnect")
	a, q := newTestActions(runner)

	a.DisconnectWifi()
	a.Wait()

	succeeded, failed := commandResults(q.Drain())
	assert.Empty(t, failed, "asking to disconnect while disconnected is not a failure")
	require.Len(t, succeeded, 1)
	assert.Equal(t, events.ActionWifiDisconnect, succeeded[0].Action)
	assert.Equal(t, "Wi-Fi was already disconnected.", succeeded[0].Detail)
}

func TestActions_EnableAdapter_AlreadyEnabledIsSuccess(t *testing.T) {
	t.Parallel()

	runner := &mocks.MockRunner{}
	runner.SetupScriptError("Enable-NetAdapter -Name 'Ethernet' -Confirm:$false",
		&command.ExitError{
			Stdout:   []byte("Enable-NetAdapter : The object is already in the state described."),
			ExitCode: 1,
		})
	a, q := newTestActions(runner)

	a.EnableAdapter("Ethernet")
	a.Wait()

	succeeded, failed := commandResults(q.Drain())
	assert.Empty(t, failed)
	require.Len(t, succeeded, 1)
	assert.Equal(t, `Adapter "Ethernet" is already enabled.`, succeeded[0].Detail)
}

func TestActions_RefreshAdapters(t *testing.T) {
	t.Parallel()

	t.Run("publishes_fresh_adapter_list", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.On("Run", mock.Anything, mock.Anything).
			Return(&command.Result{Stdout: []byte(`[{"Name":"Ethernet","Status":"Up"}]`)}, nil).Once()
		a, q := newTestActions(runner)

		a.RefreshAdapters()
		a.Wait()

		drained := q.Drain()
		var updates []events.AdaptersUpdated
		for _, evt := range drained {
			if u, ok := evt.(events.AdaptersUpdated); ok {
				updates = append(updates, u)
			}
		}
		require.Len(t, updates, 1)
		require.Len(t, updates[0].Adapters, 1)
		assert.Equal(t, "Ethernet", updates[0].Adapters[0].Name)

		succeeded, failed := commandResults(drained)
		assert.Empty(t, failed)
		require.Len(t, succeeded, 1)
		assert.Equal(t, events.ActionAdapterRefresh, succeeded[0].Action)
		runner.AssertExpectations(t)
	})

	t.Run("excess_requests_drop_with_notice", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.On("Run", mock.Anything, mock.Anything).
			Return(&command.Result{Stdout: []byte(`[]`)}, nil).Once()
		a, q := newTestActions(runner)

		a.RefreshAdapters()
		a.RefreshAdapters()
		a.Wait()

		var notices int
		for _, evt := range q.Drain() {
			if _, ok := evt.(events.StatusText); ok {
				notices++
			}
		}
		assert.Equal(t, 1, notices, "second refresh inside the window drops with a notice")
		runner.AssertExpectations(t)
	})
}

func TestActions_ReleaseRenew_AnnouncesProgress(t *testing.T) {
	t.Parallel()

	runner := &mocks.MockRunner{}
	runner.SetupArgs("Windows IP Configuration\n", "ipconfig", "/release")
	runner.SetupArgs("Windows IP Configuration\n", "ipconfig", "/renew")
	a, q := newTestActions(runner)

	a.ReleaseRenew()
	a.Wait()

	var progress []string
	for _, evt := range q.Drain() {
		if s, ok := evt.(events.StatusText); ok {
			progress = append(progress, s.Text)
		}
	}
	require.Len(t, progress, 2)
	assert.Contains(t, progress[0], "Releasing")
	assert.Contains(t, progress[1], "Renewing")
	runner.AssertExpectations(t)
}

func TestActions_KillProcess_RefusesSystemPIDs(t *testing.T) {
	t.Parallel()

	// No runner expectations: the refusal must come before any spawn.
	runner := &mocks.MockRunner{}
	a, q := newTestActions(runner)

	a.KillProcess(0)
	a.KillProcess(4)
	a.Wait()

	succeeded, failed := commandResults(q.Drain())
	assert.Empty(t, succeeded)
	require.Len(t, failed, 2)
	for _, f := range failed {
		assert.Equal(t, events.ActionProcessKill, f.Action)
	}
	runner.AssertExpectations(t)
}

func TestActions_WaitJoinsOutstanding(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	runner := &mocks.MockRunner{}
	runner.On("Run", mock.Anything, mocks.MatchArgs("ipconfig", "/flushdns")).
		Run(func(mock.Arguments) { <-release }).
		Return(&command.Result{}, nil)
	a, q := newTestActions(runner)

	a.FlushDNS()
	assert.Equal(t, 0, q.Len(), "no outcome until the command finishes")

	close(release)
	a.Wait()

	succeeded, _ := commandResults(q.Drain())
	assert.Len(t, succeeded, 1)
}
