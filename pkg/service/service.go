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

// Package service assembles and runs the NetPilot core: the polling
// loops, the background action runner, and the event queue the consumer
// drains. All blocking work happens here in producers; the consumer
// only renders what lands on the queue.
package service

import (
	"sync"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/service/polling"
	"github.com/NetPilotProject/netpilot-core/pkg/service/queue"
	"github.com/NetPilotProject/netpilot-core/pkg/service/state"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Core is the running service handle. The consumer drains Queue,
// signals the adapter of interest through State, and triggers one-off
// operations through Actions. Client is exposed for one-shot flows
// (diagnostics snapshot, traceroute streaming) that bypass the loops.
type Core struct {
	State   *state.State
	Queue   *queue.Queue
	Actions *Actions
	Client  *winnet.Client
	watcher *config.Watcher
	wg      sync.WaitGroup
}

// Start brings up the service against the real command runner.
func Start(cfg *config.Instance) (*Core, error) {
	return StartWithRunner(cfg, &command.ExecRunner{})
}

// StartWithRunner is Start with an injected runner so tests can bring
// up the full service without spawning a single real process.
func StartWithRunner(cfg *config.Instance, runner command.Runner) (*Core, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	st := state.NewState()
	log.Info().Msgf("session ID: %s", st.SessionID())

	q := queue.NewQueue()
	scripts := winnet.NewScriptStore(afero.NewOsFs(), cfg.ScriptsDir())
	client := winnet.NewClient(runner, scripts)

	core := &Core{
		State:   st,
		Queue:   q,
		Actions: NewActions(st.GetContext(), client, q),
		Client:  client,
	}

	watcher, err := config.StartWatcher(cfg)
	if err != nil {
		// Live reload is a convenience; the service is more useful
		// running without it than refusing to start.
		log.Warn().Err(err).Msg("config file watching disabled")
	} else {
		core.watcher = watcher
	}

	log.Info().Msg("starting speed loop")
	speed := polling.NewSpeedPoller(cfg, st, q, winnet.NewCounterSource(cfg, runner), nil)
	core.wg.Add(1)
	go func() {
		defer core.wg.Done()
		speed.Run(st.GetContext())
	}()

	log.Info().Msg("starting status loop")
	status := polling.NewStatusPoller(cfg, q, client, nil)
	core.wg.Add(1)
	go func() {
		defer core.wg.Done()
		status.Run(st.GetContext())
	}()

	log.Info().Msg("service started")
	return core, nil
}

// Stop shuts the service down: cancel the lifecycle context, join the
// polling loops and any in-flight actions, stop the config watcher,
// then close the queue. Producers racing shutdown publish into the
// closed queue and are dropped there.
func (c *Core) Stop() {
	log.Info().Msg("stopping service")
	c.State.Stop()
	c.wg.Wait()
	c.Actions.Wait()
	if c.watcher != nil {
		c.watcher.Stop()
	}
	c.Queue.Close()
	log.Info().Msg("service stopped")
}
