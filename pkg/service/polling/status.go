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

package polling

import (
	"context"
	"sync"

	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/service/queue"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// StatusSource is the slice of winnet.Client the status loop needs.
type StatusSource interface {
	Adapters(ctx context.Context) ([]winnet.Adapter, error)
	WifiStatus(ctx context.Context) (winnet.WifiStatus, error)
	Diagnostics(ctx context.Context, pingTarget, publicIPURL string) winnet.Diagnostics
}

// StatusPoller refreshes the slow-moving picture of the network: one
// adapter enumeration at startup, then a diagnostics snapshot and Wi-Fi
// status on every tick. Each unit publishes and fails independently.
type StatusPoller struct {
	clock      clockwork.Clock
	cfg        *config.Instance
	queue      *queue.Queue
	source     StatusSource
	enumerated bool
}

// NewStatusPoller wires a status loop. A nil clock selects the real
// one; tests inject a fake.
func NewStatusPoller(
	cfg *config.Instance,
	q *queue.Queue,
	source StatusSource,
	clock clockwork.Clock,
) *StatusPoller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &StatusPoller{
		cfg:    cfg,
		queue:  q,
		source: source,
		clock:  clock,
	}
}

// Run blocks until ctx is cancelled, ticking at the configured status
// interval. The interval is re-read every pass so a config reload takes
// effect without a restart.
func (p *StatusPoller) Run(ctx context.Context) {
	log.Info().Msg("status loop started")
	defer log.Info().Msg("status loop stopped")

	for {
		p.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.cfg.StatusInterval()):
		}
	}
}

func (p *StatusPoller) tick(ctx context.Context) {
	defer recoverTick("status")

	// Adapter sets change rarely; enumerate once, but keep retrying
	// until the first enumeration lands. Explicit refreshes after that
	// go through the refresh action.
	if !p.enumerated {
		adapters, err := p.source.Adapters(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("status loop failed to enumerate adapters")
		} else {
			p.enumerated = true
			p.queue.Publish(events.AdaptersUpdated{Adapters: adapters})
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer recoverTick("status:diagnostics")
		// Diagnostics absorbs partial failures into zeroed fields, so
		// there is always a snapshot to publish.
		diag := p.source.Diagnostics(ctx, p.cfg.PingTarget(), p.cfg.PublicIPURL())
		p.queue.Publish(events.DiagnosticsUpdated{Diagnostics: diag})
	}()

	go func() {
		defer wg.Done()
		defer recoverTick("status:wifi")
		status, err := p.source.WifiStatus(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("status loop failed to read wifi status")
			return
		}
		p.queue.Publish(events.WifiStatusUpdated{Status: status})
	}()

	wg.Wait()
}
