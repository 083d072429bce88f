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
	"time"

	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/service/queue"
	"github.com/NetPilotProject/netpilot-core/pkg/service/state"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// SpeedPoller samples traffic counters on a fast cadence and publishes
// per-adapter throughput. It owns its sample history; nothing outside
// the loop goroutine touches prev/prevAt.
type SpeedPoller struct {
	clock  clockwork.Clock
	cfg    *config.Instance
	st     *state.State
	queue  *queue.Queue
	source winnet.CounterSource
	prevAt time.Time
	prev   winnet.CounterSample
}

// NewSpeedPoller wires a speed loop against a counter source. A nil
// clock selects the real one; tests inject a fake.
func NewSpeedPoller(
	cfg *config.Instance,
	st *state.State,
	q *queue.Queue,
	source winnet.CounterSource,
	clock clockwork.Clock,
) *SpeedPoller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SpeedPoller{
		cfg:    cfg,
		st:     st,
		queue:  q,
		source: source,
		clock:  clock,
	}
}

// Run blocks until ctx is cancelled, ticking at the configured speed
// interval. The interval is re-read every pass so a config reload takes
// effect without a restart.
func (p *SpeedPoller) Run(ctx context.Context) {
	log.Info().Msg("speed loop started")
	defer log.Info().Msg("speed loop stopped")

	for {
		p.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.cfg.SpeedInterval()):
		}
	}
}

func (p *SpeedPoller) tick(ctx context.Context) {
	defer recoverTick("speed")

	sample, err := p.source.Counters(ctx)
	if err != nil {
		// Keep the previous sample: the next successful read computes
		// its delta across the gap, so dt grows and rates stay honest.
		log.Warn().Err(err).Msg("speed loop failed to read counters")
		return
	}

	now := p.clock.Now()
	var speeds events.Speeds
	if !p.prevAt.IsZero() {
		speeds = ComputeSpeeds(sample, p.prev, now.Sub(p.prevAt).Seconds())
	}
	baselined := !p.prevAt.IsZero()
	p.prev = sample
	p.prevAt = now

	// History always advances; emission waits for an adapter of
	// interest so an idle service costs nothing downstream.
	if !baselined || p.st.SelectedAdapter() == "" {
		return
	}
	p.queue.Publish(events.SpeedUpdated{Speeds: speeds})
}
