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

// Package queue carries events from producer goroutines to the single
// consumer. It is pure transport: no interpretation of event kinds
// happens here.
package queue

import (
	"github.com/NetPilotProject/netpilot-core/pkg/helpers/syncutil"
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/rs/zerolog/log"
)

// Queue is an ordered, unbounded, multi-producer/single-consumer event
// queue. Publish never blocks and preserves each producer's ordering;
// no total order across producers is promised or needed, since the
// polling loops are independent. Unbounded is safe here because volume
// is bounded by polling cadence, not external load.
type Queue struct {
	items  []events.Event
	mu     syncutil.Mutex
	closed bool
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Publish appends an event for the consumer. Events published after
// Close are dropped; producers may still be winding down while the
// service shuts down and must not block or panic on a dead queue.
func (q *Queue) Publish(evt events.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		log.Debug().Msgf("dropping %T published after queue close", evt)
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all pending events in publish order and empties the
// queue. Only the single consumer may call it.
func (q *Queue) Drain() []events.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and discards anything pending. Safe to
// call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.items = nil
}
