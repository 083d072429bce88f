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

package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueue_PublishDrain(t *testing.T) {
	t.Parallel()

	t.Run("drain_returns_publish_order", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Publish(events.StatusText{Text: "one"})
		q.Publish(events.StatusText{Text: "two"})
		q.Publish(events.StatusText{Text: "three"})

		drained := q.Drain()

		require.Len(t, drained, 3)
		assert.Equal(t, events.StatusText{Text: "one"}, drained[0])
		assert.Equal(t, events.StatusText{Text: "two"}, drained[1])
		assert.Equal(t, events.StatusText{Text: "three"}, drained[2])
	})

	t.Run("drain_empties_the_queue", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Publish(events.StatusText{Text: "pending"})

		require.Len(t, q.Drain(), 1)
		assert.Nil(t, q.Drain())
		assert.Equal(t, 0, q.Len())
	})

	t.Run("empty_drain_returns_nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, NewQueue().Drain())
	})

	t.Run("len_counts_pending", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		assert.Equal(t, 0, q.Len())
		q.Publish(events.StatusText{Text: "a"})
		q.Publish(events.StatusText{Text: "b"})
		assert.Equal(t, 2, q.Len())
	})

	t.Run("mixed_kinds_keep_concrete_types", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Publish(events.SpeedUpdated{Speeds: events.Speeds{"Ethernet": {DownloadBPS: 1}}})
		q.Publish(events.CommandFailed{Action: events.ActionFlushDNS, Err: assert.AnError})

		drained := q.Drain()

		require.Len(t, drained, 2)
		speed, ok := drained[0].(events.SpeedUpdated)
		require.True(t, ok)
		assert.InEpsilon(t, 1.0, speed.Speeds["Ethernet"].DownloadBPS, 1e-9)
		failed, ok := drained[1].(events.CommandFailed)
		require.True(t, ok)
		assert.Equal(t, events.ActionFlushDNS, failed.Action)
	})
}

// TestQueue_PerProducerOrdering checks the queue's one real ordering
// promise: events from the same producer come out in the order that
// producer published them, even with many producers racing.
func TestQueue_PerProducerOrdering(t *testing.T) {
	t.Parallel()

	const producers = 8
	const perProducer = 200

	q := NewQueue()

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Publish(events.StatusText{Text: fmt.Sprintf("%d/%d", p, i)})
			}
		}()
	}
	wg.Wait()

	drained := q.Drain()
	require.Len(t, drained, producers*perProducer)

	next := make([]int, producers)
	for _, evt := range drained {
		text, ok := evt.(events.StatusText)
		require.True(t, ok)
		var p, i int
		_, err := fmt.Sscanf(text.Text, "%d/%d", &p, &i)
		require.NoError(t, err)
		require.Equal(t, next[p], i, "producer %d out of order", p)
		next[p]++
	}
	for p := range producers {
		assert.Equal(t, perProducer, next[p])
	}
}

func TestQueue_Close(t *testing.T) {
	t.Parallel()

	t.Run("publish_after_close_drops_silently", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Close()
		q.Publish(events.StatusText{Text: "late"})

		assert.Equal(t, 0, q.Len())
		assert.Nil(t, q.Drain())
	})

	t.Run("close_discards_pending", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Publish(events.StatusText{Text: "pending"})
		q.Close()

		assert.Nil(t, q.Drain())
	})

	t.Run("close_is_idempotent", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		q.Close()
		q.Close()
	})

	t.Run("racing_publishers_cannot_panic_a_closing_queue", func(t *testing.T) {
		t.Parallel()

		q := NewQueue()
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 100 {
					q.Publish(events.StatusText{Text: fmt.Sprint(i)})
				}
			}()
		}
		q.Close()
		wg.Wait()

		assert.Nil(t, q.Drain())
	})
}
