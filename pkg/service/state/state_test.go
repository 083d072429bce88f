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

package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewState(t *testing.T) {
	t.Parallel()

	s := NewState()
	defer s.Stop()

	assert.NotEmpty(t, s.SessionID())
	assert.Empty(t, s.SelectedAdapter())
	assert.False(t, s.Stopped())

	select {
	case <-s.GetContext().Done():
		t.Fatal("fresh state context must not be cancelled")
	default:
	}
}

func TestNewState_SessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	a := NewState()
	defer a.Stop()
	b := NewState()
	defer b.Stop()

	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestState_SelectedAdapter(t *testing.T) {
	t.Parallel()

	s := NewState()
	defer s.Stop()

	s.SetSelectedAdapter("Ethernet")
	assert.Equal(t, "Ethernet", s.SelectedAdapter())

	s.SetSelectedAdapter("Wi-Fi")
	assert.Equal(t, "Wi-Fi", s.SelectedAdapter())

	s.SetSelectedAdapter("")
	assert.Empty(t, s.SelectedAdapter())
}

func TestState_Stop(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Stop()

	assert.True(t, s.Stopped())

	select {
	case <-s.GetContext().Done():
	default:
		t.Fatal("Stop must cancel the lifecycle context")
	}

	require.NotPanics(t, s.Stop, "Stop must be safe to call twice")
}

// TestState_ConcurrentAccess exercises the selected-adapter signal the
// way the service uses it: the consumer writing while the speed loop
// reads. Run with -race to make this meaningful.
func TestState_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewState()
	defer s.Stop()

	names := []string{"Ethernet", "Wi-Fi", ""}

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := range 200 {
				s.SetSelectedAdapter(names[(i+j)%len(names)])
			}
		}()
		go func() {
			defer wg.Done()
			for range 200 {
				got := s.SelectedAdapter()
				assert.Contains(t, names, got)
			}
		}()
	}
	wg.Wait()
}
