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

package winnetmocks

import (
	"context"

	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/stretchr/testify/mock"
)

// MockCounterSource is a testify mock for winnet.CounterSource. Polling
// tests feed it scripted samples to drive speed computation.
type MockCounterSource struct {
	mock.Mock
}

// Counters mocks one adapter counter fetch.
//
// Example:
//
//	src := &mocks.MockCounterSource{}
//	src.On("Counters", mock.Anything).
//		Return(winnet.CounterSample{"Ethernet": {ReceivedBytes: 100}}, nil).Once()
func (m *MockCounterSource) Counters(ctx context.Context) (winnet.CounterSample, error) {
	args := m.Called(ctx)
	var sample winnet.CounterSample
	if v := args.Get(0); v != nil {
		sample, _ = v.(winnet.CounterSample)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return sample, args.Error(1)
}
