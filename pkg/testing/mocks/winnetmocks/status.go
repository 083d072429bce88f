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

// MockStatusSource is a testify mock for the status loop's view of the
// winnet client: enumeration, Wi-Fi status, and diagnostics snapshots.
type MockStatusSource struct {
	mock.Mock
}

// Adapters mocks adapter enumeration.
func (m *MockStatusSource) Adapters(ctx context.Context) ([]winnet.Adapter, error) {
	args := m.Called(ctx)
	var adapters []winnet.Adapter
	if v := args.Get(0); v != nil {
		adapters, _ = v.([]winnet.Adapter)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return adapters, args.Error(1)
}

// WifiStatus mocks a Wi-Fi status query.
func (m *MockStatusSource) WifiStatus(ctx context.Context) (winnet.WifiStatus, error) {
	args := m.Called(ctx)
	var status winnet.WifiStatus
	if v := args.Get(0); v != nil {
		status, _ = v.(winnet.WifiStatus)
	}
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return status, args.Error(1)
}

// Diagnostics mocks a diagnostics snapshot. It never fails; partial
// failure lives inside the returned snapshot, like the real client.
func (m *MockStatusSource) Diagnostics(
	ctx context.Context, pingTarget, publicIPURL string,
) winnet.Diagnostics {
	args := m.Called(ctx, pingTarget, publicIPURL)
	var diag winnet.Diagnostics
	if v := args.Get(0); v != nil {
		diag, _ = v.(winnet.Diagnostics)
	}
	return diag
}
