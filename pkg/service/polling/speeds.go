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
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
)

// ComputeSpeeds turns two counter samples taken dt seconds apart into
// per-adapter byte rates. Adapters present only in current have no
// baseline yet and are skipped this interval; they appear once the next
// sample gives them one. A counter that went backwards (adapter reset,
// 32-bit rollover on some drivers) reports zero for that direction
// rather than a huge bogus rate.
func ComputeSpeeds(current, previous winnet.CounterSample, dt float64) events.Speeds {
	speeds := make(events.Speeds, len(current))
	if dt <= 0 || len(previous) == 0 {
		return speeds
	}
	for name, cur := range current {
		prev, ok := previous[name]
		if !ok {
			continue
		}
		speeds[name] = events.Rate{
			DownloadBPS: rate(cur.ReceivedBytes, prev.ReceivedBytes, dt),
			UploadBPS:   rate(cur.SentBytes, prev.SentBytes, dt),
		}
	}
	return speeds
}

func rate(cur, prev uint64, dt float64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur-prev) / dt
}
