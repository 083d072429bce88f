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

// Package polling runs the service's periodic measurement loops: a fast
// loop sampling traffic counters into throughput rates and a slow loop
// refreshing diagnostics and Wi-Fi status. Loops publish to the event
// queue and never die on a failed iteration.
package polling

import (
	"github.com/rs/zerolog/log"
)

// recoverTick keeps a polling loop alive through a panicking iteration.
// A panic here is a bug in a parser or collector, not a reason to stop
// monitoring, so it is logged and the loop moves on to the next tick.
func recoverTick(loop string) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Str("loop", loop).Msg("recovered panic in polling loop")
	}
}
