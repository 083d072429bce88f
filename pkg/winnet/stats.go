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

package winnet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/rs/zerolog/log"
	gopsnet "github.com/shirou/gopsutil/v4/net"
)

// Counters is a pair of monotonic byte counts for one adapter.
type Counters struct {
	ReceivedBytes uint64
	SentBytes     uint64
}

// CounterSample maps adapter name to its counters at one instant.
type CounterSample map[string]Counters

// CounterSource yields raw traffic counters for speed calculation.
type CounterSource interface {
	Counters(ctx context.Context) (CounterSample, error)
}

// NewCounterSource picks the counter backend from config. The native
// source is the default; the PowerShell source exists for setups where
// the in-process reader misses adapters.
func NewCounterSource(cfg *config.Instance, runner command.Runner) CounterSource {
	if cfg.StatsSource() == config.StatsSourcePowerShell {
		return NewPowerShellCounters(runner)
	}
	return NativeCounters{}
}

// NativeCounters reads per-NIC counters in process via gopsutil, costing
// no child process per sample.
type NativeCounters struct{}

// Counters returns a sample covering every interface the OS reports.
func (NativeCounters) Counters(ctx context.Context) (CounterSample, error) {
	stats, err := gopsnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface counters: %w", err)
	}

	sample := make(CounterSample, len(stats))
	for _, s := range stats {
		sample[s.Name] = Counters{ReceivedBytes: s.BytesRecv, SentBytes: s.BytesSent}
	}
	return sample, nil
}

// statsScript includes hidden adapters so the sample covers the same set
// the other views see.
const statsScript = `Get-NetAdapter -IncludeHidden | ForEach-Object {
  $stats = Get-NetAdapterStatistics -Name $_.Name
  [PSCustomObject]@{
    Name = $_.Name
    ReceivedBytes = $stats.ReceivedBytes
    SentBytes = $stats.SentBytes
  }
} | ConvertTo-Json`

// PowerShellCounters samples counters through Get-NetAdapterStatistics.
type PowerShellCounters struct {
	ps *command.PowerShell
}

// NewPowerShellCounters creates the cmdlet-backed counter source.
func NewPowerShellCounters(runner command.Runner) *PowerShellCounters {
	return &PowerShellCounters{ps: command.NewPowerShell(runner)}
}

// Counters runs the statistics script and parses its JSON.
func (p *PowerShellCounters) Counters(ctx context.Context) (CounterSample, error) {
	out, err := p.ps.Run(ctx, statsScript)
	if err != nil {
		return nil, fmt.Errorf("failed to sample adapter statistics: %w", err)
	}
	return parseCounterJSON(out), nil
}

// parseCounterJSON tolerates the usual ConvertTo-Json quirks: a missing
// array wrapper around single elements, null counters on virtual
// adapters, and entries with no name. A bad document produces an empty
// sample rather than an error; one missed sample only delays the next
// speed reading.
func parseCounterJSON(raw string) CounterSample {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return CounterSample{}
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		log.Error().Err(err).Msg("failed to parse adapter statistics JSON")
		return CounterSample{}
	}

	items, ok := data.([]any)
	if !ok {
		items = []any{data}
	}

	sample := make(CounterSample, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["Name"].(string)
		if name == "" {
			log.Debug().Msg("dropping adapter statistics entry with no name")
			continue
		}
		sample[name] = Counters{
			ReceivedBytes: toUint64(entry["ReceivedBytes"]),
			SentBytes:     toUint64(entry["SentBytes"]),
		}
	}
	return sample
}

// toUint64 coerces the numeric forms ConvertTo-Json emits; null and
// anything non-numeric count as zero.
func toUint64(v any) uint64 {
	num, ok := v.(json.Number)
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
