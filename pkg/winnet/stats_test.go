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
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsConfig(t *testing.T, source string) *config.Instance {
	t.Helper()
	defaults := config.BaseDefaults
	defaults.Stats.Source = source
	cfg, err := config.NewConfig(t.TempDir(), defaults)
	require.NoError(t, err)
	return cfg
}

func TestNewCounterSource(t *testing.T) {
	t.Parallel()

	t.Run("native_by_default", func(t *testing.T) {
		t.Parallel()

		source := NewCounterSource(statsConfig(t, config.StatsSourceNative), &mocks.MockRunner{})

		assert.IsType(t, NativeCounters{}, source)
	})

	t.Run("powershell_when_configured", func(t *testing.T) {
		t.Parallel()

		source := NewCounterSource(statsConfig(t, config.StatsSourcePowerShell), &mocks.MockRunner{})

		assert.IsType(t, &PowerShellCounters{}, source)
	})
}

func TestNativeCounters(t *testing.T) {
	t.Parallel()

	sample, err := NativeCounters{}.Counters(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, sample)
}

func TestPowerShellCounters(t *testing.T) {
	t.Parallel()

	t.Run("samples_through_cmdlet", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupScript(statsScript,
			`[{"Name":"Ethernet","ReceivedBytes":123456789,"SentBytes":987654},
			  {"Name":"Wi-Fi","ReceivedBytes":42,"SentBytes":7}]`)
		source := NewPowerShellCounters(runner)

		sample, err := source.Counters(context.Background())

		require.NoError(t, err)
		assert.Equal(t, CounterSample{
			"Ethernet": {ReceivedBytes: 123456789, SentBytes: 987654},
			"Wi-Fi":    {ReceivedBytes: 42, SentBytes: 7},
		}, sample)
	})

	t.Run("wraps_command_failure", func(t *testing.T) {
		t.Parallel()

		runner := &mocks.MockRunner{}
		runner.SetupScriptError(statsScript, &command.ExitError{ExitCode: 1})
		source := NewPowerShellCounters(runner)

		_, err := source.Counters(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to sample adapter statistics")
	})
}

func TestParseCounterJSON(t *testing.T) {
	t.Parallel()

	t.Run("wraps_single_object", func(t *testing.T) {
		t.Parallel()

		sample := parseCounterJSON(`{"Name":"Ethernet","ReceivedBytes":10,"SentBytes":20}`)

		assert.Equal(t, CounterSample{"Ethernet": {ReceivedBytes: 10, SentBytes: 20}}, sample)
	})

	t.Run("null_counters_read_zero", func(t *testing.T) {
		t.Parallel()

		sample := parseCounterJSON(`{"Name":"vEthernet","ReceivedBytes":null,"SentBytes":null}`)

		assert.Equal(t, CounterSample{"vEthernet": {}}, sample)
	})

	t.Run("drops_nameless_entries", func(t *testing.T) {
		t.Parallel()

		sample := parseCounterJSON(`[{"ReceivedBytes":10},{"Name":"Ethernet","ReceivedBytes":1}]`)

		assert.Equal(t, CounterSample{"Ethernet": {ReceivedBytes: 1}}, sample)
	})

	t.Run("bad_document_yields_empty_sample", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "   ", "Get-NetAdapter : not recognized", `{"Name":`} {
			assert.Empty(t, parseCounterJSON(raw), "raw %q", raw)
		}
	})

	t.Run("holds_full_uint64_range", func(t *testing.T) {
		t.Parallel()

		sample := parseCounterJSON(
			`{"Name":"Ethernet","ReceivedBytes":18446744073709551615,"SentBytes":0}`)

		assert.Equal(t, uint64(18446744073709551615), sample["Ethernet"].ReceivedBytes)
	})

	t.Run("non_integer_counters_read_zero", func(t *testing.T) {
		t.Parallel()

		sample := parseCounterJSON(`{"Name":"Ethernet","ReceivedBytes":1.5,"SentBytes":"12"}`)

		assert.Equal(t, Counters{}, sample["Ethernet"])
	})
}
