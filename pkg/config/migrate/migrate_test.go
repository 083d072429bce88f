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

package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIniToToml_Polling(t *testing.T) {
	t.Parallel()

	t.Run("legacy second intervals become milliseconds", func(t *testing.T) {
		t.Parallel()

		iniContent := `[polling]
speed_interval = 2
status_interval = 10
`
		iniPath := filepath.Join(t.TempDir(), "netpilot.ini")
		err := os.WriteFile(iniPath, []byte(iniContent), 0o600)
		require.NoError(t, err)

		vals, err := IniToToml(iniPath)

		require.NoError(t, err)
		assert.Equal(t, 2000, vals.Polling.SpeedIntervalMs)
		assert.Equal(t, 10000, vals.Polling.StatusIntervalMs)
	})

	t.Run("missing intervals keep defaults", func(t *testing.T) {
		t.Parallel()

		iniPath := filepath.Join(t.TempDir(), "netpilot.ini")
		err := os.WriteFile(iniPath, []byte("[netpilot]\n"), 0o600)
		require.NoError(t, err)

		vals, err := IniToToml(iniPath)

		require.NoError(t, err)
		assert.Equal(t, config.BaseDefaults.Polling.SpeedIntervalMs, vals.Polling.SpeedIntervalMs)
		assert.Equal(t, config.BaseDefaults.Polling.StatusIntervalMs, vals.Polling.StatusIntervalMs)
	})

	t.Run("zero interval is ignored", func(t *testing.T) {
		t.Parallel()

		iniContent := `[polling]
speed_interval = 0
`
		iniPath := filepath.Join(t.TempDir(), "netpilot.ini")
		err := os.WriteFile(iniPath, []byte(iniContent), 0o600)
		require.NoError(t, err)

		vals, err := IniToToml(iniPath)

		require.NoError(t, err)
		assert.Equal(t, config.BaseDefaults.Polling.SpeedIntervalMs, vals.Polling.SpeedIntervalMs)
	})
}

func TestIniToToml_OtherSettings(t *testing.T) {
	t.Parallel()

	t.Run("main and diagnostics settings are migrated", func(t *testing.T) {
		t.Parallel()

		iniContent := `[netpilot]
debug = true
error_reporting = true

[diagnostics]
ping_target = 1.1.1.1
`
		iniPath := filepath.Join(t.TempDir(), "netpilot.ini")
		err := os.WriteFile(iniPath, []byte(iniContent), 0o600)
		require.NoError(t, err)

		vals, err := IniToToml(iniPath)

		require.NoError(t, err)
		assert.True(t, vals.DebugLogging)
		assert.True(t, vals.Service.ErrorReporting)
		assert.Equal(t, "1.1.1.1", vals.Diagnostics.PingTarget)
		// untouched defaults survive the migration
		assert.Equal(t, config.StatsSourceNative, vals.Stats.Source)
	})

	t.Run("unreadable ini returns error", func(t *testing.T) {
		t.Parallel()

		vals, err := IniToToml(filepath.Join(t.TempDir(), "missing.ini"))

		require.Error(t, err)
		assert.Equal(t, config.BaseDefaults.Diagnostics.PingTarget, vals.Diagnostics.PingTarget)
	})
}

func TestRequired(t *testing.T) {
	t.Parallel()

	t.Run("returns true when ini exists and toml does not", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		iniPath := filepath.Join(tmpDir, "netpilot.ini")
		tomlPath := filepath.Join(tmpDir, "netpilot.toml")

		err := os.WriteFile(iniPath, []byte("[netpilot]"), 0o600)
		require.NoError(t, err)

		assert.True(t, Required(iniPath, tomlPath))
	})

	t.Run("returns false when both exist", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		iniPath := filepath.Join(tmpDir, "netpilot.ini")
		tomlPath := filepath.Join(tmpDir, "netpilot.toml")

		err := os.WriteFile(iniPath, []byte("[netpilot]"), 0o600)
		require.NoError(t, err)
		err = os.WriteFile(tomlPath, []byte("config_schema = 1"), 0o600)
		require.NoError(t, err)

		assert.False(t, Required(iniPath, tomlPath))
	})

	t.Run("returns false when ini does not exist", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		iniPath := filepath.Join(tmpDir, "netpilot.ini")
		tomlPath := filepath.Join(tmpDir, "netpilot.toml")

		assert.False(t, Required(iniPath, tomlPath))
	})
}
