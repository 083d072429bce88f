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

// Package migrate converts a legacy netpilot.ini into current config values.
// Pre-1.0 builds kept their settings in an INI file next to the executable;
// this runs once, before the TOML config is first written.
package migrate

import (
	"fmt"
	"os"

	"github.com/NetPilotProject/netpilot-core/pkg/config"
	ini "gopkg.in/ini.v1"
)

// Required reports whether a legacy INI migration should run: the old INI
// file exists and the new TOML config does not.
func Required(iniPath, tomlPath string) bool {
	if _, err := os.Stat(iniPath); err != nil {
		return false
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return false
	}
	return true
}

// IniToToml reads a legacy netpilot.ini and returns config values with the
// legacy settings applied on top of the base defaults. Legacy intervals were
// whole seconds; they become milliseconds here.
func IniToToml(iniPath string) (config.Values, error) {
	vals := config.BaseDefaults

	file, err := ini.Load(iniPath)
	if err != nil {
		return vals, fmt.Errorf("failed to load ini file: %w", err)
	}

	main := file.Section("netpilot")
	if main.HasKey("debug") {
		vals.DebugLogging = main.Key("debug").MustBool(false)
	}
	if main.HasKey("error_reporting") {
		vals.Service.ErrorReporting = main.Key("error_reporting").MustBool(false)
	}

	polling := file.Section("polling")
	if polling.HasKey("speed_interval") {
		secs := polling.Key("speed_interval").MustInt(0)
		if secs > 0 {
			vals.Polling.SpeedIntervalMs = secs * 1000
		}
	}
	if polling.HasKey("status_interval") {
		secs := polling.Key("status_interval").MustInt(0)
		if secs > 0 {
			vals.Polling.StatusIntervalMs = secs * 1000
		}
	}

	diag := file.Section("diagnostics")
	if diag.HasKey("ping_target") {
		if target := diag.Key("ping_target").String(); target != "" {
			vals.Diagnostics.PingTarget = target
		}
	}

	return vals, nil
}
