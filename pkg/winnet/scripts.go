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
	"embed"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

//go:embed scripts/*.ps1
var embeddedScripts embed.FS

// Names of the embedded PowerShell scripts.
const (
	scriptAdapterDetails = "adapterdetails.ps1"
	scriptWifiStatus     = "wifistatus.ps1"
	scriptConnections    = "connections.ps1"
)

// ScriptStore resolves named PowerShell scripts. A file of the same name
// in the override directory wins over the embedded copy, so users can
// patch a script without rebuilding.
type ScriptStore struct {
	fs  afero.Fs
	dir string
}

// NewScriptStore creates a store reading overrides from dir through fs.
// An empty dir disables overrides entirely.
func NewScriptStore(fs afero.Fs, dir string) *ScriptStore {
	return &ScriptStore{fs: fs, dir: dir}
}

// Script returns the content of a named script.
func (s *ScriptStore) Script(name string) (string, error) {
	if s != nil && s.dir != "" {
		path := filepath.Join(s.dir, name)
		if ok, err := afero.Exists(s.fs, path); err == nil && ok {
			data, err := afero.ReadFile(s.fs, path)
			if err != nil {
				return "", fmt.Errorf("failed to read script override %q: %w", name, err)
			}
			log.Debug().Msgf("using script override: %s", path)
			return string(data), nil
		}
	}

	data, err := embeddedScripts.ReadFile("scripts/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown script %q: %w", name, err)
	}
	return string(data), nil
}
