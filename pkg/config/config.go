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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/NetPilotProject/netpilot-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "NETPILOT_CFG"

	StatsSourceNative     = "native"
	StatsSourcePowerShell = "powershell"
)

type Values struct {
	Polling      Polling     `toml:"polling,omitempty"`
	Diagnostics  Diagnostics `toml:"diagnostics,omitempty"`
	Stats        Stats       `toml:"stats,omitempty"`
	Scripts      Scripts     `toml:"scripts,omitempty"`
	Service      Service     `toml:"service,omitempty"`
	ConfigSchema int         `toml:"config_schema"`
	DebugLogging bool        `toml:"debug_logging"`
}

type Polling struct {
	SpeedIntervalMs  int `toml:"speed_interval_ms"  validate:"omitempty,min=100"`
	StatusIntervalMs int `toml:"status_interval_ms" validate:"omitempty,min=1000"`
}

type Diagnostics struct {
	PingTarget  string `toml:"ping_target"   validate:"omitempty,ip|hostname_rfc1123"`
	PublicIPURL string `toml:"public_ip_url" validate:"omitempty,url"`
}

type Stats struct {
	Source string `toml:"source" validate:"omitempty,oneof=native powershell"`
}

type Scripts struct {
	// Dir optionally points at a directory of user PowerShell scripts that
	// override the embedded ones, matched by file name.
	Dir string `toml:"dir,omitempty"`
}

type Service struct {
	DeviceID       string `toml:"device_id,omitempty"`
	ErrorReporting bool   `toml:"error_reporting"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Polling: Polling{
		SpeedIntervalMs:  1000,
		StatusIntervalMs: 5000,
	},
	Diagnostics: Diagnostics{
		PingTarget:  "8.8.8.8",
		PublicIPURL: "https://api.ipify.org",
	},
	Stats: Stats{
		Source: StatsSourceNative,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	if _, err := os.Stat(c.cfgPath); err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := validateValues(&newVals); err != nil {
		return err
	}

	c.vals = newVals

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

// SpeedInterval returns the fast polling loop cadence.
func (c *Instance) SpeedInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Polling.SpeedIntervalMs) * time.Millisecond
}

// StatusInterval returns the slow polling loop cadence.
func (c *Instance) StatusInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Polling.StatusIntervalMs) * time.Millisecond
}

func (c *Instance) PingTarget() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Diagnostics.PingTarget
}

func (c *Instance) PublicIPURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Diagnostics.PublicIPURL
}

func (c *Instance) StatsSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Stats.Source
}

func (c *Instance) ScriptsDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scripts.Dir
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.ErrorReporting
}
