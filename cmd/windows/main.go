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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/NetPilotProject/netpilot-core/internal/telemetry"
	"github.com/NetPilotProject/netpilot-core/pkg/cli"
	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/config/migrate"
	"github.com/NetPilotProject/netpilot-core/pkg/helpers"
	"github.com/NetPilotProject/netpilot-core/pkg/service"
	"github.com/NetPilotProject/netpilot-core/pkg/service/events"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// drainInterval is how often the console consumer empties the event
// queue. Producers never block on it; a slow console only delays display.
const drainInterval = 100 * time.Millisecond

func main() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	flags := cli.SetupFlags()
	flags.Pre()

	defaults := config.BaseDefaults
	iniPath := filepath.Join(helpers.ExeDir(), config.LegacyIniFile)
	if migrate.Required(iniPath, filepath.Join(helpers.ConfigDir(), config.CfgFile)) {
		migrated, err := migrate.IniToToml(iniPath)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error migrating config: %v\n", err)
			os.Exit(1)
		}
		defaults = migrated
	}

	cfg := cli.Setup(
		defaults,
		[]io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	)

	flags.Post(cfg, winnet.NewClient(&command.ExecRunner{}, nil))

	core, err := service.Start(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		_, _ = fmt.Fprintln(os.Stderr, "Error starting service:", err)
		os.Exit(1)
	}

	if *flags.Adapter != "" {
		core.State.SetSelectedAdapter(*flags.Adapter)
		log.Info().Str("adapter", *flags.Adapter).Msg("reporting throughput for adapter")
	}

	// The reference consumer: drain the queue on a fixed cadence and
	// render each event. No blocking work happens here; producers
	// already did it all.
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-sigs:
			log.Info().Msg("shutting down")
			core.Stop()
			telemetry.Close()
			return
		case <-ticker.C:
			for _, event := range core.Queue.Drain() {
				renderEvent(core, event)
			}
		}
	}
}

func renderEvent(core *service.Core, event events.Event) {
	switch e := event.(type) {
	case events.SpeedUpdated:
		name := core.State.SelectedAdapter()
		rate, ok := e.Speeds[name]
		if !ok {
			return
		}
		log.Info().
			Str("down", formatRate(rate.DownloadBPS)).
			Str("up", formatRate(rate.UploadBPS)).
			Msgf("throughput on %s", name)
	case events.AdaptersUpdated:
		log.Info().Msgf("found %d network adapters", len(e.Adapters))
		for _, adapter := range e.Adapters {
			log.Info().
				Str("status", adapter.Status).
				Str("ipv4", adapter.IPv4Address).
				Str("link", adapter.LinkSpeed).
				Msgf("adapter: %s", adapter.Name)
		}
	case events.DiagnosticsUpdated:
		d := e.Diagnostics
		log.Info().
			Str("public_ip", d.PublicIP).
			Str("gateway", d.Gateway).
			Str("gateway_ping", d.GatewayLatency.String()).
			Str("external_ping", d.ExternalLatency.String()).
			Strs("dns", d.DNSServers).
			Msg("connectivity snapshot")
	case events.WifiStatusUpdated:
		if !e.Status.Connected {
			log.Info().Msg("wifi: not connected")
			return
		}
		log.Info().
			Str("signal", e.Status.Signal).
			Str("ipv4", e.Status.IPv4).
			Msgf("wifi: connected to %s", e.Status.SSID)
	case events.CommandSucceeded:
		log.Info().Str("action", string(e.Action)).Msg(e.Detail)
	case events.CommandFailed:
		log.Error().Err(e.Err).Str("action", string(e.Action)).Msg("command failed")
	case events.StatusText:
		log.Info().Msg(e.Text)
	}
}

func formatRate(bps float64) string {
	switch {
	case bps >= 1e6:
		return fmt.Sprintf("%.1f MB/s", bps/1e6)
	case bps >= 1e3:
		return fmt.Sprintf("%.1f KB/s", bps/1e3)
	default:
		return fmt.Sprintf("%.0f B/s", bps)
	}
}
