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

package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NetPilotProject/netpilot-core/internal/telemetry"
	"github.com/NetPilotProject/netpilot-core/pkg/config"
	"github.com/NetPilotProject/netpilot-core/pkg/helpers"
	"github.com/NetPilotProject/netpilot-core/pkg/winnet"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Trace   *string
	Adapter *string
	Version *bool
	Diag    *bool
}

// SetupFlags defines the common CLI flags. Add any custom flags before
// calling Pre.
func SetupFlags() *Flags {
	return &Flags{
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Diag: flag.Bool(
			"diag",
			false,
			"print a connectivity snapshot and exit",
		),
		Trace: flag.String(
			"trace",
			"",
			"trace the route to a host and exit",
		),
		Adapter: flag.String(
			"adapter",
			"",
			"network adapter to report throughput for",
		),
	}
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("NetPilot v%s\n", config.AppVersion)
		os.Exit(0)
	}
}

// Post actions the remaining one-shot flags, which need config and
// logging set up. When one matches, it runs to completion and exits.
func (f *Flags) Post(cfg *config.Instance, client *winnet.Client) {
	switch {
	case *f.Diag:
		runDiag(cfg, client)
	case *f.Trace != "":
		runTrace(client, *f.Trace)
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func runDiag(cfg *config.Instance, client *winnet.Client) {
	if info, err := winnet.HostInfo(); err == nil {
		_, _ = fmt.Printf("Host:        %s (up %s)\n", info.Hostname, info.Uptime.Round(time.Second))
	}

	diag := client.Diagnostics(context.Background(), cfg.PingTarget(), cfg.PublicIPURL())

	_, _ = fmt.Printf("Public IP:   %s\n", orNone(diag.PublicIP))
	_, _ = fmt.Printf("Gateway:     %s (%s)\n", orNone(diag.Gateway), diag.GatewayLatency)
	_, _ = fmt.Printf("DNS servers: %s\n", orNone(strings.Join(diag.DNSServers, ", ")))
	_, _ = fmt.Printf("Ping %s: %s\n", cfg.PingTarget(), diag.ExternalLatency)
	os.Exit(0)
}

func runTrace(client *winnet.Client, target string) {
	stream, err := client.Traceroute(context.Background(), target)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error starting traceroute: %v\n", err)
		os.Exit(1)
	}

	// kill the child on ctrl-c instead of orphaning it
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		_ = stream.Close()
	}()

	for line := range stream.Lines() {
		_, _ = fmt.Println(line)
	}

	if err := stream.Err(); err != nil {
		log.Error().Err(err).Msg("traceroute failed")
		_, _ = fmt.Fprintf(os.Stderr, "Traceroute failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// Setup initializes directories, logging, the user config, and error
// reporting. Returns the loaded config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	// Ensure directories exist before logging initialization
	err := helpers.EnsureDirectories()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Initialize error reporting (opt-in)
	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg
}
