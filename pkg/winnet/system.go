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
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/mackerelio/go-osstat/uptime"
	"github.com/rs/zerolog/log"
)

// renewTimeout is generous because a renew against an unreachable DHCP
// server blocks until Windows gives up on every adapter.
const renewTimeout = 60 * time.Second

// releaseIgnorable lists release failures that are routine: nothing held
// a lease, or the medium is down. The release step is best effort; renew
// is the step that matters.
var releaseIgnorable = []string{
	"no operation can be performed",
	"media is disconnected",
	"the system cannot find the file specified",
}

// SystemInfo reports host basics for the diagnostics view.
type SystemInfo struct {
	Hostname string
	Uptime   time.Duration
}

// FlushDNS clears the DNS resolver cache.
func (c *Client) FlushDNS(ctx context.Context) error {
	if _, err := c.run(ctx, "ipconfig", "/flushdns"); err != nil {
		return fmt.Errorf("failed to flush DNS cache: %w", err)
	}
	return nil
}

// ReleaseRenew drops and re-acquires DHCP leases on all adapters.
// Progress lines go through notify for surfacing to the user; notify may
// be nil. The renew step can stall for a long time against a dead DHCP
// server, so the caller is told before the wait starts.
func (c *Client) ReleaseRenew(ctx context.Context, notify func(string)) error {
	if notify == nil {
		notify = func(string) {}
	}

	notify("Releasing DHCP leases...")
	res, err := c.runner.Run(ctx, command.Request{Args: []string{"ipconfig", "/release"}})
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("ipconfig /release failed to run")
	case res.ExitCode != 0:
		msg := res.Err()
		if strings.TrimSpace(msg) == "" {
			msg = res.Out()
		}
		msg = strings.ToLower(strings.TrimSpace(msg))
		if containsAny(msg, releaseIgnorable...) {
			log.Info().Msg("ipconfig /release had nothing to release")
		} else {
			log.Warn().Msgf("ipconfig /release exited %d: %s", res.ExitCode, msg)
		}
	}

	notify("Renewing DHCP leases, this can take a minute...")
	_, err = c.runner.Run(ctx, command.Request{
		Args:    []string{"ipconfig", "/renew"},
		Check:   true,
		Timeout: renewTimeout,
	})
	if err != nil {
		if matchOutput(err, "unable to contact your dhcp server") {
			return fmt.Errorf("failed to renew IP address: %w", ErrDHCPServerUnreachable)
		}
		if matchOutput(err, "no adapter is in the state permissible") {
			return fmt.Errorf("failed to renew IP address: %w", ErrAdapterDisabled)
		}
		return fmt.Errorf("failed to renew IP address: %w", err)
	}
	return nil
}

// WinsockReset resets the Winsock catalog. The reset only takes effect
// after a reboot, and Windows refuses it without elevation, so that is
// checked up front for a clear error.
func (c *Client) WinsockReset(ctx context.Context) error {
	if !c.elevated() {
		return fmt.Errorf("cannot reset network stack: %w", ErrElevationRequired)
	}
	if _, err := c.run(ctx, "netsh", "winsock", "reset"); err != nil {
		return fmt.Errorf("failed to reset network stack: %w", err)
	}
	return nil
}

// KillProcess force-terminates a process tree by PID. The idle and
// system processes are refused outright.
func (c *Client) KillProcess(ctx context.Context, pid int) error {
	if pid == 0 || pid == 4 {
		return errors.New("terminating system-critical processes is not allowed")
	}
	if _, err := c.run(ctx, "taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", pid, err)
	}
	return nil
}

// HostInfo reports basics about this machine.
func HostInfo() (SystemInfo, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to read hostname: %w", err)
	}
	up, err := uptime.Get()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("failed to read uptime: %w", err)
	}
	return SystemInfo{Hostname: hostname, Uptime: up}, nil
}
