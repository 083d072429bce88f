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
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const publicIPTimeout = 3 * time.Second

var publicIPClient = &http.Client{Timeout: publicIPTimeout}

// Latency is a single ping measurement. OK false means the target did not
// answer in time; Failed means the ping command itself did not complete.
type Latency struct {
	Millis float64
	OK     bool
	Failed bool
}

// String renders the measurement for display.
func (l Latency) String() string {
	switch {
	case l.Failed:
		return "ping failed"
	case !l.OK:
		return "timed out"
	default:
		return fmt.Sprintf("%.0f ms", l.Millis)
	}
}

// Diagnostics is one connectivity snapshot. Fields that could not be
// gathered are left at their zero value; PublicIP is empty when the
// lookup failed.
type Diagnostics struct {
	PublicIP        string
	Gateway         string
	DNSServers      []string
	GatewayLatency  Latency
	ExternalLatency Latency
}

var (
	gatewayRe     = regexp.MustCompile(`Default Gateway.*: ([\d.]+)`)
	dnsServersRe  = regexp.MustCompile(`DNS Servers.*: ([\d.\s]+)`)
	dottedQuadRe  = regexp.MustCompile(`[\d.]+`)
	pingAverageRe = regexp.MustCompile(`Average = (\d+)ms`)
)

// Diagnostics gathers a connectivity snapshot: public IP, gateway, DNS
// servers, and round-trip latencies. The legs run in parallel and each
// failure only zeroes its own fields; a snapshot is always returned.
func (c *Client) Diagnostics(ctx context.Context, pingTarget, publicIPURL string) Diagnostics {
	var diag Diagnostics
	var g errgroup.Group

	g.Go(func() error {
		ip, err := fetchPublicIP(ctx, publicIPURL)
		if err != nil {
			log.Debug().Err(err).Msg("public IP lookup failed")
			return nil
		}
		diag.PublicIP = ip
		return nil
	})

	g.Go(func() error {
		res, err := c.run(ctx, "ipconfig", "/all")
		if err != nil {
			log.Debug().Err(err).Msg("ipconfig /all failed")
			return nil
		}
		diag.Gateway, diag.DNSServers = parseGatewayAndDNS(res.Out())
		if diag.Gateway != "" {
			diag.GatewayLatency = c.Ping(ctx, diag.Gateway)
		}
		return nil
	})

	g.Go(func() error {
		diag.ExternalLatency = c.Ping(ctx, pingTarget)
		return nil
	})

	// The legs absorb their own failures, so Wait only joins them.
	_ = g.Wait()
	return diag
}

// Ping sends a single echo request with a one second reply window and
// parses the averaged round trip.
func (c *Client) Ping(ctx context.Context, target string) Latency {
	res, err := c.run(ctx, "ping", "-n", "1", "-w", "1000", target)
	if err != nil {
		return Latency{Failed: true}
	}
	return ParsePingMillis(res.Out())
}

// ParsePingMillis extracts the average round trip from ping output. No
// match on an otherwise clean run means the target did not answer.
func ParsePingMillis(out string) Latency {
	m := pingAverageRe.FindStringSubmatch(out)
	if m == nil {
		return Latency{}
	}
	ms, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Latency{}
	}
	return Latency{OK: true, Millis: ms}
}

// parseGatewayAndDNS pulls the default gateway and DNS server list out of
// `ipconfig /all` output. The DNS capture spans continuation lines, which
// ipconfig indents under the first server.
func parseGatewayAndDNS(out string) (gateway string, servers []string) {
	if m := gatewayRe.FindStringSubmatch(out); m != nil {
		gateway = m[1]
	}

	var joined strings.Builder
	for _, m := range dnsServersRe.FindAllStringSubmatch(out, -1) {
		joined.WriteString(m[1])
	}
	servers = dottedQuadRe.FindAllString(joined.String(), -1)

	return gateway, servers
}

func fetchPublicIP(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, publicIPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create public IP request: %w", err)
	}

	resp, err := publicIPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch public IP: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public IP endpoint returned status %d", resp.StatusCode)
	}

	// The endpoint returns a bare address; anything longer is not one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", fmt.Errorf("failed to read public IP response: %w", err)
	}
	return strings.TrimSpace(string(body)), nil
}
