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
	"net"
	"regexp"
	"strings"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
)

// hostnameRe accepts RFC 1123 host names: dot-separated labels of
// alphanumerics and inner hyphens.
var hostnameRe = regexp.MustCompile(
	`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?` +
		`(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`,
)

// ValidateTraceTarget rejects targets that are neither an IP literal nor
// a plausible host name, before anything gets spawned with the value on
// its command line.
func ValidateTraceTarget(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidTraceTarget)
	}
	if net.ParseIP(target) != nil {
		return nil
	}
	if len(target) <= 253 && hostnameRe.MatchString(target) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidTraceTarget, target)
}

// Traceroute starts `tracert -d` against a validated target and returns
// the stream of hop lines. The caller owns the stream and must Close it;
// a non-zero tracert exit surfaces through Err after the lines drain.
func (c *Client) Traceroute(ctx context.Context, target string) (command.Stream, error) {
	if err := ValidateTraceTarget(target); err != nil {
		return nil, err
	}

	stream, err := c.stream(ctx, "tracert", "-d", strings.TrimSpace(target))
	if err != nil {
		return nil, fmt.Errorf("failed to start traceroute: %w", err)
	}
	return stream, nil
}
