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
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// HiddenNetworkName stands in for networks that do not broadcast an SSID.
const HiddenNetworkName = "(Hidden Network)"

// WifiStatus describes the current Wi-Fi association, if any. The zero
// value means not connected.
type WifiStatus struct {
	Connected     bool   `json:"-"`
	InterfaceName string `json:"interface_name"`
	SSID          string `json:"ssid"`
	Signal        string `json:"signal"`
	IPv4          string `json:"ipv4"`
}

// WifiNetwork is one network found by a scan. Signal is a bare percentage
// ("87") or "N/A" when netsh omitted it.
type WifiNetwork struct {
	SSID           string
	Authentication string
	Encryption     string
	Signal         string
}

// wifiNetworkRe captures one SSID block of `netsh wlan show networks
// mode=Bssid` output: name, authentication, encryption, and the first
// signal reading. The signal line is optional.
var wifiNetworkRe = regexp.MustCompile(
	`(?s)SSID \d+ :(.*?)\n` +
		`.*?Authentication\s+: (.+?)\n` +
		`.*?Encryption\s+: (.+?)\n` +
		`(?:.*?Signal\s+: (\d+)%)?`,
)

// WifiStatus reports the current Wi-Fi connection. Missing hardware, a
// stopped wlan service, or a transient query failure all read as not
// connected; only cancellation surfaces as an error.
func (c *Client) WifiStatus(ctx context.Context) (WifiStatus, error) {
	out, err := c.runScript(ctx, scriptWifiStatus, nil)
	if err != nil {
		if ctx.Err() != nil {
			return WifiStatus{}, fmt.Errorf("failed to query Wi-Fi status: %w", err)
		}
		log.Debug().Err(err).Msg("wifi status query failed, treating as not connected")
		return WifiStatus{}, nil
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return WifiStatus{}, nil
	}

	var status WifiStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		log.Debug().Err(err).Msg("wifi status output was not JSON, treating as not connected")
		return WifiStatus{}, nil
	}
	status.Connected = true
	return status, nil
}

// ScanNetworks lists the Wi-Fi networks currently in range. A machine
// without wireless hardware returns an empty list, not an error.
func (c *Client) ScanNetworks(ctx context.Context) ([]WifiNetwork, error) {
	res, err := c.run(ctx, "netsh", "wlan", "show", "networks", "mode=Bssid")
	if err != nil {
		if matchOutput(err, "no wireless interface") {
			log.Warn().Msg("no wireless interface found while scanning networks")
			return nil, nil
		}
		if matchOutput(err, "location permission") {
			return nil, fmt.Errorf("failed to scan Wi-Fi networks: %w", ErrLocationPermissionDenied)
		}
		return nil, fmt.Errorf("failed to scan Wi-Fi networks: %w", err)
	}
	return ParseWifiNetworks(res.Out()), nil
}

// ParseWifiNetworks extracts networks from netsh scan output, collapsing
// duplicate SSIDs to their first occurrence.
func ParseWifiNetworks(out string) []WifiNetwork {
	var networks []WifiNetwork
	seen := make(map[string]struct{})

	for _, m := range wifiNetworkRe.FindAllStringSubmatch(out, -1) {
		ssid := strings.TrimSpace(m[1])
		if ssid == "" {
			ssid = HiddenNetworkName
		}
		if _, ok := seen[ssid]; ok {
			continue
		}
		seen[ssid] = struct{}{}

		networks = append(networks, WifiNetwork{
			SSID:           ssid,
			Authentication: orNA(strings.TrimSpace(m[2])),
			Encryption:     orNA(strings.TrimSpace(m[3])),
			Signal:         orNA(strings.TrimSpace(m[4])),
		})
	}
	return networks
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Profiles returns the names of saved Wi-Fi profiles.
func (c *Client) Profiles(ctx context.Context) ([]string, error) {
	res, err := c.run(ctx, "netsh", "wlan", "show", "profiles")
	if err != nil {
		return nil, fmt.Errorf("failed to list Wi-Fi profiles: %w", err)
	}

	var names []string
	for line := range strings.Lines(res.Out()) {
		if !strings.Contains(line, "All User Profile") {
			continue
		}
		_, name, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// ConnectWifi connects using a saved profile name.
func (c *Client) ConnectWifi(ctx context.Context, profile string) error {
	_, err := c.run(ctx, "netsh", "wlan", "connect", `name="`+profile+`"`)
	if err != nil {
		if matchOutput(err, "the network security key is not correct") {
			return fmt.Errorf("connection to %q failed: %w", profile, ErrWifiInvalidKey)
		}
		return fmt.Errorf("failed to connect using profile %q: %w", profile, err)
	}
	return nil
}

// DisconnectWifi drops the current Wi-Fi connection. Disconnecting while
// not connected returns ErrNotConnected.
func (c *Client) DisconnectWifi(ctx context.Context) error {
	_, err := c.run(ctx, "netsh", "wlan", "disconnect")
	if err != nil {
		if matchOutput(err, "not connected", "ei ole yhteydessä") {
			return ErrNotConnected
		}
		return fmt.Errorf("failed to disconnect from Wi-Fi: %w", err)
	}
	return nil
}

// DeleteProfile removes a saved Wi-Fi profile.
func (c *Client) DeleteProfile(ctx context.Context, profile string) error {
	_, err := c.run(ctx, "netsh", "wlan", "delete", "profile", `name="`+profile+`"`)
	if err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", profile, err)
	}
	return nil
}
