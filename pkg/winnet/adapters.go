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
	"strings"
	"time"
)

const (
	disconnectConfirmTimeout = 5 * time.Second
	disconnectPollInterval   = time.Second
)

// Adapter is one physical network adapter as reported by the enumeration
// script.
type Adapter struct {
	Name                 string `json:"Name"`
	InterfaceDescription string `json:"InterfaceDescription"`
	Status               string `json:"Status"`
	MACAddress           string `json:"MacAddress"`
	IPv4Address          string `json:"IPv4Address"`
	IPv6Address          string `json:"IPv6Address"`
	LinkSpeed            string `json:"LinkSpeed"`
	DriverVersion        string `json:"DriverVersion"`
	DriverDate           string `json:"DriverDate"`
}

// Enabled reports the administrative state. Get-NetAdapter reports "Up",
// "Down", "Disconnected", or "Disabled"; only "Disabled" means the adapter
// is administratively off.
func (a Adapter) Enabled() bool {
	return a.Status != "Disabled"
}

// Adapters enumerates physical network adapters with their addressing and
// driver details.
func (c *Client) Adapters(ctx context.Context) ([]Adapter, error) {
	out, err := c.runScript(ctx, scriptAdapterDetails, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate adapters: %w", err)
	}
	return decodeJSONList[Adapter]("adapter enumeration", out)
}

// EnableAdapter turns an adapter on by name.
func (c *Client) EnableAdapter(ctx context.Context, name string) error {
	return c.setAdapterState(ctx, name, "Enable")
}

// DisableAdapter turns an adapter off by name. Disabling the adapter that
// carries the active Wi-Fi connection fails with
// ErrWifiConnectedDisableFailed; use DisconnectAndDisable for that case.
func (c *Client) DisableAdapter(ctx context.Context, name string) error {
	return c.setAdapterState(ctx, name, "Disable")
}

// setAdapterState flips an adapter through the Enable-NetAdapter or
// Disable-NetAdapter cmdlet, which reports far more actionable errors
// than netsh.
func (c *Client) setAdapterState(ctx context.Context, name, verb string) error {
	script := fmt.Sprintf("%s-NetAdapter -Name '%s' -Confirm:$false", verb, psQuote(name))
	_, err := c.ps.Run(ctx, script)
	if err == nil {
		return nil
	}

	if verb == "Disable" && matchOutput(err, "cannot be disabled", "ei voi poistaa käytöstä") {
		return fmt.Errorf("cannot disable %q while it is connected to a Wi-Fi network: %w",
			name, ErrWifiConnectedDisableFailed)
	}
	if matchOutput(err, "object is already in the state") {
		return fmt.Errorf("adapter %q: %w", name, ErrAlreadyInState)
	}
	return fmt.Errorf("failed to %s adapter %q: %w", strings.ToLower(verb), name, err)
}

// DisconnectAndDisable safely disables an adapter that may hold the active
// Wi-Fi connection: disconnect, wait until the link confirms down, then
// disable. Progress lines go through notify for surfacing to the user;
// notify may be nil.
func (c *Client) DisconnectAndDisable(ctx context.Context, name string, notify func(string)) error {
	if notify == nil {
		notify = func(string) {}
	}

	notify("Step 1/3: Disconnecting from Wi-Fi...")
	if err := c.DisconnectWifi(ctx); err != nil && !errors.Is(err, ErrNotConnected) {
		return err
	}

	notify("Step 2/3: Confirming disconnection...")
	deadline := c.clock.Now().Add(disconnectConfirmTimeout)
	for {
		status, err := c.WifiStatus(ctx)
		if err == nil && !status.Connected {
			break
		}
		if c.clock.Now().After(deadline) {
			return fmt.Errorf("failed to confirm Wi-Fi disconnection within %s", disconnectConfirmTimeout)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("disconnect confirmation interrupted: %w", ctx.Err())
		case <-c.clock.After(disconnectPollInterval):
		}
	}

	notify(fmt.Sprintf("Step 3/3: Disabling adapter '%s'...", name))
	if err := c.DisableAdapter(ctx, name); err != nil {
		return err
	}

	notify(fmt.Sprintf("Successfully disabled '%s'.", name))
	return nil
}

// SetStaticAddress configures a static IPv4 address on an adapter.
// Gateway may be empty for a gatewayless segment.
func (c *Client) SetStaticAddress(ctx context.Context, name, ip, mask, gateway string) error {
	args := []string{
		"netsh", "interface", "ip", "set", "address",
		`name="` + name + `"`, "static", ip, mask,
	}
	if gateway != "" {
		args = append(args, gateway)
	}
	if _, err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to set static address on %q: %w", name, err)
	}
	return nil
}

// SetDHCP returns an adapter to DHCP-assigned addressing.
func (c *Client) SetDHCP(ctx context.Context, name string) error {
	args := []string{
		"netsh", "interface", "ip", "set", "address",
		`name="` + name + `"`, "dhcp",
	}
	if _, err := c.run(ctx, args...); err != nil {
		if matchOutput(err, "dhcp is already enabled") {
			return fmt.Errorf("adapter %q: %w", name, ErrAlreadyInState)
		}
		return fmt.Errorf("failed to enable DHCP on %q: %w", name, err)
	}
	return nil
}

// NetworkAvailable reports whether any enabled adapter currently holds an
// IPv4 address. Errors count as unavailable.
func (c *Client) NetworkAvailable(ctx context.Context) bool {
	adapters, err := c.Adapters(ctx)
	if err != nil {
		return false
	}
	for _, a := range adapters {
		if a.Enabled() && a.IPv4Address != "" {
			return true
		}
	}
	return false
}
