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

// Package winnet drives the Windows networking surface: adapter state,
// Wi-Fi, diagnostics, the connection table, and the repair commands.
// Every operation shells out to netsh, ipconfig, tracert, or PowerShell
// through a command.Runner, so the whole package is testable with a
// substitute runner and no real processes.
package winnet

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/NetPilotProject/netpilot-core/pkg/command"
	"github.com/go-viper/mapstructure/v2"
	"github.com/jonboulle/clockwork"
)

// StreamFunc starts a streaming command execution.
type StreamFunc func(ctx context.Context, args ...string) (command.Stream, error)

// Client exposes the network operations as methods over a shared runner.
type Client struct {
	runner   command.Runner
	ps       *command.PowerShell
	scripts  *ScriptStore
	stream   StreamFunc
	elevated func() bool
	clock    clockwork.Clock
}

// NewClient creates a client executing through the given runner. Scripts
// may be nil, in which case only the embedded copies are available.
func NewClient(runner command.Runner, scripts *ScriptStore) *Client {
	return &Client{
		runner:   runner,
		ps:       command.NewPowerShell(runner),
		scripts:  scripts,
		stream:   command.StreamLines,
		elevated: IsElevated,
		clock:    clockwork.NewRealClock(),
	}
}

// run executes a plain argument vector with exit status checking.
func (c *Client) run(ctx context.Context, args ...string) (*command.Result, error) {
	res, err := c.runner.Run(ctx, command.Request{Args: args, Check: true})
	if err != nil {
		//nolint:wrapcheck // operations wrap with their own context
		return nil, err
	}
	return res, nil
}

// runScript executes a named script from the store through PowerShell.
// Arguments are prepended as plain variable assignments, which is the only
// reliable way to parameterize an encoded command.
func (c *Client) runScript(ctx context.Context, name string, args map[string]string) (string, error) {
	script, err := c.scripts.Script(name)
	if err != nil {
		return "", err
	}

	if len(args) > 0 {
		var prologue strings.Builder
		for _, k := range slices.Sorted(maps.Keys(args)) {
			prologue.WriteString("$" + k + " = '" + psQuote(args[k]) + "';\n")
		}
		script = prologue.String() + script
	}

	out, err := c.ps.Run(ctx, script)
	if err != nil {
		//nolint:wrapcheck // operations wrap with their own context
		return "", err
	}
	return out, nil
}

// psQuote escapes a value for use inside a single-quoted PowerShell string
// literal.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// decodeJSONList parses tool JSON that may be empty, a single object, or an
// array, and decodes it into a slice of T. ConvertTo-Json drops the array
// wrapper when the pipeline produced a single element, so both shapes are
// normal.
func decodeJSONList[T any](tool, raw string) ([]T, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, &command.ParseError{Tool: tool, Reason: "invalid JSON", Output: raw}
	}

	items, ok := data.([]any)
	if !ok {
		items = []any{data}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var decoded T
		if err := decodeWeak(item, &decoded); err != nil {
			return nil, &command.ParseError{Tool: tool, Reason: err.Error(), Output: raw}
		}
		out = append(out, decoded)
	}
	return out, nil
}

// decodeWeak maps loosely typed JSON values onto a struct. PowerShell is
// inconsistent about value types across OS versions (numbers where strings
// are expected, enums serialized as integers), so everything decodes
// weakly by json tag.
func decodeWeak(input, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return nil
}
